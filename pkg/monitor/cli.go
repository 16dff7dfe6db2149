package monitor

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/treinwacht/treinwacht/pkg/notify"
	"github.com/treinwacht/treinwacht/pkg/nsapi"
	"github.com/treinwacht/treinwacht/pkg/redis_client"
	"github.com/treinwacht/treinwacht/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Watches the configured routes for delays and disruptions",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the route watcher",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "routes",
						Usage: "path to the routes configuration file",
						Value: "routes.yaml",
					},
					&cli.DurationFlag{
						Name:  "refresh-rate",
						Usage: "how often to poll the NS API",
						Value: 5 * time.Minute,
					},
				},
				Action: func(c *cli.Context) error {
					env := util.GetEnvironmentVariables()

					subscriptionKey := env["TREINWACHT_NSAPI_KEY"]
					if subscriptionKey == "" {
						return errors.New("TREINWACHT_NSAPI_KEY must be set")
					}

					routes, err := LoadRoutes(c.String("routes"))
					if err != nil {
						return err
					}
					if len(routes) == 0 {
						log.Fatal().Str("path", c.String("routes")).Msg("No routes configured")
					}

					if err := redis_client.Connect(); err != nil {
						return err
					}

					queue, err := redis_client.QueueConnection.OpenQueue(notify.QueueName)
					if err != nil {
						return err
					}

					watcher := &Watcher{
						Client:      nsapi.NewClient(subscriptionKey),
						Store:       &StateStore{Client: redis_client.Client},
						Routes:      routes,
						RefreshRate: c.Duration("refresh-rate"),
						Queue:       queue,
					}

					watcher.Run()

					return nil
				},
			},
		},
	}
}
