package api

import (
	"github.com/treinwacht/treinwacht/pkg/monitor"
	"github.com/treinwacht/treinwacht/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the notification control web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					store := &monitor.StateStore{Client: redis_client.Client}

					return SetupServer(c.String("listen"), store)
				},
			},
		},
	}
}
