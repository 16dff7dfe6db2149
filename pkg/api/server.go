package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/treinwacht/treinwacht/pkg/monitor"
)

func SetupServer(listen string, store *monitor.StateStore) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/notifications")

	group.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"enabled": store.NotificationsEnabled(c.Context()),
		})
	})

	group.Post("/enable", func(c *fiber.Ctx) error {
		if err := store.SetNotificationsEnabled(c.Context(), true); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"enabled": true,
		})
	})

	group.Post("/disable", func(c *fiber.Ctx) error {
		if err := store.SetNotificationsEnabled(c.Context(), false); err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"enabled": false,
		})
	})

	return webApp.Listen(listen)
}
