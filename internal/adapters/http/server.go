package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp wires the routes of the service into a fiber app.
func NewApp(h *DeckHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cardpress",
		DisableStartupMessage: true,
		UnescapePath:          true,
		Views:                 NewViews(),
		ErrorHandler:          jsonErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger())

	app.Get("/", h.Index)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Routes for game operations
	games := v1.Group("/games")
	games.Get("/", h.ListGames)
	games.Post("/reload", h.ReloadGames)
	games.Get("/:game/cards/:card/image", h.CardImage)
	games.Post("/:game/documents", h.GenerateDocument)

	v1.Get("/documents/:name", h.DownloadDocument)

	return app
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
