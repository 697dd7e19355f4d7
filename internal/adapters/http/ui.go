package http

import (
	"embed"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/index.html
var templateFS embed.FS

// NewViews returns the template engine for the embedded pages.
func NewViews() *html.Engine {
	return html.NewFileSystem(nethttp.FS(templateFS), ".html")
}

type indexData struct {
	Games    []GameResponse
	MaxCount int
}

// Index renders the card selection page.
func (h *DeckHandler) Index(c *fiber.Ctx) error {
	games, err := h.catalog.ListGames(c.UserContext())
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}
	return c.Render("templates/index", indexData{Games: toGameResponses(games), MaxCount: h.maxCount})
}
