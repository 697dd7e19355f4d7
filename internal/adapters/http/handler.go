package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/melih/cardpress/internal/core/domain"
	"github.com/melih/cardpress/internal/core/ports"
)

type DeckHandler struct {
	catalog   ports.CatalogService
	documents ports.DocumentService
	assets    ports.AssetSyncService
	maxCount  int
}

func NewDeckHandler(catalog ports.CatalogService, documents ports.DocumentService, assets ports.AssetSyncService, maxCount int) *DeckHandler {
	return &DeckHandler{catalog: catalog, documents: documents, assets: assets, maxCount: maxCount}
}

type CardResponse struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type GameResponse struct {
	Name  string         `json:"name"`
	Cards []CardResponse `json:"cards"`
}

type GenerateDocumentRequest struct {
	Counts domain.Counts `json:"counts"`
}

type DocumentResponse struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Pages int    `json:"pages"`
	Cards int    `json:"cards"`
	Size  int64  `json:"size"`
}

func cardImageURL(game, card string) string {
	return "/api/v1/games/" + url.PathEscape(game) + "/cards/" + url.PathEscape(card) + "/image"
}

func documentURL(name string) string {
	return "/api/v1/documents/" + url.PathEscape(name)
}

func toGameResponses(games []domain.Game) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for _, g := range games {
		resp := GameResponse{Name: g.Name, Cards: make([]CardResponse, 0, len(g.Fronts))}
		for _, c := range g.Fronts {
			resp.Cards = append(resp.Cards, CardResponse{Name: c.Name, Image: cardImageURL(g.Name, c.Name)})
		}
		out = append(out, resp)
	}
	return out
}

func (h *DeckHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.catalog.ListGames(c.UserContext())
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(toGameResponses(games))
}

// ReloadGames refreshes the assets from upstream. A failed sync still
// answers with the games currently on disk.
func (h *DeckHandler) ReloadGames(c *fiber.Ctx) error {
	if err := h.assets.Sync(c.UserContext()); err != nil {
		log.Warnf("failed to sync games: %v", err)
	}
	return h.ListGames(c)
}

func (h *DeckHandler) CardImage(c *fiber.Ctx) error {
	game, err := h.catalog.GetGame(c.UserContext(), c.Params("game"))
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			return errorResponse(c, fiber.StatusNotFound, err)
		}
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}
	card, ok := game.Card(c.Params("card"))
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, domain.ErrCardNotFound)
	}
	return c.SendFile(card.Path)
}

func (h *DeckHandler) GenerateDocument(c *fiber.Ctx) error {
	var req GenerateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	game, err := h.catalog.GetGame(c.UserContext(), c.Params("game"))
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Select a valid game before generating the document",
			})
		}
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	if err := req.Counts.Validate(game, h.maxCount); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err)
	}

	doc, err := h.documents.Generate(c.UserContext(), game, req.Counts)
	if err != nil {
		if errors.Is(err, domain.ErrNothingSelected) {
			return errorResponse(c, fiber.StatusBadRequest, err)
		}
		log.WithField("game", game.Name).Errorf("failed to generate document: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(DocumentResponse{
		Name:  doc.Name,
		URL:   documentURL(doc.Name),
		Pages: doc.Pages,
		Cards: doc.Cards,
		Size:  doc.Size,
	})
}

func (h *DeckHandler) DownloadDocument(c *fiber.Ctx) error {
	path, err := h.documents.Open(c.Params("name"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, err)
	}
	return c.Download(path)
}

func errorResponse(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
