package ports

import (
	"context"

	"github.com/melih/cardpress/internal/core/domain"
)

// CatalogService discovers games on some backing store.
type CatalogService interface {
	// ListGames returns every valid game sorted by name.
	ListGames(ctx context.Context) ([]domain.Game, error)
	GetGame(ctx context.Context, name string) (domain.Game, error)
}

// DocumentService renders print documents and resolves them for download.
type DocumentService interface {
	Generate(ctx context.Context, game domain.Game, counts domain.Counts) (domain.Document, error)
	Open(name string) (string, error)
}

// AssetSyncService refreshes the games directory from its upstream source.
type AssetSyncService interface {
	Sync(ctx context.Context) error
}
