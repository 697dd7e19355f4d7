package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/melih/cardpress/internal/core/domain"
)

// AllowedExtensions lists the image formats accepted as cards.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

// Catalog implements ports.CatalogService on top of a directory with one
// sub-directory per game.
type Catalog struct {
	baseDir string
}

// NewCatalog creates a catalog rooted at baseDir.
func NewCatalog(baseDir string) *Catalog {
	return &Catalog{baseDir: baseDir}
}

func (c *Catalog) BaseDir() string {
	return c.baseDir
}

// ListGames scans the base directory. Folders without a back or without
// fronts are skipped.
func (c *Catalog) ListGames(ctx context.Context) ([]domain.Game, error) {
	if err := os.MkdirAll(c.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create games dir: %w", err)
	}
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read games dir: %w", err)
	}

	var games []domain.Game
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		game, err := loadGame(filepath.Join(c.baseDir, entry.Name()))
		if err != nil {
			log.Debugf("skipping game folder %s: %v", entry.Name(), err)
			continue
		}
		games = append(games, game)
	}

	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

// GetGame loads a single game by folder name.
func (c *Catalog) GetGame(ctx context.Context, name string) (domain.Game, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return domain.Game{}, fmt.Errorf("%w: %q", domain.ErrGameNotFound, name)
	}
	if err := ctx.Err(); err != nil {
		return domain.Game{}, err
	}

	dir := filepath.Join(c.baseDir, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return domain.Game{}, fmt.Errorf("%w: %q", domain.ErrGameNotFound, name)
	}

	game, err := loadGame(dir)
	if err != nil {
		return domain.Game{}, fmt.Errorf("%w: %v", domain.ErrGameNotFound, err)
	}
	return game, nil
}

func loadGame(dir string) (domain.Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.Game{}, fmt.Errorf("failed to read game dir: %w", err)
	}

	game := domain.Game{Name: filepath.Base(dir)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !AllowedExtensions[strings.ToLower(ext)] {
			continue
		}
		card := domain.Card{
			Name: strings.TrimSuffix(entry.Name(), ext),
			Path: filepath.Join(dir, entry.Name()),
		}
		// A bare ".png" has no stem and is not a card.
		if card.Name == "" {
			continue
		}
		if strings.EqualFold(card.Name, domain.BackCardName) {
			card.Name = domain.BackCardName
			game.Back = card
			continue
		}
		game.Fronts = append(game.Fronts, card)
	}

	if game.Back.Path == "" {
		return domain.Game{}, fmt.Errorf("%s: %w", game.Name, domain.ErrMissingBack)
	}
	if len(game.Fronts) == 0 {
		return domain.Game{}, fmt.Errorf("%s: %w", game.Name, domain.ErrNoFronts)
	}
	return game, nil
}
