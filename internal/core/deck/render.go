package deck

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/sync/errgroup"

	"github.com/melih/cardpress/internal/core/domain"
)

// PageFunc receives every finished page. The page buffer is reused after
// the call returns, so implementations must not retain it.
type PageFunc func(page *image.RGBA) error

// Stats summarises a render.
type Stats struct {
	Pages  int
	Fronts int
	Backs  int
}

// Renderer lays card images out on print sheets.
type Renderer struct {
	layout    domain.Layout
	mask      *image.Alpha
	positions []image.Point
	loaders   int
}

// NewRenderer prepares the card mask and slot positions for the layout.
func NewRenderer(layout domain.Layout) (*Renderer, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		layout:    layout,
		mask:      RoundedMask(layout.CardWidth, layout.CardHeight, layout.CornerRadius),
		positions: Positions(layout),
		loaders:   4,
	}, nil
}

func (r *Renderer) Layout() domain.Layout {
	return r.layout
}

// Render emits the front pages in game order followed by one back per
// printed front. Fronts and backs never share a page.
func (r *Renderer) Render(ctx context.Context, game domain.Game, counts domain.Counts, emit PageFunc) (Stats, error) {
	plan, total := counts.Plan(game)
	if total <= 0 {
		return Stats{}, domain.ErrNothingSelected
	}

	fronts, back, err := r.loadImages(ctx, plan, game.Back)
	if err != nil {
		return Stats{}, err
	}

	page := image.NewRGBA(image.Rect(0, 0, r.layout.PageWidth, r.layout.PageHeight))
	stats := Stats{Fronts: total, Backs: total}

	frontSeq := make([]*image.NRGBA, 0, total)
	for i, entry := range plan {
		for n := 0; n < entry.Copies; n++ {
			frontSeq = append(frontSeq, fronts[i])
		}
	}
	pages, err := r.paginate(ctx, page, frontSeq, emit)
	stats.Pages += pages
	if err != nil {
		return stats, err
	}

	backSeq := make([]*image.NRGBA, total)
	for i := range backSeq {
		backSeq[i] = back
	}
	pages, err = r.paginate(ctx, page, backSeq, emit)
	stats.Pages += pages
	return stats, err
}

// loadImages decodes each distinct card once.
func (r *Renderer) loadImages(ctx context.Context, plan []domain.CardCopies, backCard domain.Card) ([]*image.NRGBA, *image.NRGBA, error) {
	fronts := make([]*image.NRGBA, len(plan))
	var back *image.NRGBA

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.loaders)
	for i, entry := range plan {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := LoadCard(entry.Card.Path, r.mask)
			if err != nil {
				return err
			}
			fronts[i] = img
			return nil
		})
	}
	g.Go(func() error {
		img, err := LoadCard(backCard.Path, r.mask)
		if err != nil {
			return fmt.Errorf("failed to load back: %w", err)
		}
		back = img
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fronts, back, nil
}

func (r *Renderer) paginate(ctx context.Context, page *image.RGBA, cards []*image.NRGBA, emit PageFunc) (int, error) {
	var (
		pages int
		slot  int
	)
	slots := len(r.positions)
	size := image.Pt(r.layout.CardWidth, r.layout.CardHeight)

	for _, card := range cards {
		if slot == 0 {
			if err := ctx.Err(); err != nil {
				return pages, err
			}
			draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		}
		pos := r.positions[slot]
		draw.Draw(page, image.Rectangle{Min: pos, Max: pos.Add(size)}, card, image.Point{}, draw.Over)
		slot++

		if slot == slots {
			if err := emit(page); err != nil {
				return pages, err
			}
			pages++
			slot = 0
		}
	}
	if slot > 0 {
		if err := emit(page); err != nil {
			return pages, err
		}
		pages++
	}
	return pages, nil
}
