package domain

import "fmt"

// Layout is the sheet geometry in pixels. Pages are rendered at DPI and
// laid out as a centred Columns x Rows grid.
type Layout struct {
	PageWidth    int
	PageHeight   int
	CardWidth    int
	CardHeight   int
	Spacing      int
	CornerRadius int
	Columns      int
	Rows         int
	DPI          int
}

// DefaultLayout is an A4 sheet holding nine poker-sized cards.
var DefaultLayout = Layout{
	PageWidth:    3111,
	PageHeight:   4404,
	CardWidth:    796,
	CardHeight:   1244,
	Spacing:      0,
	CornerRadius: 36,
	Columns:      3,
	Rows:         3,
	DPI:          300,
}

// Slots is the number of cards on one page.
func (l Layout) Slots() int {
	return l.Columns * l.Rows
}

// PagePoints returns the page size in PDF points.
func (l Layout) PagePoints() (float64, float64) {
	return float64(l.PageWidth) * 72 / float64(l.DPI), float64(l.PageHeight) * 72 / float64(l.DPI)
}

func (l Layout) Validate() error {
	switch {
	case l.PageWidth <= 0 || l.PageHeight <= 0:
		return fmt.Errorf("%w: page size %dx%d", ErrInvalidLayout, l.PageWidth, l.PageHeight)
	case l.CardWidth <= 0 || l.CardHeight <= 0:
		return fmt.Errorf("%w: card size %dx%d", ErrInvalidLayout, l.CardWidth, l.CardHeight)
	case l.Columns <= 0 || l.Rows <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidLayout, l.Columns, l.Rows)
	case l.Spacing < 0 || l.CornerRadius < 0:
		return fmt.Errorf("%w: negative spacing or radius", ErrInvalidLayout)
	case l.DPI <= 0:
		return fmt.Errorf("%w: dpi %d", ErrInvalidLayout, l.DPI)
	}
	return nil
}
