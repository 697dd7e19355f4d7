package deck

import (
	"image"
	"math"

	"github.com/melih/cardpress/internal/core/domain"
)

// Positions returns the top-left corner of every slot on a page in
// row-major order. The grid is centred on the page.
func Positions(l domain.Layout) []image.Point {
	gridWidth := l.Columns*l.CardWidth + (l.Columns-1)*l.Spacing
	gridHeight := l.Rows*l.CardHeight + (l.Rows-1)*l.Spacing

	marginX := float64(l.PageWidth-gridWidth) / 2
	marginY := float64(l.PageHeight-gridHeight) / 2

	xs := make([]int, l.Columns)
	for col := range xs {
		xs[col] = int(math.RoundToEven(marginX + float64(col*(l.CardWidth+l.Spacing))))
	}

	points := make([]image.Point, 0, l.Slots())
	for row := 0; row < l.Rows; row++ {
		y := int(math.RoundToEven(marginY + float64(row*(l.CardHeight+l.Spacing))))
		for _, x := range xs {
			points = append(points, image.Pt(x, y))
		}
	}
	return points
}
