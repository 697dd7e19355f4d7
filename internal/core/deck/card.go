package deck

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
	_ "golang.org/x/image/webp"
)

// kappa places cubic control points so that a quarter arc is approximated.
const kappa = 0.5522847

// RoundedMask rasterizes an opaque rounded rectangle of w x h. Corner
// edges are anti-aliased.
func RoundedMask(w, h, radius int) *image.Alpha {
	r := float32(min(radius, w/2, h/2))
	fw, fh := float32(w), float32(h)
	k := r * (1 - kappa)

	z := vector.NewRasterizer(w, h)
	z.MoveTo(r, 0)
	z.LineTo(fw-r, 0)
	z.CubeTo(fw-k, 0, fw, k, fw, r)
	z.LineTo(fw, fh-r)
	z.CubeTo(fw, fh-k, fw-k, fh, fw-r, fh)
	z.LineTo(r, fh)
	z.CubeTo(k, fh, 0, fh-k, 0, fh-r)
	z.LineTo(0, r)
	z.CubeTo(0, k, k, 0, r, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// LoadCard decodes an image file, crops it to fill the mask size and
// replaces its alpha channel with the mask.
func LoadCard(path string, mask *image.Alpha) (*image.NRGBA, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card %s: %w", path, err)
	}
	size := mask.Bounds().Size()
	card := imaging.Fill(src, size.X, size.Y, imaging.Center, imaging.Lanczos)
	applyMask(card, mask)
	return card, nil
}

func applyMask(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)+3] = mask.AlphaAt(x, y).A
		}
	}
}
