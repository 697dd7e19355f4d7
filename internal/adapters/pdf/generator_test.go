package pdf

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/cardpress/internal/core/domain"
)

var smallLayout = domain.Layout{
	PageWidth:    62,
	PageHeight:   88,
	CardWidth:    16,
	CardHeight:   24,
	CornerRadius: 3,
	Columns:      3,
	Rows:         3,
	DPI:          72,
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestGame(t *testing.T) domain.Game {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "sol.png"), color.NRGBA{R: 250, G: 200, A: 255})
	writePNG(t, filepath.Join(dir, "luna.png"), color.NRGBA{B: 200, A: 255})
	writePNG(t, filepath.Join(dir, "parte_atras.png"), color.NRGBA{A: 255})
	return domain.Game{
		Name: "Astros",
		Fronts: []domain.Card{
			{Name: "sol", Path: filepath.Join(dir, "sol.png")},
			{Name: "luna", Path: filepath.Join(dir, "luna.png")},
		},
		Back: domain.Card{Name: domain.BackCardName, Path: filepath.Join(dir, "parte_atras.png")},
	}
}

func newTestGenerator(t *testing.T, workers int) (*Generator, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "documentos")
	g, err := NewGenerator(out, smallLayout, workers)
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return g, out
}

func TestDocumentName(t *testing.T) {
	name := DocumentName("Uno Deluxe", time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "UNO DELUXE_01-12-2025.pdf", name)
}

func TestGenerator_Generate(t *testing.T) {
	g, out := newTestGenerator(t, 2)
	game := newTestGame(t)

	doc, err := g.Generate(context.Background(), game, domain.Counts{"sol": 7, "luna": 3})
	require.NoError(t, err)

	assert.Equal(t, "ASTROS_05-03-2026.pdf", doc.Name)
	assert.Equal(t, filepath.Join(out, doc.Name), doc.Path)
	assert.Equal(t, 4, doc.Pages)
	assert.Equal(t, 10, doc.Cards)
	assert.Equal(t, "Astros", doc.Game)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, int64(len(data)), doc.Size)
}

func TestGenerator_RegenerateSameDayOverwrites(t *testing.T) {
	g, out := newTestGenerator(t, 1)
	game := newTestGame(t)

	_, err := g.Generate(context.Background(), game, domain.Counts{"sol": 1})
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), game, domain.Counts{"luna": 10})
	require.NoError(t, err)
	assert.Equal(t, 4, second.Pages)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.Name, entries[0].Name())
}

func TestGenerator_NothingSelected(t *testing.T) {
	g, out := newTestGenerator(t, 1)

	_, err := g.Generate(context.Background(), newTestGame(t), domain.Counts{"sol": 0, "luna": -2})
	assert.ErrorIs(t, err, domain.ErrNothingSelected)
	assert.NoDirExists(t, out)
}

func TestGenerator_WaitsForWorker(t *testing.T) {
	g, _ := newTestGenerator(t, 1)
	require.NoError(t, g.sem.Acquire(context.Background(), 1))
	defer g.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := g.Generate(ctx, newTestGame(t), domain.Counts{"sol": 1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerator_Open(t *testing.T) {
	g, out := newTestGenerator(t, 1)
	doc, err := g.Generate(context.Background(), newTestGame(t), domain.Counts{"sol": 1})
	require.NoError(t, err)

	path, err := g.Open(doc.Name)
	require.NoError(t, err)
	assert.Equal(t, doc.Path, path)

	require.NoError(t, os.WriteFile(filepath.Join(out, "notes.txt"), []byte("x"), 0o644))
	for _, name := range []string{"", "missing.pdf", "../" + doc.Name, "notes.txt", ".hidden.pdf"} {
		_, err := g.Open(name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, name)
	}
}

func TestNewGenerator_InvalidLayout(t *testing.T) {
	_, err := NewGenerator(t.TempDir(), domain.Layout{}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidLayout)
}
