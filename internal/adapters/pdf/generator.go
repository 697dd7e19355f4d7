package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/melih/cardpress/internal/core/deck"
	"github.com/melih/cardpress/internal/core/domain"
)

const (
	documentExt = ".pdf"
	dateLayout  = "02-01-2006"
)

// Generator implements ports.DocumentService by writing PDFs into an output directory.
type Generator struct {
	outputDir string
	renderer  *deck.Renderer
	sem       *semaphore.Weighted
	quality   int
	now       func() time.Time
}

// NewGenerator creates a generator. At most workers documents are rendered at once.
func NewGenerator(outputDir string, layout domain.Layout, workers int) (*Generator, error) {
	renderer, err := deck.NewRenderer(layout)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &Generator{
		outputDir: outputDir,
		renderer:  renderer,
		sem:       semaphore.NewWeighted(int64(workers)),
		quality:   92,
		now:       time.Now,
	}, nil
}

// DocumentName returns the file name for a game rendered on day t.
func DocumentName(game string, t time.Time) string {
	return strings.ToUpper(game) + "_" + t.Format(dateLayout) + documentExt
}

// Generate renders the requested cards and writes the PDF atomically.
// A document for the same game and day is replaced.
func (g *Generator) Generate(ctx context.Context, game domain.Game, counts domain.Counts) (domain.Document, error) {
	if _, total := counts.Plan(game); total <= 0 {
		return domain.Document{}, domain.ErrNothingSelected
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return domain.Document{}, err
	}
	defer g.sem.Release(1)

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return domain.Document{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	created := g.now()
	name := DocumentName(game.Name, created)
	width, height := g.renderer.Layout().PagePoints()

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(strings.TrimSuffix(name, documentExt), true)
	doc.SetCreator("cardpress", true)
	doc.SetCreationDate(created)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	var buf bytes.Buffer
	pageNo := 0
	stats, err := g.renderer.Render(ctx, game, counts, func(page *image.RGBA) error {
		buf.Reset()
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: g.quality}); err != nil {
			return fmt.Errorf("failed to encode page: %w", err)
		}
		pageNo++
		imageName := fmt.Sprintf("page-%04d", pageNo)
		doc.AddPage()
		doc.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(buf.Bytes()))
		doc.ImageOptions(imageName, 0, 0, width, height, false, opts, 0, "")
		return doc.Error()
	})
	if err != nil {
		return domain.Document{}, err
	}
	if stats.Pages == 0 {
		return domain.Document{}, errors.New("failed to generate the requested document: no pages")
	}

	path := filepath.Join(g.outputDir, name)
	tmp := filepath.Join(g.outputDir, "."+uuid.NewString()+".tmp")
	if err := doc.OutputFileAndClose(tmp); err != nil {
		os.Remove(tmp)
		return domain.Document{}, fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return domain.Document{}, fmt.Errorf("failed to move document into place: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to stat document: %w", err)
	}

	log.WithFields(log.Fields{
		"game":  game.Name,
		"pages": stats.Pages,
		"cards": stats.Fronts,
	}).Infof("generated %s (%s)", name, datasize.ByteSize(info.Size()).HumanReadable())

	return domain.Document{
		Name:      name,
		Path:      path,
		Game:      game.Name,
		Pages:     stats.Pages,
		Cards:     stats.Fronts,
		Size:      info.Size(),
		CreatedAt: created,
	}, nil
}

// Open resolves a document name to its path. Only plain *.pdf names
// inside the output directory are served.
func (g *Generator) Open(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") ||
		!strings.EqualFold(filepath.Ext(name), documentExt) {
		return "", fmt.Errorf("%w: %q", domain.ErrDocumentNotFound, name)
	}
	path := filepath.Join(g.outputDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", domain.ErrDocumentNotFound, name)
	}
	return path, nil
}
