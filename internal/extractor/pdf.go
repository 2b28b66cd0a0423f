package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/tracknest/ingest/internal/models"
)

var (
	// ErrUnreadable means the document could not be opened as a PDF at all.
	ErrUnreadable = errors.New("unreadable PDF document")
	// ErrPassword means the document is encrypted and the password was missing or wrong.
	ErrPassword = errors.New("PDF password missing or incorrect")
)

// PDF extracts statement tables from PDF documents.
type PDF struct {
	// MaxPages caps how many leading pages are read. Zero means
	// models.MaxStatementPages.
	MaxPages int
	Log      zerolog.Logger
}

// NewPDF returns an extractor capped at models.MaxStatementPages.
func NewPDF(log zerolog.Logger) *PDF {
	return &PDF{MaxPages: models.MaxStatementPages, Log: log}
}

// ExtractFile opens the PDF at filePath and extracts its tables.
func (e *PDF) ExtractFile(ctx context.Context, filePath, password string) ([]models.Table, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, f, fi.Size(), password)
}

// Extract returns one entry per page read: the page's table, or nil for a
// page without a detectable table. Only failing to open the document, or
// cancellation, is an error.
func (e *PDF) Extract(ctx context.Context, r io.ReaderAt, size int64, password string) ([]models.Table, error) {
	reader, err := open(r, size, password)
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	limit := e.MaxPages
	if limit <= 0 {
		limit = models.MaxStatementPages
	}
	if numPages > limit {
		e.Log.Info().
			Int("pages", numPages).
			Int("limit", limit).
			Msg("Statement truncated to page limit")
		numPages = limit
	}

	builder := &tableBuilder{}
	pages := make([]models.Table, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		glyphs, err := pageGlyphs(reader, i)
		if err != nil {
			e.Log.Warn().Err(err).Int("page", i).Msg("Skipping unreadable page")
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, builder.build(glyphs))
	}
	return pages, nil
}

// open wraps pdf.NewReaderEncrypted, which panics on some malformed inputs.
// The password is offered once; an empty password only tries the empty one.
func open(r io.ReaderAt, size int64, password string) (reader *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reader, err = nil, fmt.Errorf("%w: PDF library crashed: %v", ErrUnreadable, rec)
		}
	}()

	offered := false
	reader, err = pdf.NewReaderEncrypted(r, size, func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
	switch {
	case errors.Is(err, pdf.ErrInvalidPassword):
		return nil, ErrPassword
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if reader.NumPage() == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrUnreadable)
	}
	return reader, nil
}

// pageGlyphs reads the positioned text of page num.
func pageGlyphs(r *pdf.Reader, num int) (glyphs []glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			glyphs, err = nil, fmt.Errorf("PDF library crashed: %v", rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return nil, nil
	}
	for _, t := range page.Content().Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	return glyphs, nil
}
