// Package splitpdf turns a multi-page PDF into per-page artifacts: either
// vector-faithful standalone single-page PDFs or PNG images at a chosen
// resolution. It is the public face of the internal splitting core.
package splitpdf

import (
	"context"

	"github.com/rotostampa/pdf-handler/internal/pdf"
	"github.com/rotostampa/pdf-handler/internal/splitter"
)

// Re-export the core types so callers never import internal packages.
type (
	PageResult = splitter.PageResult
	Format     = splitter.Format
	RasterPlan = splitter.RasterPlan
	PageError  = splitter.PageError
	Stream     = splitter.Stream
	Metadata   = pdf.Metadata
)

const (
	FormatPDF  = splitter.FormatPDF
	FormatPNG  = splitter.FormatPNG
	DefaultDPI = splitter.DefaultDPI
)

var (
	ErrParse             = splitter.ErrParse
	ErrInvalidFormat     = splitter.ErrInvalidFormat
	ErrPageNotFound      = splitter.ErrPageNotFound
	ErrInvalidDimensions = splitter.ErrInvalidDimensions
	ErrSerialization     = splitter.ErrSerialization
	ErrRender            = splitter.ErrRender
	ErrEncode            = splitter.ErrEncode
	ErrNoMorePages       = splitter.ErrNoMorePages
)

// ParseFormat maps "pdf" or "png" (case-insensitive) to a Format.
func ParseFormat(s string) (Format, error) { return splitter.ParseFormat(s) }

type config struct {
	dpi     float64
	workers int
}

// Option tunes a split call.
type Option func(*config)

// WithDPI sets the raster resolution. Ignored for FormatPDF. The value is
// passed through as given; invalid resolutions fail with
// ErrInvalidDimensions before any render attempt.
func WithDPI(dpi float64) Option {
	return func(c *config) { c.dpi = dpi }
}

// WithWorkers bounds the fan-out of SplitParallel.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

func newConfig(opts []Option) config {
	cfg := config{dpi: DefaultDPI, workers: 4}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Split parses data and eagerly extracts every page in order. The first
// page failure aborts the call with no partial results; use NewStream for
// per-page error isolation.
func Split(data []byte, format Format, opts ...Option) ([]PageResult, error) {
	cfg := newConfig(opts)
	doc, err := pdf.Load(data)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return splitter.Split(doc, format, cfg.dpi)
}

// SplitParallel is Split with page extraction fanned out across a bounded
// worker pool. The parsed document is immutable, so pages extract
// independently; results keep page order.
func SplitParallel(ctx context.Context, data []byte, format Format, opts ...Option) ([]PageResult, error) {
	cfg := newConfig(opts)
	doc, err := pdf.Load(data)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return splitter.SplitParallel(ctx, doc, format, cfg.dpi, cfg.workers)
}

// NewStream parses data and returns a cursor extracting one page per Next
// call. The stream owns a document reference; callers must Close it.
func NewStream(data []byte, format Format, opts ...Option) (*Stream, error) {
	cfg := newConfig(opts)
	doc, err := pdf.Load(data)
	if err != nil {
		return nil, err
	}
	s := splitter.NewStream(doc, format, cfg.dpi)
	// The stream retained its own reference; drop the loader's.
	if err := doc.Release(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// ExtractMetadata reads document-level metadata (title, author, page count)
// without splitting anything.
func ExtractMetadata(data []byte) (Metadata, error) {
	return pdf.ExtractMetadata(data)
}
