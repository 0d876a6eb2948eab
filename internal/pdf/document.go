// Package pdf backs the splitter's document contract with real PDF
// machinery: pdfcpu for parsing, page geometry and vector page extraction,
// MuPDF (go-fitz) for rasterization.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rotostampa/pdf-handler/internal/splitter"
)

type pageSize struct {
	width  float64
	height float64
}

// Document is the shared, immutable in-memory form of a parsed PDF. It
// implements splitter.Document with reference counting: Load hands the
// caller one reference, additional holders Retain, and the last Release
// closes the underlying MuPDF handle.
type Document struct {
	ctx   *model.Context
	fz    *fitz.Document
	sizes []pageSize
	refs  atomic.Int64

	// pdfcpu contexts cache lazily decoded objects during extraction,
	// so serializer calls take a lock. Rendering is serialized by
	// go-fitz itself.
	mu sync.Mutex
}

// Load parses data into a Document. Any parse, validation or renderer-open
// failure surfaces as a single opaque splitter.ErrParse; a document without
// pages is treated the same way.
func Load(data []byte) (*Document, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", splitter.ErrParse)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}

	fz, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}

	sizes := make([]pageSize, len(dims))
	for i, d := range dims {
		sizes[i] = pageSize{width: d.Width, height: d.Height}
	}

	doc := &Document{ctx: ctx, fz: fz, sizes: sizes}
	doc.refs.Store(1)
	return doc, nil
}

// PageCount implements splitter.Document.
func (d *Document) PageCount() int { return len(d.sizes) }

// PageSize implements splitter.Document. Sizes come from the page media
// boxes, in points.
func (d *Document) PageSize(index int) (float64, float64, error) {
	if index < 0 || index >= len(d.sizes) {
		return 0, 0, fmt.Errorf("%w: index %d of %d pages", splitter.ErrPageNotFound, index, len(d.sizes))
	}
	s := d.sizes[index]
	return s.width, s.height, nil
}

// ExtractPage builds a standalone single-page PDF preserving the page's
// vector content, with its resources re-linked into the new document.
func (d *Document) ExtractPage(index int) ([]byte, error) {
	if index < 0 || index >= len(d.sizes) {
		return nil, fmt.Errorf("%w: index %d of %d pages", splitter.ErrPageNotFound, index, len(d.sizes))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	single, err := pdfcpu.ExtractPages(d.ctx, []int{index + 1}, false)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := api.WriteContext(single, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPage rasterizes the page to exactly plan.Width x plan.Height pixels.
// MuPDF applies its own rounding to the scaled page bounds, so the rendered
// image is resampled whenever it disagrees with the plan.
func (d *Document) RenderPage(index int, plan splitter.RasterPlan) (image.Image, error) {
	if index < 0 || index >= len(d.sizes) {
		return nil, fmt.Errorf("%w: index %d of %d pages", splitter.ErrPageNotFound, index, len(d.sizes))
	}

	img, err := d.fz.ImageDPI(index, plan.DPI)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != plan.Width || b.Dy() != plan.Height {
		return imaging.Resize(img, plan.Width, plan.Height, imaging.Lanczos), nil
	}
	return img, nil
}

// Retain implements splitter.Document.
func (d *Document) Retain() { d.refs.Add(1) }

// Release implements splitter.Document. The last release closes the MuPDF
// handle; further releases are an error.
func (d *Document) Release() error {
	switch n := d.refs.Add(-1); {
	case n > 0:
		return nil
	case n < 0:
		return fmt.Errorf("pdf: document released more often than retained")
	default:
		return d.fz.Close()
	}
}
