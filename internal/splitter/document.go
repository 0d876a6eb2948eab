package splitter

import "image"

// Document is a parsed, immutable multi-page document shared between
// independent per-page extractions. Implementations are reference counted:
// each holder calls Retain before keeping a reference and Release when done;
// the last Release frees any native resources. Nothing mutates a Document
// after construction, so per-page operations on distinct indices are safe to
// run from multiple goroutines.
type Document interface {
	// PageCount reports the number of pages, fixed at parse time.
	PageCount() int

	// PageSize returns the page's size in points (72 per inch).
	PageSize(index int) (widthPt, heightPt float64, err error)

	// ExtractPage serializes the page at index into a standalone
	// single-page document preserving its vector content.
	ExtractPage(index int) ([]byte, error)

	// RenderPage rasterizes the page at index into an image whose bounds
	// match the plan's exact pixel dimensions.
	RenderPage(index int, plan RasterPlan) (image.Image, error)

	Retain()
	Release() error
}
