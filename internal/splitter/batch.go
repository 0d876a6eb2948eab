package splitter

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PageResult is one extracted page. Data ownership passes to the caller;
// Data encodes as base64 when marshaled to JSON.
type PageResult struct {
	PageNumber int    `json:"pageNumber"`
	Data       []byte `json:"data"`
	FormatTag  string `json:"formatTag"`
}

// extractPage dispatches one page to the vector or raster pipeline.
// The two modes are a closed set; there is no third.
func extractPage(doc Document, index int, format Format, dpi float64) (PageResult, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPDF:
		data, err = extractVector(doc, index)
	case FormatPNG:
		data, err = extractRaster(doc, index, dpi)
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidFormat, int(format))
	}
	if err != nil {
		return PageResult{}, pageErr(index, err)
	}
	return PageResult{
		PageNumber: index + 1,
		Data:       data,
		FormatTag:  format.Tag(),
	}, nil
}

// Split eagerly extracts every page of doc in order. The first failure
// aborts the whole call and discards everything extracted so far; callers
// that need per-page recovery should use Stream instead. dpi is ignored for
// FormatPDF.
func Split(doc Document, format Format, dpi float64) ([]PageResult, error) {
	doc.Retain()
	defer doc.Release()

	total := doc.PageCount()
	results := make([]PageResult, 0, total)
	for i := 0; i < total; i++ {
		res, err := extractPage(doc, i, format, dpi)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// SplitParallel is Split fanned out over at most workers goroutines. The
// document is immutable after parsing, so extractions on distinct page
// indices never contend; results land in page order regardless of
// completion order. The fail-fast contract matches Split: the first error
// cancels remaining work and no partial results are returned.
func SplitParallel(ctx context.Context, doc Document, format Format, dpi float64, workers int) ([]PageResult, error) {
	if workers < 1 {
		workers = 1
	}
	doc.Retain()
	defer doc.Release()

	total := doc.PageCount()
	results := make([]PageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := extractPage(doc, i, format, dpi)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
