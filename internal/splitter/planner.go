package splitter

import (
	"fmt"
	"math"
)

// RasterPlan is the pixel-space target for rendering one page. Width and
// Height are the rounded output dimensions; XScale and YScale are recomputed
// from the rounded values so that the renderer's output matches them exactly
// rather than the unrounded dpi/72 factor.
type RasterPlan struct {
	Width  int
	Height int
	XScale float64
	YScale float64
	DPI    float64
}

// PlanRaster converts a page's point-space size into output pixel dimensions
// at the given resolution. Pure; fails with ErrInvalidDimensions when the
// inputs are non-finite or non-positive, or when rounding collapses either
// dimension to zero.
func PlanRaster(widthPt, heightPt, dpi float64) (RasterPlan, error) {
	if !finitePositive(widthPt) || !finitePositive(heightPt) {
		return RasterPlan{}, fmt.Errorf("%w: %gx%g pt", ErrInvalidDimensions, widthPt, heightPt)
	}
	if !finitePositive(dpi) {
		return RasterPlan{}, fmt.Errorf("%w: %g dpi", ErrInvalidDimensions, dpi)
	}

	pixelPerPt := dpi / 72.0
	width := int(math.Round(widthPt * pixelPerPt))
	height := int(math.Round(heightPt * pixelPerPt))
	if width == 0 || height == 0 {
		return RasterPlan{}, fmt.Errorf("%w: %gx%g pt at %g dpi yields %dx%d px",
			ErrInvalidDimensions, widthPt, heightPt, dpi, width, height)
	}

	return RasterPlan{
		Width:  width,
		Height: height,
		XScale: float64(width) / widthPt,
		YScale: float64(height) / heightPt,
		DPI:    dpi,
	}, nil
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
