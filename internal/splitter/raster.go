package splitter

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// extractRaster renders a single page at the planned dimensions and encodes
// it as PNG. The decoded output is guaranteed to measure exactly the plan's
// rounded Width x Height.
func extractRaster(doc Document, index int, dpi float64) ([]byte, error) {
	width, height, err := doc.PageSize(index)
	if err != nil {
		return nil, err
	}

	plan, err := PlanRaster(width, height, dpi)
	if err != nil {
		return nil, err
	}

	img, err := doc.RenderPage(index, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if b := img.Bounds(); b.Dx() != plan.Width || b.Dy() != plan.Height {
		return nil, fmt.Errorf("%w: renderer produced %dx%d px, plan requires %dx%d px",
			ErrEncode, b.Dx(), b.Dy(), plan.Width, plan.Height)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
