package splitter

import "fmt"

// extractVector re-encodes a single page as a standalone document sized to
// the original page. Content transfer is the document's serializer concern;
// geometry is validated here so a degenerate page never yields an artifact.
func extractVector(doc Document, index int) ([]byte, error) {
	width, height, err := doc.PageSize(index)
	if err != nil {
		return nil, err
	}
	if !finitePositive(width) || !finitePositive(height) {
		return nil, fmt.Errorf("%w: %gx%g pt", ErrInvalidDimensions, width, height)
	}

	data, err := doc.ExtractPage(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}
