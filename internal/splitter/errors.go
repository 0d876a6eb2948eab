package splitter

import (
	"errors"
	"fmt"
)

// Sentinel errors for the splitting pipeline. Collaborator causes are
// wrapped alongside these, so both errors.Is against a sentinel and
// errors.As against the underlying failure keep working.
var (
	ErrParse             = errors.New("malformed pdf document")
	ErrInvalidFormat     = errors.New("unrecognized output format")
	ErrPageNotFound      = errors.New("page not found")
	ErrInvalidDimensions = errors.New("invalid page dimensions")
	ErrSerialization     = errors.New("page serialization failed")
	ErrRender            = errors.New("page render failed")
	ErrEncode            = errors.New("image encoding failed")
	ErrNoMorePages       = errors.New("no more pages")
)

// PageError ties an extraction failure to the 1-based page it occurred on.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

func pageErr(index int, err error) error {
	return &PageError{Page: index + 1, Err: err}
}
