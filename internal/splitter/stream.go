package splitter

// Stream extracts one page per call, for memory-constrained or incremental
// consumers. It is a plain cursor, not a generator: the position advances
// only after a successful extraction, so a failed Next leaves the cursor on
// the same page and the identical call can be retried or skipped by the
// caller. A Stream is not safe for concurrent use; serialize access
// externally if needed.
type Stream struct {
	doc     Document
	format  Format
	dpi     float64
	current int
	total   int
	closed  bool
}

// NewStream wraps doc in a cursor fixed to the given format. The stream
// holds its own document reference until Close.
func NewStream(doc Document, format Format, dpi float64) *Stream {
	doc.Retain()
	return &Stream{
		doc:    doc,
		format: format,
		dpi:    dpi,
		total:  doc.PageCount(),
	}
}

// TotalPages reports the page count, fixed at construction.
func (s *Stream) TotalPages() int { return s.total }

// CurrentPage reports the 0-based cursor position. It never decreases and
// never exceeds TotalPages.
func (s *Stream) CurrentPage() int { return s.current }

// HasNext reports whether Next can still produce a page.
func (s *Stream) HasNext() bool { return s.current < s.total }

// Next extracts the page at the cursor and advances. At the terminal
// position it fails with ErrNoMorePages; on extraction failure the cursor
// is left unchanged.
func (s *Stream) Next() (PageResult, error) {
	if !s.HasNext() {
		return PageResult{}, ErrNoMorePages
	}
	res, err := extractPage(s.doc, s.current, s.format, s.dpi)
	if err != nil {
		return PageResult{}, err
	}
	s.current++
	return res, nil
}

// Close releases the stream's document reference. Safe to call twice.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.doc.Release()
}
