package splitter

import (
	"fmt"
	"strings"
)

// Format selects the artifact produced for each page: a vector-faithful
// standalone PDF, or a rasterized PNG at a caller-chosen resolution.
type Format int

const (
	FormatPDF Format = iota
	FormatPNG
)

// DefaultDPI is the raster resolution used when the caller does not pick one.
const DefaultDPI = 300.0

// ParseFormat maps a user-supplied format name to a Format.
// Matching is case-insensitive; anything but "pdf" or "png" is rejected.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Tag returns the MIME type carried by results of this format. The two
// modes always produce distinct tags.
func (f Format) Tag() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "application/pdf"
}

// Ext returns the file extension for artifacts of this format.
func (f Format) Ext() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".pdf"
}
