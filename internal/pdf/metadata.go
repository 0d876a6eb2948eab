package pdf

import (
	"bytes"
	"fmt"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/rotostampa/pdf-handler/internal/splitter"
)

// Metadata is the document-level information a caller can inspect before
// deciding how to split.
type Metadata struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Pages    int    `json:"pages"`
	FileSize int64  `json:"fileSize"`
}

// ExtractMetadata reads the trailer Info dictionary without building a full
// Document. Title and Author stay empty when the dictionary does not carry
// them.
func ExtractMetadata(data []byte) (Metadata, error) {
	reader := bytes.NewReader(data)
	r, err := ledongthuc.NewReader(reader, reader.Size())
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", splitter.ErrParse, err)
	}

	md := Metadata{
		Pages:    r.NumPage(),
		FileSize: int64(len(data)),
	}

	trailer := r.Trailer()
	if trailer.IsNull() {
		return md, nil
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return md, nil
	}
	if title := info.Key("Title"); !title.IsNull() {
		md.Title = title.Text()
	}
	if author := info.Key("Author"); !author.IsNull() {
		md.Author = author.Text()
	}
	return md, nil
}
