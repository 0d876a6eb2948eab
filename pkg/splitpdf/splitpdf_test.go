package splitpdf_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotostampa/pdf-handler/pkg/splitpdf"
)

func letterPDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 612, Ht: 792},
	})
	doc.SetFont("Helvetica", "", 24)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(72, 72, fmt.Sprintf("Page %d", i))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestSplitVector(t *testing.T) {
	results, err := splitpdf.Split(letterPDF(t, 3), splitpdf.FormatPDF)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, i+1, res.PageNumber)
		assert.Equal(t, "application/pdf", res.FormatTag)

		// Each artifact parses back as a one-page document.
		md, err := splitpdf.ExtractMetadata(res.Data)
		require.NoError(t, err)
		assert.Equal(t, 1, md.Pages)
	}
}

func TestSplitRasterDimensions(t *testing.T) {
	results, err := splitpdf.Split(letterPDF(t, 1), splitpdf.FormatPNG, splitpdf.WithDPI(300))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "image/png", results[0].FormatTag)

	cfg, err := png.DecodeConfig(bytes.NewReader(results[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 2550, cfg.Width)
	assert.Equal(t, 3300, cfg.Height)
}

func TestSplitRasterDefaultDPI(t *testing.T) {
	explicit, err := splitpdf.Split(letterPDF(t, 1), splitpdf.FormatPNG, splitpdf.WithDPI(splitpdf.DefaultDPI))
	require.NoError(t, err)
	implicit, err := splitpdf.Split(letterPDF(t, 1), splitpdf.FormatPNG)
	require.NoError(t, err)

	ec, err := png.DecodeConfig(bytes.NewReader(explicit[0].Data))
	require.NoError(t, err)
	ic, err := png.DecodeConfig(bytes.NewReader(implicit[0].Data))
	require.NoError(t, err)
	assert.Equal(t, ec, ic)
}

func TestSplitRejectsZeroDPI(t *testing.T) {
	_, err := splitpdf.Split(letterPDF(t, 1), splitpdf.FormatPNG, splitpdf.WithDPI(0))
	assert.ErrorIs(t, err, splitpdf.ErrInvalidDimensions)
}

func TestSplitGarbage(t *testing.T) {
	_, err := splitpdf.Split([]byte("not a pdf"), splitpdf.FormatPDF)
	assert.ErrorIs(t, err, splitpdf.ErrParse)
}

func TestSplitParallelKeepsOrder(t *testing.T) {
	results, err := splitpdf.SplitParallel(context.Background(), letterPDF(t, 8), splitpdf.FormatPDF, splitpdf.WithWorkers(4))
	require.NoError(t, err)
	require.Len(t, results, 8)
	for i, res := range results {
		assert.Equal(t, i+1, res.PageNumber)
	}
}

func TestStreamDrainsDocument(t *testing.T) {
	stream, err := splitpdf.NewStream(letterPDF(t, 3), splitpdf.FormatPDF)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, 3, stream.TotalPages())

	var pages []int
	for stream.HasNext() {
		res, err := stream.Next()
		require.NoError(t, err)
		pages = append(pages, res.PageNumber)
	}
	assert.Equal(t, []int{1, 2, 3}, pages)

	_, err = stream.Next()
	assert.True(t, errors.Is(err, splitpdf.ErrNoMorePages))
	require.NoError(t, stream.Close())
}

func TestStreamRaster(t *testing.T) {
	stream, err := splitpdf.NewStream(letterPDF(t, 2), splitpdf.FormatPNG, splitpdf.WithDPI(72))
	require.NoError(t, err)
	defer stream.Close()

	res, err := stream.Next()
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 612, cfg.Width)
	assert.Equal(t, 792, cfg.Height)
}

func TestParseFormat(t *testing.T) {
	f, err := splitpdf.ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, splitpdf.FormatPNG, f)

	_, err = splitpdf.ParseFormat("tiff")
	assert.ErrorIs(t, err, splitpdf.ErrInvalidFormat)
}
