package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotostampa/pdf-handler/pkg/splitpdf"
)

func main() {
	output := flag.String("output", "output", "directory for the extracted pages")
	format := flag.String("format", "pdf", "output format: pdf or png")
	dpi := flag.Float64("dpi", splitpdf.DefaultDPI, "resolution for png output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] INPUT\n\nSplits a PDF into single pages.\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *output, *format, *dpi); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(input, outDir, formatName string, dpi float64) error {
	format, err := splitpdf.ParseFormat(formatName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	stream, err := splitpdf.NewStream(data, format, splitpdf.WithDPI(dpi))
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	total := stream.TotalPages()
	fmt.Printf("PDF has %d page(s)\n", total)

	for {
		page, err := stream.Next()
		if errors.Is(err, splitpdf.ErrNoMorePages) {
			break
		}
		if err != nil {
			return err
		}
		name := filepath.Join(outDir, fmt.Sprintf("%04d%s", page.PageNumber, format.Ext()))
		if err := os.WriteFile(name, page.Data, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote page %d/%d -> %s\n", page.PageNumber, total, name)
	}
	return nil
}
