// Package printer spools rendered label images to a Brother QL label
// printer via the brother_ql command line tools.
package printer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
)

// BrotherQL prints images through brother_ql_create and brother_ql_print.
// Failures are never retried: a half-printed batch is surfaced immediately.
type BrotherQL struct {
	model      string
	labelSize  string
	identifier string
}

// NewBrotherQL creates a printer for the given model, label-size code, and
// printer identifier (e.g. "usb://0x04f9:0x209b").
func NewBrotherQL(model, labelSize, identifier string) *BrotherQL {
	return &BrotherQL{
		model:      model,
		labelSize:  labelSize,
		identifier: identifier,
	}
}

// Print converts the image to the printer's raster format and spools it.
func (p *BrotherQL) Print(ctx context.Context, img image.Image) error {
	dir, err := os.MkdirTemp("", "qslpress-print-")
	if err != nil {
		return fmt.Errorf("failed to create spool dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pngPath := filepath.Join(dir, "label.png")
	binPath := filepath.Join(dir, "label.bin")

	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("failed to create label image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode label image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write label image: %w", err)
	}

	// brother_ql_create writes the raster payload to stdout.
	bin, err := os.Create(binPath)
	if err != nil {
		return fmt.Errorf("failed to create raster file: %w", err)
	}
	create := exec.CommandContext(ctx, "brother_ql_create",
		"--model", p.model,
		"--label-size", p.labelSize,
		pngPath,
	)
	create.Stdout = bin
	create.Stderr = os.Stderr
	if err := create.Run(); err != nil {
		bin.Close()
		return fmt.Errorf("brother_ql_create failed: %w", err)
	}
	if err := bin.Close(); err != nil {
		return fmt.Errorf("failed to write raster file: %w", err)
	}

	print := exec.CommandContext(ctx, "brother_ql_print", binPath, p.identifier)
	print.Stderr = os.Stderr
	if err := print.Run(); err != nil {
		return fmt.Errorf("brother_ql_print failed: %w", err)
	}

	return nil
}
