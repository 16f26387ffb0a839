package service

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/label"
	"github.com/jwalters/qslpress/internal/model"
)

// Renderer rasterizes a composed label layout.
type Renderer interface {
	Render(l label.Layout) (image.Image, error)
}

// Printer spools a rendered label image to the physical printer.
type Printer interface {
	Print(ctx context.Context, img image.Image) error
}

// Rotator turns a rendered image for the printer feed direction.
type Rotator func(image.Image) image.Image

// ProcessStats tracks batch pipeline statistics.
type ProcessStats struct {
	Total       int
	WithAddress int
	NoAddress   int
	Printed     int
	Exported    int
}

// ProcessOptions selects the output mode for a run.
type ProcessOptions struct {
	// ExportOnly saves each label as a PNG instead of printing it.
	ExportOnly bool

	// OutDir receives exported label images and the batch JSON dump.
	OutDir string
}

// Processor runs the batch pipeline: for each raw record, normalize,
// enrich, compose, render, and either print or export, strictly in input
// order, one record at a time. Any fatal error stops the run before the
// offending record produces output.
type Processor struct {
	enricher  *Enricher
	renderer  Renderer
	printer   Printer
	rotate    Rotator
	cfg       config.Config
	logger    *log.Logger
	errLogger *log.Logger
}

// NewProcessor creates a new Processor.
func NewProcessor(enricher *Enricher, renderer Renderer, printer Printer, rotate Rotator, cfg config.Config) *Processor {
	return &Processor{
		enricher:  enricher,
		renderer:  renderer,
		printer:   printer,
		rotate:    rotate,
		cfg:       cfg,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Process runs the pipeline over the raw records and returns the enriched
// batch alongside run statistics.
func (p *Processor) Process(ctx context.Context, records []Record, opts ProcessOptions) ([]model.EnrichedQSO, *ProcessStats, error) {
	stats := &ProcessStats{Total: len(records)}
	enriched := make([]model.EnrichedQSO, 0, len(records))

	for idx, rec := range records {
		select {
		case <-ctx.Done():
			return enriched, stats, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("[%d/%d]", idx+1, len(records))

		qso, err := Normalize(rec)
		if err != nil {
			return enriched, stats, err
		}

		eq, err := p.enricher.Enrich(ctx, qso)
		if err != nil {
			return enriched, stats, err
		}

		if eq.HasAddress {
			stats.WithAddress++
		} else {
			stats.NoAddress++
		}

		layout := label.Compose(eq, p.cfg.LabelDPI)
		img, err := p.renderer.Render(layout)
		if err != nil {
			return enriched, stats, fmt.Errorf("failed to render label for %s: %w", eq.Callsign, err)
		}

		if opts.ExportOnly {
			path, err := p.exportImage(img, eq, opts.OutDir)
			if err != nil {
				return enriched, stats, err
			}
			p.logger.Printf("%s Exported %s", progress, path)
			stats.Exported++
		} else {
			if err := p.printer.Print(ctx, p.rotate(img)); err != nil {
				return enriched, stats, fmt.Errorf("failed to print label for %s: %w", eq.Callsign, err)
			}
			p.logger.Printf("%s Printed label for %s", progress, eq.Callsign)
			stats.Printed++
		}

		enriched = append(enriched, eq)
	}

	return enriched, stats, nil
}

// exportImage saves one label as CALLSIGN-DATE.png in outDir.
func (p *Processor) exportImage(img image.Image, qso model.EnrichedQSO, outDir string) (string, error) {
	name := fmt.Sprintf("%s-%s.png", sanitizeCallsign(qso.Callsign), qso.Date)
	path := filepath.Join(outDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// DumpBatch serializes the enriched batch as a JSON array to a timestamped
// file in outDir, one file per run, and returns its path.
func (p *Processor) DumpBatch(qsos []model.EnrichedQSO, outDir string) (string, error) {
	name := fmt.Sprintf("mailing-%s.json", time.Now().Format("2006-01-02-15-04-05"))
	path := filepath.Join(outDir, name)

	data, err := json.MarshalIndent(qsos, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// PrintSummary prints the pipeline statistics.
func (p *Processor) PrintSummary(stats *ProcessStats) {
	p.logger.Println("")
	p.logger.Println("=== Processing Summary ===")
	p.logger.Printf("Contacts:        %d", stats.Total)
	p.logger.Printf("With address:    %d", stats.WithAddress)
	p.logger.Printf("Without address: %d", stats.NoAddress)
	if stats.Printed > 0 {
		p.logger.Printf("Printed:         %d", stats.Printed)
	}
	if stats.Exported > 0 {
		p.logger.Printf("Exported:        %d", stats.Exported)
	}
}

// sanitizeCallsign makes a callsign safe for a filename; portable
// callsigns like W1AW/P contain a slash.
func sanitizeCallsign(callsign string) string {
	return strings.ReplaceAll(callsign, "/", "_")
}
