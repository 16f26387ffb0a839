package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jwalters/qslpress/internal/model"
	"github.com/jwalters/qslpress/internal/store"
)

// LoadStats tracks registry load statistics.
type LoadStats struct {
	Entities int
	Active   int
	Inactive int
}

// Loader orchestrates the registry rebuild: read the two FCC extracts,
// merge them into per-licensee records, and replace the store contents
// wholesale.
type Loader struct {
	parser    *ULSParser
	licensees *store.LicenseeStore
	logger    *log.Logger
	errLogger *log.Logger
}

// NewLoader creates a new Loader.
func NewLoader(parser *ULSParser, licensees *store.LicenseeStore) *Loader {
	return &Loader{
		parser:    parser,
		licensees: licensees,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Load reads the entity and license-status extracts and rebuilds the
// registry store. Safe to re-run: each load is a full replacement.
func (l *Loader) Load(ctx context.Context, entityPath, statusPath string) (*LoadStats, error) {
	l.logger.Printf("Reading entity extract %s...", entityPath)
	enFile, err := os.Open(entityPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open entity extract: %w", err)
	}
	defer enFile.Close()

	records, err := l.parser.ParseEntities(enFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entity extract: %w", err)
	}
	l.logger.Printf("Found %d licensee records", len(records))

	l.logger.Printf("Reading license-status extract %s...", statusPath)
	hdFile, err := os.Open(statusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open license-status extract: %w", err)
	}
	defer hdFile.Close()

	if err := l.parser.MergeStatuses(hdFile, records); err != nil {
		return nil, fmt.Errorf("failed to merge license statuses: %w", err)
	}

	stats := &LoadStats{Entities: len(records)}
	flat := make([]model.LicenseeRecord, 0, len(records))
	for _, rec := range records {
		if rec.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
		flat = append(flat, *rec)
	}

	l.logger.Println("Rebuilding registry store...")
	if err := l.licensees.Rebuild(ctx, flat); err != nil {
		return nil, fmt.Errorf("failed to rebuild registry: %w", err)
	}

	return stats, nil
}

// PrintSummary prints the registry load statistics.
func (l *Loader) PrintSummary(stats *LoadStats) {
	l.logger.Println("")
	l.logger.Println("=== Registry Load Summary ===")
	l.logger.Printf("Licensees:  %d", stats.Entities)
	l.logger.Printf("Active:     %d", stats.Active)
	l.logger.Printf("Inactive:   %d", stats.Inactive)
}
