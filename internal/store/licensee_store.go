package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwalters/qslpress/internal/model"
)

// ErrAmbiguousCallsign reports more than one simultaneously active licensee
// record for a single callsign. The FCC guarantees this never happens, so
// hitting it means the registry data is corrupt and the run must halt
// rather than guess which address to mail to.
var ErrAmbiguousCallsign = errors.New("more than one active licensee record")

// LicenseeStore handles database operations for the licensee registry.
type LicenseeStore struct {
	db *sql.DB
}

// NewLicenseeStore creates a new LicenseeStore.
func NewLicenseeStore(db *sql.DB) *LicenseeStore {
	return &LicenseeStore{db: db}
}

// Rebuild replaces the entire licensee table with the given records in one
// transaction. A registry load is always a full rebuild, never an
// incremental merge, so re-running it with the same extracts is idempotent.
func (s *LicenseeStore) Rebuild(ctx context.Context, records []model.LicenseeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	createTable := `
		CREATE TABLE IF NOT EXISTS licensees (
			identifier TEXT,
			callsign   TEXT,
			firstname  TEXT,
			lastname   TEXT,
			address    TEXT,
			city       TEXT,
			state      TEXT,
			zipcode    TEXT,
			active     INTEGER DEFAULT 0
		)
	`
	if _, err := tx.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create licensees table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM licensees"); err != nil {
		return fmt.Errorf("failed to clear licensees table: %w", err)
	}

	insert := `
		INSERT INTO licensees (identifier, callsign, firstname, lastname,
		                       address, city, state, zipcode, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare licensee insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		active := 0
		if r.Active {
			active = 1
		}
		_, err := stmt.ExecContext(ctx,
			r.Identifier,
			r.Callsign,
			r.FirstName,
			r.LastName,
			r.Address,
			r.City,
			r.State,
			r.ZipCode,
			active,
		)
		if err != nil {
			return fmt.Errorf("failed to insert licensee %s: %w", r.Identifier, err)
		}
	}

	// Lookups are always by callsign filtered to active records.
	index := `CREATE INDEX IF NOT EXISTS idx_licensees_callsign ON licensees (callsign, active)`
	if _, err := tx.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("failed to create callsign index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}

	return nil
}

// FindActiveLicensee retrieves the single active licensee record for a
// callsign. Returns (nil, nil) when no active record exists, and an error
// wrapping ErrAmbiguousCallsign when more than one does. Matching is exact
// and case-sensitive on the stored callsign.
func (s *LicenseeStore) FindActiveLicensee(ctx context.Context, callsign string) (*model.LicenseeRecord, error) {
	query := `
		SELECT identifier, callsign, firstname, lastname, address, city, state, zipcode, active
		FROM licensees
		WHERE callsign = $1 AND active = 1
	`

	rows, err := s.db.QueryContext(ctx, query, callsign)
	if err != nil {
		return nil, fmt.Errorf("failed to query licensee %s: %w", callsign, err)
	}
	defer rows.Close()

	var found *model.LicenseeRecord
	for rows.Next() {
		if found != nil {
			return nil, fmt.Errorf("callsign %s: %w", callsign, ErrAmbiguousCallsign)
		}

		var r model.LicenseeRecord
		var active int
		err := rows.Scan(
			&r.Identifier,
			&r.Callsign,
			&r.FirstName,
			&r.LastName,
			&r.Address,
			&r.City,
			&r.State,
			&r.ZipCode,
			&active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan licensee %s: %w", callsign, err)
		}
		r.Active = active != 0
		found = &r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read licensee rows for %s: %w", callsign, err)
	}

	return found, nil
}

// Count returns the total number of licensee records in the registry.
func (s *LicenseeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM licensees").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count licensees: %w", err)
	}
	return count, nil
}

// CountActive returns the number of currently active licensee records.
func (s *LicenseeStore) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM licensees WHERE active = 1").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active licensees: %w", err)
	}
	return count, nil
}
