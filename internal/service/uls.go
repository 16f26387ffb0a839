package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwalters/qslpress/internal/model"
)

// Column offsets in the pipe-delimited FCC ULS extracts.
// EN is the entity file, HD the license header (status) file.
const (
	enColIdentifier = 1
	enColCallsign   = 4
	enColFirstName  = 8
	enColLastName   = 10
	enColAddress    = 15
	enColCity       = 16
	enColState      = 17
	enColZip        = 18
	enColPOBox      = 19

	hdColIdentifier = 1
	hdColStatus     = 5
)

// activeStatus is the HD status code for a currently valid license.
const activeStatus = "A"

var titleCaser = cases.Title(language.AmericanEnglish)

// ULSParser turns the two raw FCC extracts into licensee records.
// It is pure: callers hand it readers and receive records keyed by
// the FCC identifier.
type ULSParser struct{}

// NewULSParser creates a new ULSParser.
func NewULSParser() *ULSParser {
	return &ULSParser{}
}

// ParseEntities reads the EN (entity) extract and returns one record per
// licensee, keyed by identifier. Name, address, and city fields are
// title-cased and stripped of embedded quotes; the zip code is kept
// verbatim to preserve leading zeros.
func (p *ULSParser) ParseEntities(r io.Reader) (map[string]*model.LicenseeRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records := make(map[string]*model.LicenseeRecord)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read entity row: %w", err)
		}

		if len(row) <= enColZip {
			return nil, fmt.Errorf("entity row has %d columns, want at least %d", len(row), enColZip+1)
		}

		rec := &model.LicenseeRecord{
			Identifier: row[enColIdentifier],
			Callsign:   row[enColCallsign],
			FirstName:  cleanName(row[enColFirstName]),
			LastName:   cleanName(row[enColLastName]),
			Address:    cleanName(row[enColAddress]),
			City:       cleanName(row[enColCity]),
			State:      stripQuotes(row[enColState]),
			ZipCode:    row[enColZip],
		}

		// PO boxes are stored out-of-band from the street address column:
		// such rows carry a near-empty address and the box number in a
		// trailing column.
		if len(rec.Address) < 5 && len(row) > enColPOBox && row[enColPOBox] != "" {
			rec.Address = "PO Box " + stripQuotes(row[enColPOBox])
		}

		records[rec.Identifier] = rec
	}

	return records, nil
}

// MergeStatuses reads the HD (license header) extract and marks each
// matching record active or inactive. A status row whose identifier has no
// entity record is a data-integrity error: the two extracts come from the
// same dump and must cross-reference cleanly.
func (p *ULSParser) MergeStatuses(r io.Reader, records map[string]*model.LicenseeRecord) error {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read status row: %w", err)
		}

		if len(row) <= hdColStatus {
			return fmt.Errorf("status row has %d columns, want at least %d", len(row), hdColStatus+1)
		}

		identifier := row[hdColIdentifier]
		rec, ok := records[identifier]
		if !ok {
			return fmt.Errorf("status row references identifier %s with no entity record", identifier)
		}

		rec.Active = row[hdColStatus] == activeStatus
	}

	return nil
}

// cleanName title-cases a name-like field and strips embedded quotes.
// Title casing runs first so a quote still acts as a word boundary.
func cleanName(s string) string {
	return stripQuotes(titleCaser.String(s))
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
