// Package adif reads ADIF contact logs into raw records with
// presence-aware field access.
package adif

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Matir/adifparser"
)

// fields are the ADIF fields the label pipeline consumes. Everything else
// in the log is ignored.
var fields = []string{
	"call",
	"qso_date",
	"time_on",
	"my_gridsquare",
	"freq",
	"tx_pwr",
	"mode",
	"rst_sent",
	"rst_rcvd",
	"my_sig_info",
}

// Record is one raw contact record, keyed by upper-cased ADIF field name.
type Record map[string]string

// Get returns the named field and whether it is present. An empty value
// counts as absent, so callers never have to compare against sentinels.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[strings.ToUpper(field)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ReadFile parses an ADIF log file into raw records in input order.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// Read parses an ADIF log from r.
func Read(r io.Reader) ([]Record, error) {
	reader := adifparser.NewADIFReader(r)

	var out []Record
	for {
		rec, err := reader.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		record := make(Record)
		for _, field := range fields {
			if v, err := rec.GetValue(field); err == nil && v != "" {
				record[strings.ToUpper(field)] = v
			}
		}
		out = append(out, record)
	}

	return out, nil
}
