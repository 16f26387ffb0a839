package service

import (
	"fmt"
	"strings"

	"github.com/jwalters/qslpress/internal/model"
)

// Record is a raw contact record with optional named fields. The ok result
// distinguishes an absent field from an empty one so that absence never
// leaks a sentinel value into label text.
type Record interface {
	Get(field string) (value string, ok bool)
}

// powerSuffix is the power-unit suffix appended to TX_PWR values.
const powerSuffix = "W"

// noteCaption is the fixed first line of the optional operator note.
const noteCaption = "POTA Activation"

// MissingGridSquareError reports a contact record without the operator's
// own grid square. A QSL card that does not say where the contact was made
// from is useless, so this halts the whole run.
type MissingGridSquareError struct {
	Callsign string
}

func (e *MissingGridSquareError) Error() string {
	return fmt.Sprintf("QSO with %s has no MY_GRIDSQUARE", e.Callsign)
}

// Normalize converts one raw contact record into a canonical QSO.
// It is pure and performs no I/O.
//
// Dates must be 8 digits (YYYYMMDD) and times 6 digits (HHMMSS); anything
// else is rejected rather than truncated into garbage.
func Normalize(rec Record) (model.QSO, error) {
	var qso model.QSO

	qso.Callsign, _ = rec.Get("CALL")

	rawDate, ok := rec.Get("QSO_DATE")
	if !ok || len(rawDate) != 8 || !allDigits(rawDate) {
		return model.QSO{}, fmt.Errorf("QSO with %s has malformed QSO_DATE %q, want 8 digits", qso.Callsign, rawDate)
	}
	qso.Date = rawDate[0:4] + "-" + rawDate[4:6] + "-" + rawDate[6:8]

	rawTime, ok := rec.Get("TIME_ON")
	if !ok || len(rawTime) != 6 || !allDigits(rawTime) {
		return model.QSO{}, fmt.Errorf("QSO with %s has malformed TIME_ON %q, want 6 digits", qso.Callsign, rawTime)
	}
	qso.Time = rawTime[0:2] + ":" + rawTime[2:4] + ":" + rawTime[4:6] + "Z"

	grid, ok := rec.Get("MY_GRIDSQUARE")
	if !ok {
		return model.QSO{}, &MissingGridSquareError{Callsign: qso.Callsign}
	}
	qso.GridSquare = grid

	qso.Frequency, _ = rec.Get("FREQ")
	qso.Mode, _ = rec.Get("MODE")

	if power, ok := rec.Get("TX_PWR"); ok {
		if !strings.HasSuffix(strings.ToUpper(power), powerSuffix) {
			power += powerSuffix
		}
		qso.Power = power
	}

	// The report is empty only when both halves are absent; a lone report
	// still gets the full prefix treatment.
	sent, sentOK := rec.Get("RST_SENT")
	rcvd, rcvdOK := rec.Get("RST_RCVD")
	if sentOK || rcvdOK {
		qso.SignalReport = fmt.Sprintf("S%s R%s", sent, rcvd)
	}

	if note, ok := rec.Get("MY_SIG_INFO"); ok {
		qso.Note = noteCaption + "\nfrom " + note
	}

	return qso, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
