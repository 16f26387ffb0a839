package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwalters/qslpress/internal/service"
)

// rawRecord is a minimal Record for tests: absent and empty fields both
// read as not-present, like the ADIF reader's records.
type rawRecord map[string]string

func (r rawRecord) Get(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// fullRecord returns a complete raw contact for tests to mutate.
func fullRecord() rawRecord {
	return rawRecord{
		"CALL":          "W1AW",
		"QSO_DATE":      "20230704",
		"TIME_ON":       "143000",
		"MY_GRIDSQUARE": "FN31",
		"FREQ":          "14.250",
		"TX_PWR":        "100",
		"MODE":          "SSB",
		"RST_SENT":      "59",
		"RST_RCVD":      "57",
	}
}

func TestNormalize_dateAndTimeFormatting(t *testing.T) {
	qso, err := service.Normalize(fullRecord())

	require.NoError(t, err)
	require.Equal(t, "2023-07-04", qso.Date)
	require.Equal(t, "14:30:00Z", qso.Time)
	require.Len(t, qso.Date, 10)
	require.Len(t, qso.Time, 9)
}

func TestNormalize_basicFields(t *testing.T) {
	qso, err := service.Normalize(fullRecord())

	require.NoError(t, err)
	require.Equal(t, "W1AW", qso.Callsign)
	require.Equal(t, "FN31", qso.GridSquare)
	require.Equal(t, "14.250", qso.Frequency)
	require.Equal(t, "SSB", qso.Mode)
	require.Equal(t, "100W", qso.Power)
	require.Equal(t, "S59 R57", qso.SignalReport)
	require.Empty(t, qso.Note)
}

func TestNormalize_missingGridSquareIsFatal(t *testing.T) {
	rec := fullRecord()
	delete(rec, "MY_GRIDSQUARE")

	_, err := service.Normalize(rec)

	require.Error(t, err)
	var mgs *service.MissingGridSquareError
	require.ErrorAs(t, err, &mgs)
	require.Equal(t, "W1AW", mgs.Callsign)
	require.Contains(t, err.Error(), "W1AW")
}

func TestNormalize_powerSuffixIdempotent(t *testing.T) {
	rec := fullRecord()
	rec["TX_PWR"] = "100W"
	qso, err := service.Normalize(rec)
	require.NoError(t, err)
	require.Equal(t, "100W", qso.Power)

	// lower-case suffix counts too
	rec["TX_PWR"] = "5w"
	qso, err = service.Normalize(rec)
	require.NoError(t, err)
	require.Equal(t, "5w", qso.Power)
}

func TestNormalize_powerAbsentStaysAbsent(t *testing.T) {
	rec := fullRecord()
	delete(rec, "TX_PWR")

	qso, err := service.Normalize(rec)

	require.NoError(t, err)
	require.Empty(t, qso.Power)
}

func TestNormalize_signalReportEmptyOnlyWhenBothAbsent(t *testing.T) {
	rec := fullRecord()
	delete(rec, "RST_SENT")
	delete(rec, "RST_RCVD")
	qso, err := service.Normalize(rec)
	require.NoError(t, err)
	require.Equal(t, "", qso.SignalReport)

	// A lone report still produces a combined field.
	rec = fullRecord()
	delete(rec, "RST_RCVD")
	qso, err = service.Normalize(rec)
	require.NoError(t, err)
	require.Equal(t, "S59 R", qso.SignalReport)
}

func TestNormalize_noteGetsActivationCaption(t *testing.T) {
	rec := fullRecord()
	rec["MY_SIG_INFO"] = "K-1234"

	qso, err := service.Normalize(rec)

	require.NoError(t, err)
	require.Equal(t, "POTA Activation\nfrom K-1234", qso.Note)
}

// The reference behavior truncated or garbled out-of-width date and time
// fields; this implementation deliberately hardens that into an explicit
// validation error instead.
func TestNormalize_rejectsMalformedDate(t *testing.T) {
	for _, bad := range []string{"", "2023074", "202307041", "2023070a"} {
		rec := fullRecord()
		rec["QSO_DATE"] = bad

		_, err := service.Normalize(rec)

		require.Error(t, err, "date %q should be rejected", bad)
		require.Contains(t, err.Error(), "QSO_DATE")
	}
}

func TestNormalize_rejectsMalformedTime(t *testing.T) {
	for _, bad := range []string{"", "1430", "1430001", "14300a"} {
		rec := fullRecord()
		rec["TIME_ON"] = bad

		_, err := service.Normalize(rec)

		require.Error(t, err, "time %q should be rejected", bad)
		require.Contains(t, err.Error(), "TIME_ON")
	}
}
