package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/model"
	"github.com/jwalters/qslpress/internal/service"
	"github.com/jwalters/qslpress/internal/store"
)

// fakeRegistry returns a canned lookup result.
type fakeRegistry struct {
	rec *model.LicenseeRecord
	err error
}

func (f *fakeRegistry) FindActiveLicensee(ctx context.Context, callsign string) (*model.LicenseeRecord, error) {
	return f.rec, f.err
}

// captureEncoder records how it was invoked and returns a fixed payload.
type captureEncoder struct {
	calls     int
	barcodeID string
	serviceID string
	mailerID  string
	serial    string
	zip       string
	err       error
}

func (c *captureEncoder) Encode(barcodeID, serviceID, mailerID, serial, zip string) (string, error) {
	c.calls++
	c.barcodeID, c.serviceID, c.mailerID, c.serial, c.zip = barcodeID, serviceID, mailerID, serial, zip
	if c.err != nil {
		return "", c.err
	}
	return "PAYLOAD", nil
}

func testConfig() config.Config {
	return config.Config{
		BarcodeID: "00",
		ServiceID: "270",
		MailerID:  "000000000",
		LabelDPI:  290,
	}
}

func testQSO() model.QSO {
	return model.QSO{
		Callsign:     "W1AW",
		Date:         "2023-07-04",
		Time:         "14:30:00Z",
		GridSquare:   "FN31",
		Frequency:    "14.250",
		Power:        "100W",
		Mode:         "SSB",
		SignalReport: "S59 R57",
	}
}

func testLicensee() *model.LicenseeRecord {
	return &model.LicenseeRecord{
		Identifier: "X1",
		Callsign:   "W1AW",
		FirstName:  "John",
		LastName:   "Doe",
		Address:    "123 Main St",
		City:       "Anytown",
		State:      "CT",
		ZipCode:    "061110001",
		Active:     true,
	}
}

func TestEnrich_noMatchProceedsWithoutAddress(t *testing.T) {
	encoder := &captureEncoder{}
	e := service.NewEnricher(&fakeRegistry{}, encoder, testConfig())

	enriched, err := e.Enrich(context.Background(), testQSO())

	require.NoError(t, err)
	require.False(t, enriched.HasAddress)
	require.Empty(t, enriched.FirstName)
	require.Empty(t, enriched.Zip)
	require.Empty(t, enriched.Serial)
	require.Empty(t, enriched.BarcodePayload)
	require.Zero(t, encoder.calls, "encoder must not run for an address-less label")
}

func TestEnrich_matchCopiesIdentityAndInvokesEncoder(t *testing.T) {
	encoder := &captureEncoder{}
	e := service.NewEnricher(&fakeRegistry{rec: testLicensee()}, encoder, testConfig())

	enriched, err := e.Enrich(context.Background(), testQSO())

	require.NoError(t, err)
	require.True(t, enriched.HasAddress)
	require.Equal(t, "John", enriched.FirstName)
	require.Equal(t, "Doe", enriched.LastName)
	require.Equal(t, "123 Main St", enriched.Address)
	require.Equal(t, "Anytown", enriched.City)
	require.Equal(t, "CT", enriched.State)
	require.Equal(t, "06111-0001", enriched.Zip)
	require.Equal(t, "PAYLOAD", enriched.BarcodePayload)

	require.Equal(t, 1, encoder.calls)
	require.Equal(t, "00", encoder.barcodeID)
	require.Equal(t, "270", encoder.serviceID)
	require.Equal(t, "000000000", encoder.mailerID)
	require.Equal(t, "061110001", encoder.zip, "encoder gets the raw undashed zip")
	require.Equal(t, enriched.Serial, encoder.serial)
}

func TestEnrich_fiveDigitZipUnchanged(t *testing.T) {
	lic := testLicensee()
	lic.ZipCode = "06111"
	e := service.NewEnricher(&fakeRegistry{rec: lic}, &captureEncoder{}, testConfig())

	enriched, err := e.Enrich(context.Background(), testQSO())

	require.NoError(t, err)
	require.Equal(t, "06111", enriched.Zip)
}

func TestEnrich_serialIsSixDigitsAndFresh(t *testing.T) {
	e := service.NewEnricher(&fakeRegistry{rec: testLicensee()}, &captureEncoder{}, testConfig())

	serials := make(map[string]bool)
	for i := 0; i < 8; i++ {
		enriched, err := e.Enrich(context.Background(), testQSO())
		require.NoError(t, err)
		require.Len(t, enriched.Serial, 6)
		for _, r := range enriched.Serial {
			require.True(t, r >= '0' && r <= '9')
		}
		serials[enriched.Serial] = true
	}

	// 8 draws from a million values colliding every time is not a thing.
	require.Greater(t, len(serials), 1, "serials must be regenerated per label")
}

func TestEnrich_sixDigitMailerGetsNineDigitSerial(t *testing.T) {
	cfg := testConfig()
	cfg.MailerID = "123456"
	encoder := &captureEncoder{}
	e := service.NewEnricher(&fakeRegistry{rec: testLicensee()}, encoder, cfg)

	enriched, err := e.Enrich(context.Background(), testQSO())

	require.NoError(t, err)
	require.Len(t, enriched.Serial, 9, "mailer ID and serial together fill the 15-digit tracking tail")
	require.Equal(t, enriched.Serial, encoder.serial)
}

func TestEnrich_ambiguousCallsignPropagates(t *testing.T) {
	reg := &fakeRegistry{err: store.ErrAmbiguousCallsign}
	e := service.NewEnricher(reg, &captureEncoder{}, testConfig())

	_, err := e.Enrich(context.Background(), testQSO())

	require.ErrorIs(t, err, store.ErrAmbiguousCallsign)
}
