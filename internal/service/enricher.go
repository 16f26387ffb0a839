package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/jwalters/qslpress/internal/config"
	"github.com/jwalters/qslpress/internal/model"
)

// Registry looks up the single active licensee record for a callsign.
// A nil record with a nil error means no active record exists.
type Registry interface {
	FindActiveLicensee(ctx context.Context, callsign string) (*model.LicenseeRecord, error)
}

// BarcodeEncoder produces an opaque mail barcode payload. The pipeline
// never interprets the payload, only hands it to the renderer.
type BarcodeEncoder interface {
	Encode(barcodeID, serviceID, mailerID, serial, zip string) (string, error)
}

// Enricher joins normalized QSOs against the licensee registry and attaches
// the mail barcode payload.
type Enricher struct {
	registry  Registry
	encoder   BarcodeEncoder
	cfg       config.Config
	logger    *log.Logger
	errLogger *log.Logger
}

// NewEnricher creates a new Enricher.
func NewEnricher(registry Registry, encoder BarcodeEncoder, cfg config.Config) *Enricher {
	return &Enricher{
		registry:  registry,
		encoder:   encoder,
		cfg:       cfg,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Enrich resolves the QSO's callsign to a mailing address. A callsign with
// no active record is a per-record warning and yields HasAddress=false; an
// ambiguous callsign is propagated as-is and halts the run.
func (e *Enricher) Enrich(ctx context.Context, qso model.QSO) (model.EnrichedQSO, error) {
	enriched := model.EnrichedQSO{QSO: qso}

	rec, err := e.registry.FindActiveLicensee(ctx, qso.Callsign)
	if err != nil {
		return model.EnrichedQSO{}, err
	}

	if rec == nil {
		e.errLogger.Printf("No licensee found for %s, printing label without an address", qso.Callsign)
		return enriched, nil
	}

	enriched.HasAddress = true
	enriched.FirstName = rec.FirstName
	enriched.LastName = rec.LastName
	enriched.Address = rec.Address
	enriched.City = rec.City
	enriched.State = rec.State
	enriched.Zip = formatZip(rec.ZipCode)

	// Mailer ID and serial together fill the 15-digit tracking tail, so a
	// 6-digit mailer ID gets a 9-digit serial and a 9-digit one gets 6.
	serial, err := newSerial(15 - len(e.cfg.MailerID))
	if err != nil {
		return model.EnrichedQSO{}, fmt.Errorf("failed to generate mail serial: %w", err)
	}
	enriched.Serial = serial

	// The encoder wants the raw undashed zip.
	payload, err := e.encoder.Encode(e.cfg.BarcodeID, e.cfg.ServiceID, e.cfg.MailerID, serial, rec.ZipCode)
	if err != nil {
		return model.EnrichedQSO{}, fmt.Errorf("failed to encode barcode for %s: %w", qso.Callsign, err)
	}
	enriched.BarcodePayload = payload

	return enriched, nil
}

// formatZip hyphenates a stored 9-digit zip for display and passes a
// 5-digit zip through unchanged.
func formatZip(zip string) string {
	if len(zip) > 5 {
		return zip[0:5] + "-" + zip[5:9]
	}
	return zip
}

// newSerial draws an n-digit zero-padded decimal serial from a
// cryptographically secure source. Serials must not be predictable or
// replayable across runs, so math/rand is not an option here.
func newSerial(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
