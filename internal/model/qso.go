package model

// QSO is one normalized contact event, ready for enrichment.
// Date is always "YYYY-MM-DD" and Time always "HH:MM:SSZ" (UTC) after
// normalization. Frequency passes through unit-less; Power carries a
// trailing "W" when present.
type QSO struct {
	Callsign   string `json:"callsign"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	GridSquare string `json:"grid_square"`
	Frequency  string `json:"frequency"`
	Power      string `json:"power"`
	Mode       string `json:"mode"`

	// SignalReport combines the sent and received reports ("S59 R57").
	// Empty when neither report was logged.
	SignalReport string `json:"signal_report"`

	// Note is an optional two-line operator note: a fixed activation
	// caption followed by the raw note content.
	Note string `json:"note,omitempty"`
}

// EnrichedQSO is a QSO joined against the licensee registry.
// When HasAddress is false none of the identity, address, or barcode
// fields are populated; a label can still be composed either way.
type EnrichedQSO struct {
	QSO

	HasAddress bool   `json:"has_address"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`

	// Zip is the display form of the licensee zip code, hyphenated when
	// the stored code has 9 digits ("06111-0001").
	Zip string `json:"zip,omitempty"`

	// Serial is a zero-padded mail serial drawn from a secure random
	// source per label, sized so the mailer ID and serial fill the
	// 15-digit tracking tail. Never persisted or reused across runs.
	Serial string `json:"serial,omitempty"`

	// BarcodePayload is the opaque Intelligent Mail bar string produced
	// by the barcode encoder; the pipeline only displays it.
	BarcodePayload string `json:"barcode_payload,omitempty"`
}
