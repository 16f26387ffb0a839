package model

// LicenseeRecord is one entrant in the FCC ULS amateur license registry.
// A callsign may appear on several historical records but carries at most
// one currently active record; Identifier is unique within the store.
type LicenseeRecord struct {
	Identifier string `json:"identifier"`
	Callsign   string `json:"callsign"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`

	// ZipCode is the raw 5 or 9 digit code as stored by the FCC,
	// kept as a string to preserve leading zeros.
	ZipCode string `json:"zip_code"`

	Active bool `json:"active"`
}
