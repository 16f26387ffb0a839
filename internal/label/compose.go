package label

import (
	"strings"

	"github.com/jwalters/qslpress/internal/model"
)

// Fractional-inch offsets for each block. The contact details fill the
// left half of the card; name, address, and barcode stack down the right.
const (
	detailX, detailY   = 0.1, 0.15
	nameX, nameY       = 2.0, 1.0
	addressX, addressY = 2.0, 1.2
	barcodeX, barcodeY = 2.0, 1.5
)

// Compose turns an enriched QSO into a label layout at the given render
// resolution. It is pure: same QSO and dpi, same layout.
func Compose(qso model.EnrichedQSO, dpi int) Layout {
	layout := Layout{
		Width:  scale(WidthInches, dpi),
		Height: scale(HeightInches, dpi),
	}

	detail := []string{
		qso.Date,
		qso.Time,
		"",
		qso.GridSquare,
		qso.Frequency,
		qso.Power,
		qso.Mode,
		qso.SignalReport,
	}
	if qso.Note != "" {
		detail = append(detail, "")
		detail = append(detail, strings.Split(qso.Note, "\n")...)
	}
	layout.Blocks = append(layout.Blocks, TextBlock{
		Role:   RoleContactDetail,
		Weight: WeightRegular,
		X:      scale(detailX, dpi),
		Y:      scale(detailY, dpi),
		Lines:  detail,
	})

	if !qso.HasAddress {
		// No registry match: just the callsign in the name position.
		layout.Blocks = append(layout.Blocks, TextBlock{
			Role:   RoleRecipientName,
			Weight: WeightBold,
			X:      scale(nameX, dpi),
			Y:      scale(nameY, dpi),
			Lines:  []string{qso.Callsign},
		})
		return layout
	}

	layout.Blocks = append(layout.Blocks, TextBlock{
		Role:   RoleRecipientName,
		Weight: WeightBold,
		X:      scale(nameX, dpi),
		Y:      scale(nameY, dpi),
		Lines:  []string{qso.FirstName + " " + qso.LastName + ", " + qso.Callsign},
	})

	layout.Blocks = append(layout.Blocks, TextBlock{
		Role:   RoleAddress,
		Weight: WeightRegular,
		X:      scale(addressX, dpi),
		Y:      scale(addressY, dpi),
		Lines: []string{
			qso.Address,
			qso.City + ", " + qso.State + " " + qso.Zip,
		},
	})

	layout.Barcode = &BarcodeBlock{
		X:       scale(barcodeX, dpi),
		Y:       scale(barcodeY, dpi),
		Payload: qso.BarcodePayload,
	}

	return layout
}

func scale(inches float64, dpi int) int {
	return int(inches * float64(dpi))
}
