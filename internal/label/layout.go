// Package label composes renderer-agnostic label layouts for QSL cards.
// A layout is a set of positioned text blocks plus an optional barcode
// block; coordinates are already scaled to pixels, so a renderer only has
// to draw, never to measure.
package label

// Physical card dimensions in inches. These stay fixed across resolution
// changes; only the pixel coordinates scale.
const (
	WidthInches  = 4.75
	HeightInches = 2.4
)

// Role identifies what a text block carries, so the renderer can pick the
// matching font family and size.
type Role string

const (
	RoleContactDetail Role = "contact_detail"
	RoleRecipientName Role = "recipient_name"
	RoleAddress       Role = "address"
)

// FontWeight is a rendering hint for a text block.
type FontWeight string

const (
	WeightRegular FontWeight = "regular"
	WeightBold    FontWeight = "bold"
)

// TextBlock is one positioned run of text lines. X and Y locate the
// baseline of the first line in pixels.
type TextBlock struct {
	Role   Role
	Weight FontWeight
	X      int
	Y      int
	Lines  []string
}

// BarcodeBlock positions the Intelligent Mail bar string. The payload is
// opaque here; it becomes a barcode only through the USPS barcode font.
type BarcodeBlock struct {
	X       int
	Y       int
	Payload string
}

// Layout is an abstract description of one printable card.
type Layout struct {
	Width   int
	Height  int
	Blocks  []TextBlock
	Barcode *BarcodeBlock
}
