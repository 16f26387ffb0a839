// Package barcode implements the USPS Intelligent Mail barcode encoding.
//
// Encode turns a tracking code (barcode ID, service type, mailer ID,
// serial) and an optional routing zip code into the 65-character
// ascender/descender string ("A", "D", "F", "T") that the USPS barcode
// font renders as the printed symbol.
package barcode

import (
	"fmt"
	"math/big"
	"math/bits"
)

// IMBEncoder encodes Intelligent Mail barcodes.
type IMBEncoder struct{}

// NewIMBEncoder creates a new IMBEncoder.
func NewIMBEncoder() *IMBEncoder {
	return &IMBEncoder{}
}

// Encode builds the 65-bar payload string.
//
// barcodeID must be 2 digits with the second digit in 0-4, serviceID 3
// digits, mailerID 6 or 9 digits, and the serial the complement to a
// 9-digit tracking tail (9 digits for a 6-digit mailer, 6 for a 9-digit
// one). zip may be empty, 5, 9, or 11 digits.
func (e *IMBEncoder) Encode(barcodeID, serviceID, mailerID, serial, zip string) (string, error) {
	if err := validateInputs(barcodeID, serviceID, mailerID, serial, zip); err != nil {
		return "", err
	}

	binary := routingValue(zip)

	// Fold the 20 tracking digits into the routing value. The second
	// barcode digit is worth only 5, everything else 10.
	tracking := barcodeID + serviceID + mailerID + serial
	for i, d := range tracking {
		factor := int64(10)
		if i == 1 {
			factor = 5
		}
		binary.Mul(binary, big.NewInt(factor))
		binary.Add(binary, big.NewInt(int64(d-'0')))
	}

	// CRC over the full 102-bit value, left-padded to 13 bytes.
	var data [13]byte
	binary.FillBytes(data[:])
	fcs := crc11(data)

	codewords := toCodewords(binary)

	// Orientation: double the last codeword; fold FCS bit 10 into the first.
	codewords[9] *= 2
	if fcs&(1<<10) != 0 {
		codewords[0] += 659
	}

	var chars [10]uint16
	for i, cw := range codewords {
		chars[i] = characterFor(cw)
		if fcs&(1<<uint(i)) != 0 {
			chars[i] ^= 0x1FFF
		}
	}

	return barsFrom(chars), nil
}

// validateInputs enforces the IMb field widths.
func validateInputs(barcodeID, serviceID, mailerID, serial, zip string) error {
	if len(barcodeID) != 2 || !digits(barcodeID) {
		return fmt.Errorf("barcode ID must be 2 digits, got %q", barcodeID)
	}
	if barcodeID[1] > '4' {
		return fmt.Errorf("barcode ID second digit must be 0-4, got %q", barcodeID)
	}
	if len(serviceID) != 3 || !digits(serviceID) {
		return fmt.Errorf("service type ID must be 3 digits, got %q", serviceID)
	}
	if !digits(mailerID) || (len(mailerID) != 6 && len(mailerID) != 9) {
		return fmt.Errorf("mailer ID must be 6 or 9 digits, got %q", mailerID)
	}
	wantSerial := 15 - len(mailerID)
	if len(serial) != wantSerial || !digits(serial) {
		return fmt.Errorf("serial must be %d digits for a %d-digit mailer ID, got %q", wantSerial, len(mailerID), serial)
	}
	switch len(zip) {
	case 0:
	case 5, 9, 11:
		if !digits(zip) {
			return fmt.Errorf("routing code must be numeric, got %q", zip)
		}
	default:
		return fmt.Errorf("routing code must be 0, 5, 9, or 11 digits, got %d", len(zip))
	}
	return nil
}

// routingValue converts the zip into its offset binary form. Longer codes
// are shifted past the value ranges of the shorter ones so every length
// maps to a distinct region.
func routingValue(zip string) *big.Int {
	v := new(big.Int)
	if zip == "" {
		return v
	}
	v.SetString(zip, 10)
	switch len(zip) {
	case 5:
		v.Add(v, big.NewInt(1))
	case 9:
		v.Add(v, big.NewInt(100001))
	case 11:
		v.Add(v, big.NewInt(1000100001))
	}
	return v
}

// toCodewords splits the binary value into ten codewords: the last has
// radix 636, the middle eight radix 1365, and the remainder (always below
// 659) lands in the first.
func toCodewords(v *big.Int) [10]uint16 {
	var cw [10]uint16
	n := new(big.Int).Set(v)
	m := new(big.Int)

	n.DivMod(n, big.NewInt(636), m)
	cw[9] = uint16(m.Int64())

	for i := 8; i >= 1; i-- {
		n.DivMod(n, big.NewInt(1365), m)
		cw[i] = uint16(m.Int64())
	}
	cw[0] = uint16(n.Int64())
	return cw
}

// crc11 computes the 11-bit frame check sequence over the 102-bit value.
// The leftmost two bits of the first byte are excluded.
func crc11(data [13]byte) uint16 {
	const genPoly = uint16(0x0F35)
	fcs := uint16(0x7FF)

	d := uint16(data[0]) << 5
	for i := 0; i < 6; i++ {
		if (fcs^d)&0x400 != 0 {
			fcs = (fcs << 1) ^ genPoly
		} else {
			fcs <<= 1
		}
		fcs &= 0x7FF
		d <<= 1
	}

	for _, b := range data[1:] {
		d = uint16(b) << 3
		for i := 0; i < 8; i++ {
			if (fcs^d)&0x400 != 0 {
				fcs = (fcs << 1) ^ genPoly
			} else {
				fcs <<= 1
			}
			fcs &= 0x7FF
			d <<= 1
		}
	}

	return fcs
}

// The 13-bit character tables: 1287 characters with five bits set, then 78
// with two. Built once at startup from the published generation procedure.
var (
	table5of13 [1287]uint16
	table2of13 [78]uint16
)

func init() {
	fillNof13(5, table5of13[:])
	fillNof13(2, table2of13[:])
}

// fillNof13 enumerates the 13-bit values with exactly n bits set,
// pairing each value with its bit reversal from the low end of the table
// and packing the palindromes at the top.
func fillNof13(n int, table []uint16) {
	lower, upper := 0, len(table)-1
	for count := uint16(0); count < 8192; count++ {
		if bits.OnesCount16(count) != n {
			continue
		}
		rev := reverse13(count)
		if rev < count {
			continue // handled when its partner was reached
		}
		if count == rev {
			table[upper] = count
			upper--
		} else {
			table[lower] = count
			lower++
			table[lower] = rev
			lower++
		}
	}
}

func reverse13(v uint16) uint16 {
	var r uint16
	for i := 0; i < 13; i++ {
		r <<= 1
		r |= v & 1
		v >>= 1
	}
	return r
}

// characterFor maps a codeword to its 13-bit character.
func characterFor(cw uint16) uint16 {
	if cw < 1287 {
		return table5of13[cw]
	}
	return table2of13[cw-1287]
}

// barMap assigns each of the 65 bars its descender and ascender source
// bits: {descender character, descender bit, ascender character, ascender
// bit}, per the published USPS bar-to-character mapping. Every
// (character, bit) pair is consumed exactly once.
var barMap = [65][4]uint8{
	{7, 2, 4, 3}, {1, 10, 0, 0}, {9, 12, 2, 8}, {5, 5, 6, 11}, {8, 9, 3, 1},
	{0, 1, 5, 12}, {2, 5, 1, 8}, {4, 4, 9, 11}, {6, 3, 8, 10}, {3, 9, 7, 6},
	{5, 11, 1, 4}, {8, 5, 2, 12}, {9, 10, 0, 2}, {7, 1, 6, 7}, {3, 6, 4, 9},
	{0, 3, 8, 6}, {6, 4, 2, 7}, {1, 1, 9, 9}, {7, 10, 5, 2}, {4, 0, 3, 8},
	{6, 2, 0, 4}, {8, 11, 1, 0}, {9, 8, 3, 12}, {2, 6, 7, 7}, {5, 1, 4, 10},
	{1, 12, 6, 9}, {7, 3, 8, 0}, {5, 8, 9, 7}, {4, 6, 2, 10}, {3, 4, 0, 5},
	{8, 4, 5, 7}, {7, 11, 1, 9}, {6, 0, 9, 6}, {0, 6, 4, 8}, {2, 1, 3, 2},
	{5, 9, 8, 12}, {4, 11, 6, 1}, {9, 5, 7, 4}, {3, 3, 1, 2}, {0, 7, 2, 0},
	{9, 3, 4, 1}, {6, 10, 3, 5}, {8, 7, 9, 4}, {2, 11, 5, 6}, {0, 8, 7, 12},
	{4, 2, 8, 1}, {5, 10, 3, 0}, {1, 3, 0, 9}, {6, 5, 2, 4}, {7, 8, 1, 7},
	{5, 0, 4, 5}, {2, 3, 0, 10}, {6, 12, 9, 2}, {3, 11, 1, 6}, {8, 8, 7, 9},
	{5, 4, 0, 11}, {1, 5, 2, 2}, {9, 1, 4, 12}, {8, 3, 6, 6}, {7, 0, 3, 7},
	{4, 7, 7, 5}, {0, 12, 1, 11}, {2, 9, 9, 0}, {6, 8, 5, 3}, {3, 10, 8, 2},
}

// barsFrom renders the ten characters as the 65-bar A/D/F/T string.
func barsFrom(chars [10]uint16) string {
	out := make([]byte, 65)
	for i, m := range barMap {
		desc := chars[m[0]]>>m[1]&1 != 0
		asc := chars[m[2]]>>m[3]&1 != 0
		switch {
		case asc && desc:
			out[i] = 'F' // full bar
		case asc:
			out[i] = 'A'
		case desc:
			out[i] = 'D'
		default:
			out[i] = 'T' // tracker only
		}
	}
	return string(out)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
