package parser

import (
	"strconv"

	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

const (
	zarithContinue = 0x80
	zarithSign     = 0x40
)

// Zarith is a variable length integer: groups of 7 bits, least
// significant first, high bit set on every byte but the last. A signed
// Zarith keeps its sign in bit 6 of the first byte, which then carries
// only 6 data bits.
type Zarith struct {
	Bytes  []byte
	signed bool
}

// ParseZarith reads one Zarith from in.
func ParseZarith(in []byte, signed bool) ([]byte, Zarith, error) {

	for i, b := range in {
		if b&zarithContinue == 0 {
			return in[i+1:], Zarith{Bytes: in[: i+1 : i+1], signed: signed}, nil
		}
	}

	return in, Zarith{}, ErrUnexpectedBufferEnd

}

func parseNatural(in []byte) ([]byte, Zarith, error) {

	return ParseZarith(in, false)

}

// IsNegative returns the sign and whether the value carries one.
func (zarith Zarith) IsNegative() (negative bool, signed bool) {

	if !zarith.signed || len(zarith.Bytes) == 0 {
		return false, zarith.signed
	}

	return zarith.Bytes[0]&zarithSign != 0, true

}

// ReadAs decodes the magnitude into an integer of bits width, reporting
// false on overflow.
func (zarith Zarith) ReadAs(bits int) (uint64, bool) {

	if bits <= 0 || bits > 64 {
		return 0, false
	}

	var value uint64
	shift := 0

	for i, b := range zarith.Bytes {

		chunk, width := uint64(b&0x7F), 7
		if i == 0 && zarith.signed {
			chunk, width = uint64(b&0x3F), 6
		}

		if chunk != 0 {
			if shift >= bits {
				return 0, false
			}
			if bits-shift < 64 && chunk>>(bits-shift) != 0 {
				return 0, false
			}
			value |= chunk << shift
		}

		shift += width

	}

	return value, true

}

func (zarith Zarith) Uint64() (uint64, bool) {

	return zarith.ReadAs(64)

}

// Decimal renders the value for display.
func (zarith Zarith) Decimal() (string, error) {

	value, ok := zarith.Uint64()
	if !ok {
		return "", ui.ErrUnknown
	}

	text := strconv.FormatUint(value, 10)

	if negative, _ := zarith.IsNegative(); negative {
		text = "-" + text
	}

	return text, nil

}

func (zarith Zarith) String() string {

	text, err := zarith.Decimal()
	if err != nil {
		return "?"
	}

	return text

}

// EncodeZarith encodes an unsigned value.
func EncodeZarith(value uint64) []byte {

	var out []byte

	for {

		b := byte(value & 0x7F)
		value >>= 7

		if value == 0 {
			return append(out, b)
		}

		out = append(out, b|zarithContinue)

	}

}
