package parser

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
	"github.com/schjonhaug/tezos-ledger-app-go/ui"
)

// Every reader returns the unread remainder first. Returned slices alias
// the input.

func take(in []byte, n int) ([]byte, []byte, error) {

	if n < 0 || len(in) < n {
		return in, nil, ErrUnexpectedBufferEnd
	}

	return in[n:], in[:n:n], nil

}

func readU8(in []byte) ([]byte, uint8, error) {

	rem, data, err := take(in, 1)
	if err != nil {
		return in, 0, err
	}

	return rem, data[0], nil

}

func readU16(in []byte) ([]byte, uint16, error) {

	rem, data, err := take(in, 2)
	if err != nil {
		return in, 0, err
	}

	return rem, binary.BigEndian.Uint16(data), nil

}

func readU32(in []byte) ([]byte, uint32, error) {

	rem, data, err := take(in, 4)
	if err != nil {
		return in, 0, err
	}

	return rem, binary.BigEndian.Uint32(data), nil

}

func readI32(in []byte) ([]byte, int32, error) {

	rem, value, err := readU32(in)

	return rem, int32(value), err

}

func readU64(in []byte) ([]byte, uint64, error) {

	rem, data, err := take(in, 8)
	if err != nil {
		return in, 0, err
	}

	return rem, binary.BigEndian.Uint64(data), nil

}

// readSized reads a u32 length followed by that many bytes.
func readSized(in []byte) ([]byte, []byte, error) {

	rem, size, err := readU32(in)
	if err != nil {
		return in, nil, err
	}

	if uint64(size) > uint64(len(rem)) {
		return in, nil, ErrUnexpectedBufferEnd
	}

	return take(rem, int(size))

}

func expectTag(in []byte, tag byte, mismatch error) ([]byte, error) {

	rem, found, err := readU8(in)
	if err != nil {
		return in, err
	}

	if found != tag {
		return in, mismatch
	}

	return rem, nil

}

// renderField pages the message of field n.
func renderField(field func(int) (string, string, error), item, page int) (string, string, int, error) {

	title, message, err := field(item)
	if err != nil {
		return "", "", 0, err
	}

	chunk, pages, err := ui.Page(message, page)

	return title, chunk, pages, err

}

func zarithField(title string, value Zarith) (string, string, error) {

	decimal, err := value.Decimal()
	if err != nil {
		return "", "", err
	}

	return title, decimal, nil

}

func hashHex(data []byte) string {

	return hex.EncodeToString(crypto.Sha256(data))

}

func itoa(value int64) string {

	return strconv.FormatInt(value, 10)

}
