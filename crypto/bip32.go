package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// BIP32MaxLength is the deepest path accepted.
	BIP32MaxLength = 10

	// Hardened is the bit marking a hardened path component.
	Hardened uint32 = 0x80000000
)

var ErrInvalidPath = errors.New("invalid bip32 path")

// BIP32Path is a sequence of derivation components.
type BIP32Path struct {
	components []uint32
}

// NewBIP32Path builds a path from components.
func NewBIP32Path(components ...uint32) (BIP32Path, error) {

	if len(components) == 0 || len(components) > BIP32MaxLength {
		return BIP32Path{}, fmt.Errorf("%w: %d components", ErrInvalidPath, len(components))
	}

	return BIP32Path{components: append([]uint32(nil), components...)}, nil

}

// ReadBIP32Path decodes count (u8) followed by count big endian u32.
// The input must hold exactly that many bytes.
func ReadBIP32Path(data []byte, max int) (BIP32Path, error) {

	if len(data) == 0 {
		return BIP32Path{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	count := int(data[0])

	if count == 0 || count > max {
		return BIP32Path{}, fmt.Errorf("%w: %d components, max %d", ErrInvalidPath, count, max)
	}

	if len(data)-1 != count*4 {
		return BIP32Path{}, fmt.Errorf("%w: %d bytes for %d components", ErrInvalidPath, len(data)-1, count)
	}

	components := make([]uint32, count)
	for i := range components {
		components[i] = binary.BigEndian.Uint32(data[1+i*4:])
	}

	return BIP32Path{components: components}, nil

}

// Components returns the path components.
func (path BIP32Path) Components() []uint32 {

	return path.components

}

// Len returns the number of components.
func (path BIP32Path) Len() int {

	return len(path.components)

}

// Bytes encodes the path as ReadBIP32Path expects it.
func (path BIP32Path) Bytes() []byte {

	out := make([]byte, 1, 1+4*len(path.components))
	out[0] = byte(len(path.components))

	for _, component := range path.components {
		out = binary.BigEndian.AppendUint32(out, component)
	}

	return out

}

func (path BIP32Path) Equal(other BIP32Path) bool {

	if len(path.components) != len(other.components) {
		return false
	}

	for i := range path.components {
		if path.components[i] != other.components[i] {
			return false
		}
	}

	return true

}

func (path BIP32Path) String() string {

	var builder strings.Builder
	builder.WriteString("m")

	for _, component := range path.components {
		builder.WriteString("/")
		builder.WriteString(strconv.FormatUint(uint64(component&^Hardened), 10))
		if component&Hardened != 0 {
			builder.WriteString("'")
		}
	}

	return builder.String()

}

// ParseBIP32Path parses the textual m/44'/1729'/0'/0' form.
func ParseBIP32Path(text string) (BIP32Path, error) {

	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) < 2 || parts[0] != "m" {
		return BIP32Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, text)
	}

	components := make([]uint32, 0, len(parts)-1)

	for _, part := range parts[1:] {

		var hardened uint32
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = Hardened
			part = part[:len(part)-1]
		}

		value, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return BIP32Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, text)
		}

		components = append(components, uint32(value)|hardened)

	}

	return NewBIP32Path(components...)

}
