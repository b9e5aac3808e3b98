package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Base58 prefixes.
var (
	PrefixTz1       = []byte{6, 161, 159}
	PrefixTz2       = []byte{6, 161, 161}
	PrefixTz3       = []byte{6, 161, 164}
	PrefixKT1       = []byte{2, 90, 121}
	PrefixBlock     = []byte{1, 52}
	PrefixOperation = []byte{5, 116}
	PrefixProtocol  = []byte{2, 170}
	PrefixChainID   = []byte{87, 82, 0}
	PrefixEdpk      = []byte{13, 15, 37, 217}
	PrefixSppk      = []byte{3, 254, 226, 86}
	PrefixP2pk      = []byte{3, 178, 139, 127}
)

const (
	checksumSize = 4

	// HashSize is the length of a public key or contract hash.
	HashSize = 20
)

var ErrChecksum = errors.New("base58 checksum mismatch")

// Base58Check encodes prefix, payload and the first 4 bytes of their
// double SHA-256.
func Base58Check(prefix, payload []byte) string {

	data := make([]byte, 0, len(prefix)+len(payload)+checksumSize)
	data = append(data, prefix...)
	data = append(data, payload...)
	data = append(data, DoubleSha256(data)[:checksumSize]...)

	return base58.Encode(data)

}

// DecodeBase58Check reverses Base58Check, verifying prefix and checksum.
func DecodeBase58Check(text string, prefix []byte) ([]byte, error) {

	data := base58.Decode(text)
	if len(data) < len(prefix)+checksumSize {
		return nil, fmt.Errorf("base58 string %q too short", text)
	}

	body, checksum := data[:len(data)-checksumSize], data[len(data)-checksumSize:]
	if !bytes.Equal(DoubleSha256(body)[:checksumSize], checksum) {
		return nil, ErrChecksum
	}

	if !bytes.HasPrefix(body, prefix) {
		return nil, fmt.Errorf("base58 string %q has the wrong prefix", text)
	}

	return body[len(prefix):], nil

}

// Address is the base58check form of a public key hash.
type Address struct {
	prefix []byte
	hash   []byte
}

// NewAddress hashes pk into its implicit account address.
func NewAddress(pk PublicKey) Address {

	return Address{prefix: pk.Curve.HashPrefix(), hash: pk.Hash()}

}

// AddressFromHash builds the implicit account address of an already
// hashed key.
func AddressFromHash(hash []byte, curve Curve) Address {

	return Address{prefix: curve.HashPrefix(), hash: hash}

}

// ContractAddress builds a KT1 address.
func ContractAddress(hash []byte) Address {

	return Address{prefix: PrefixKT1, hash: hash}

}

func (address Address) Hash() []byte {

	return address.hash

}

func (address Address) Base58() string {

	return Base58Check(address.prefix, address.hash)

}

func (address Address) String() string {

	return address.Base58()

}
