package crypto

import "fmt"

// Curve selects the signing scheme and derivation of a key.
type Curve uint8

const (
	Ed25519 Curve = iota
	Secp256K1
	Secp256R1
	Bip32Ed25519
)

// CurveFromByte decodes the curve carried in P2 or in stored records.
func CurveFromByte(b byte) (Curve, error) {

	if b > byte(Bip32Ed25519) {
		return 0, fmt.Errorf("unknown curve %d", b)
	}

	return Curve(b), nil

}

func (curve Curve) String() string {

	switch curve {
	case Ed25519:
		return "Ed25519"
	case Secp256K1:
		return "Secp256K1"
	case Secp256R1:
		return "Secp256R1"
	case Bip32Ed25519:
		return "Bip32Ed25519"
	}

	return fmt.Sprintf("Curve(%d)", uint8(curve))

}

// IsEd25519 reports whether curve signs with Ed25519.
func (curve Curve) IsEd25519() bool {

	return curve == Ed25519 || curve == Bip32Ed25519

}

// HashPrefix is the base58 prefix of the implicit account of curve.
func (curve Curve) HashPrefix() []byte {

	switch curve {
	case Secp256K1:
		return PrefixTz2
	case Secp256R1:
		return PrefixTz3
	}

	return PrefixTz1

}

// PublicKeyPrefix is the base58 prefix of a public key of curve.
func (curve Curve) PublicKeyPrefix() []byte {

	switch curve {
	case Secp256K1:
		return PrefixSppk
	case Secp256R1:
		return PrefixP2pk
	}

	return PrefixEdpk

}
