package crypto

import (
	"crypto/elliptic"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PublicKey is a key in the form the device returns it:
// 0x02 followed by the 32 key bytes for Ed25519, or the 33 byte
// compressed point for the ECDSA curves.
type PublicKey struct {
	Curve Curve
	Bytes []byte
}

// Hash is the Blake2b-160 digest identifying the implicit account.
func (pk PublicKey) Hash() []byte {

	if pk.Curve.IsEd25519() {
		return Blake2b160(pk.Bytes[1:])
	}

	return Blake2b160(pk.Bytes)

}

// Base58 returns the edpk/sppk/p2pk form of the key.
func (pk PublicKey) Base58() string {

	if pk.Curve.IsEd25519() {
		return Base58Check(pk.Curve.PublicKeyPrefix(), pk.Bytes[1:])
	}

	return Base58Check(pk.Curve.PublicKeyPrefix(), pk.Bytes)

}

// CompressPublicKey returns the compressed form of an uncompressed
// (65 byte) ECDSA key. Compressed keys are validated and returned as is.
func CompressPublicKey(curve Curve, key []byte) ([]byte, error) {

	switch curve {

	case Secp256K1:

		parsed, err := secp256k1.ParsePubKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing secp256k1 key: %w", err)
		}

		return parsed.SerializeCompressed(), nil

	case Secp256R1:

		if len(key) == 33 {
			if x, _ := elliptic.UnmarshalCompressed(elliptic.P256(), key); x == nil {
				return nil, fmt.Errorf("invalid compressed p256 key")
			}
			return key, nil
		}

		x, y := elliptic.Unmarshal(elliptic.P256(), key)
		if x == nil {
			return nil, fmt.Errorf("invalid p256 key")
		}

		return elliptic.MarshalCompressed(elliptic.P256(), x, y), nil

	}

	return nil, fmt.Errorf("%s keys are not compressed", curve)

}
