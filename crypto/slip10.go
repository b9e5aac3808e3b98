package crypto

import (
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"
)

const (
	ed25519SeedKey = "ed25519 seed"
	p256SeedKey    = "Nist256p1 seed"
)

// slip10Node is a SLIP-10 extended private key.
type slip10Node struct {
	key       []byte
	chainCode []byte
}

func hmacSha512(key, data []byte) []byte {

	mac := hmac.New(sha512.New, key)
	mac.Write(data)

	return mac.Sum(nil)

}

func splitNode(digest []byte) slip10Node {

	return slip10Node{key: digest[:32], chainCode: digest[32:]}

}

// ed25519Derive walks path from seed. Ed25519 only has hardened
// derivation, so every component is hardened.
func ed25519Derive(seed []byte, path BIP32Path) slip10Node {

	node := splitNode(hmacSha512([]byte(ed25519SeedKey), seed))

	for _, component := range path.Components() {

		data := make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, node.key...)
		data = binary.BigEndian.AppendUint32(data, component|Hardened)

		node = splitNode(hmacSha512(node.chainCode, data))

	}

	return node

}

func p256Order() *big.Int {

	return elliptic.P256().Params().N

}

func validScalar(scalar *big.Int) bool {

	return scalar.Sign() > 0 && scalar.Cmp(p256Order()) < 0

}

// p256Derive walks path from seed on the NIST P-256 curve.
func p256Derive(seed []byte, path BIP32Path) (slip10Node, error) {

	digest := hmacSha512([]byte(p256SeedKey), seed)
	for !validScalar(new(big.Int).SetBytes(digest[:32])) {
		digest = hmacSha512([]byte(p256SeedKey), digest)
	}

	node := splitNode(digest)

	for _, component := range path.Components() {

		var data []byte

		if component&Hardened != 0 {
			data = append([]byte{0x00}, node.key...)
		} else {
			curve := elliptic.P256()
			x, y := curve.ScalarBaseMult(node.key)
			data = elliptic.MarshalCompressed(curve, x, y)
		}
		data = binary.BigEndian.AppendUint32(data, component)

		child, err := p256Child(node, data, component)
		if err != nil {
			return slip10Node{}, err
		}

		node = child

	}

	return node, nil

}

func p256Child(parent slip10Node, data []byte, component uint32) (slip10Node, error) {

	order := p256Order()
	parentKey := new(big.Int).SetBytes(parent.key)

	for attempt := 0; attempt < 16; attempt++ {

		digest := hmacSha512(parent.chainCode, data)

		tweak := new(big.Int).SetBytes(digest[:32])
		childKey := new(big.Int).Add(tweak, parentKey)
		childKey.Mod(childKey, order)

		if tweak.Cmp(order) < 0 && childKey.Sign() != 0 {
			return slip10Node{key: childKey.FillBytes(make([]byte, 32)), chainCode: digest[32:]}, nil
		}

		data = append([]byte{0x01}, digest[32:]...)
		data = binary.BigEndian.AppendUint32(data, component)

	}

	return slip10Node{}, fmt.Errorf("p256 derivation of component %08x did not converge", component)

}
