package tezos

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

// hmacKeySeed is signed to derive the HMAC key of a path.
var hmacKeySeed = []byte{
	0x6c, 0x4e, 0x7e, 0x70, 0x6c, 0x54, 0xd3, 0x67, 0xc8, 0x7a, 0x8d, 0x89, 0xc1, 0x6a, 0xdf, 0xe0,
	0x6c, 0xb5, 0x68, 0x0c, 0xb7, 0xd1, 0x8e, 0x62, 0x5a, 0x90, 0x47, 0x5e, 0xc0, 0xdb, 0xdb, 0x9f,
}

// derivedHMAC is HMAC-SHA256 of message keyed with the SHA-512 of the
// signature of hmacKeySeed.
func derivedHMAC(signer crypto.Signer, curve crypto.Curve, path crypto.BIP32Path, message []byte) ([]byte, error) {

	signature, err := signer.Sign(curve, path, hmacKeySeed)
	if err != nil {
		return nil, fmt.Errorf("signing hmac key: %w", err)
	}

	mac := hmac.New(sha256.New, crypto.Sha512(signature))
	mac.Write(message)

	return mac.Sum(nil), nil

}

// handleHMAC takes the key path followed by the message.
func handleHMAC(ctx context.Context, app *App, request *request, out []byte) (int, error) {

	curve, err := parseCurve(request.P2)
	if err != nil {
		return 0, err
	}

	data := request.Data
	if len(data) == 0 {
		return 0, DataInvalid
	}

	pathLength := 1 + 4*int(data[0])
	if len(data) < pathLength {
		return 0, DataInvalid
	}

	path, err := parsePath(data[:pathLength], crypto.BIP32MaxLength)
	if err != nil {
		return 0, err
	}

	digest, err := derivedHMAC(app.signer, curve, path, data[pathLength:])
	if err != nil {
		return 0, err
	}

	return put(out, digest)

}
