package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

// Hasher is an incremental digest.
type Hasher interface {
	Write(data []byte)
	Sum() []byte
	Reset()
}

type hasher struct {
	inner hash.Hash
}

func (h *hasher) Write(data []byte) {

	// hash.Hash never returns an error on Write
	h.inner.Write(data)

}

func (h *hasher) Sum() []byte {

	return h.inner.Sum(nil)

}

func (h *hasher) Reset() {

	h.inner.Reset()

}

// NewBlake2b256 returns an unkeyed Blake2b hasher with a 32 byte output.
func NewBlake2b256() Hasher {

	inner, _ := blake2b.New256(nil)

	return &hasher{inner: inner}

}

// NewSha256 returns a SHA-256 hasher.
func NewSha256() Hasher {

	return &hasher{inner: sha256.New()}

}

func Blake2b256(data []byte) []byte {

	digest := blake2b.Sum256(data)

	return digest[:]

}

// Blake2b160 is the 20 byte Blake2b digest used for public key hashes.
func Blake2b160(data []byte) []byte {

	inner, _ := blake2b.New(20, nil)
	inner.Write(data)

	return inner.Sum(nil)

}

func Sha256(data []byte) []byte {

	digest := sha256.Sum256(data)

	return digest[:]

}

func Sha512(data []byte) []byte {

	digest := sha512.Sum512(data)

	return digest[:]

}

func DoubleSha256(data []byte) []byte {

	return chainhash.DoubleHashB(data)

}
