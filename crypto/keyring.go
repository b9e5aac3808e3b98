package crypto

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	lru "github.com/hashicorp/golang-lru"
)

const keyCacheSize = 32

// Signer derives keys and signs with them.
type Signer interface {
	PublicKey(curve Curve, path BIP32Path) (PublicKey, error)
	Sign(curve Curve, path BIP32Path, data []byte) ([]byte, error)
}

type derivedKey struct {
	publicKey PublicKey
	sign      func(data []byte) ([]byte, error)
}

// Keyring derives every key from a single seed.
type Keyring struct {
	seed   []byte
	master *hdkeychain.ExtendedKey
	cache  *lru.Cache
}

func NewKeyring(seed []byte) (*Keyring, error) {

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	cache, err := lru.New(keyCacheSize)
	if err != nil {
		return nil, err
	}

	return &Keyring{
		seed:   append([]byte(nil), seed...),
		master: master,
		cache:  cache,
	}, nil

}

func (keyring *Keyring) PublicKey(curve Curve, path BIP32Path) (PublicKey, error) {

	key, err := keyring.derive(curve, path)
	if err != nil {
		return PublicKey{}, err
	}

	return key.publicKey, nil

}

// Sign signs data, usually a digest. Ed25519 returns the 64 byte
// signature, the ECDSA curves a DER encoded one.
func (keyring *Keyring) Sign(curve Curve, path BIP32Path, data []byte) ([]byte, error) {

	key, err := keyring.derive(curve, path)
	if err != nil {
		return nil, err
	}

	return key.sign(data)

}

func (keyring *Keyring) derive(curve Curve, path BIP32Path) (*derivedKey, error) {

	if path.Len() == 0 {
		return nil, ErrInvalidPath
	}

	cacheKey := fmt.Sprintf("%d:%x", curve, path.Bytes())

	if cached, ok := keyring.cache.Get(cacheKey); ok {
		return cached.(*derivedKey), nil
	}

	var key *derivedKey
	var err error

	switch curve {
	case Ed25519, Bip32Ed25519:
		key = keyring.deriveEd25519(curve, path)
	case Secp256K1:
		key, err = keyring.deriveSecp256k1(path)
	case Secp256R1:
		key, err = keyring.deriveP256(path)
	default:
		err = fmt.Errorf("unknown curve %d", curve)
	}

	if err != nil {
		return nil, err
	}

	slog.Debug("DERIVE", "Curve", curve.String(), "Path", path.String())
	keyring.cache.Add(cacheKey, key)

	return key, nil

}

func (keyring *Keyring) deriveEd25519(curve Curve, path BIP32Path) *derivedKey {

	node := ed25519Derive(keyring.seed, path)
	private := ed25519.NewKeyFromSeed(node.key)
	public := private.Public().(ed25519.PublicKey)

	return &derivedKey{
		publicKey: PublicKey{Curve: curve, Bytes: append([]byte{0x02}, public...)},
		sign: func(data []byte) ([]byte, error) {
			return ed25519.Sign(private, data), nil
		},
	}

}

func (keyring *Keyring) deriveSecp256k1(path BIP32Path) (*derivedKey, error) {

	extendedKey := keyring.master

	for _, component := range path.Components() {

		child, err := extendedKey.Derive(component)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", path, err)
		}

		extendedKey = child

	}

	private, err := extendedKey.ECPrivKey()
	if err != nil {
		return nil, err
	}

	return &derivedKey{
		publicKey: PublicKey{Curve: Secp256K1, Bytes: private.PubKey().SerializeCompressed()},
		sign: func(data []byte) ([]byte, error) {
			return signSecp256k1(private, data)
		},
	}, nil

}

func signSecp256k1(private *btcec.PrivateKey, data []byte) ([]byte, error) {

	if len(data) != 32 {
		return nil, errors.New("secp256k1 signs 32 byte digests only")
	}

	return btcecdsa.Sign(private, data).Serialize(), nil

}

func (keyring *Keyring) deriveP256(path BIP32Path) (*derivedKey, error) {

	node, err := p256Derive(keyring.seed, path)
	if err != nil {
		return nil, err
	}

	curve := elliptic.P256()

	private := &ecdsa.PrivateKey{D: new(big.Int).SetBytes(node.key)}
	private.PublicKey.Curve = curve
	private.PublicKey.X, private.PublicKey.Y = curve.ScalarBaseMult(node.key)

	return &derivedKey{
		publicKey: PublicKey{Curve: Secp256R1, Bytes: elliptic.MarshalCompressed(curve, private.PublicKey.X, private.PublicKey.Y)},
		sign: func(data []byte) ([]byte, error) {
			return ecdsa.SignASN1(rand.Reader, private, data)
		},
	}, nil

}
