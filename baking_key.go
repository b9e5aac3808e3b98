package tezos

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

const (
	bakingKeyRegion = "baking_key"
	bakingKeyPages  = 1
	// bakingKeyMarker flags a record holding a key.
	bakingKeyMarker = 42
)

// BakingKey is the key authorized for baking.
type BakingKey struct {
	Curve crypto.Curve
	Path  crypto.BIP32Path
}

func (key BakingKey) Equal(curve crypto.Curve, path crypto.BIP32Path) bool {

	return key.Curve == curve && key.Path.Equal(path)

}

// encodeBakingKey lays the key out as marker, curve, count and the
// components big endian.
func encodeBakingKey(key BakingKey) [bolos.SlotSize]byte {

	var out [bolos.SlotSize]byte

	out[0] = bakingKeyMarker
	out[1] = byte(key.Curve)

	components := key.Path.Components()
	out[2] = byte(len(components))

	for i, component := range components {
		binary.BigEndian.PutUint32(out[3+4*i:], component)
	}

	return out

}

// decodeBakingKey returns nil for an empty record.
func decodeBakingKey(data [bolos.SlotSize]byte) (*BakingKey, error) {

	if data[0] == 0 {
		return nil, nil
	}

	curve, err := crypto.CurveFromByte(data[1])
	if err != nil {
		return nil, DataInvalid
	}

	count := int(data[2])
	if count > crypto.BIP32MaxLength {
		return nil, WrongLength
	}

	path, err := crypto.ReadBIP32Path(data[2:3+4*count], crypto.BIP32MaxLength)
	if err != nil {
		return nil, DataInvalid
	}

	return &BakingKey{Curve: curve, Path: path}, nil

}

// BakingKeyStore keeps the authorized baking key in its own ring.
type BakingKeyStore struct {
	wear *bolos.Wear
}

func OpenBakingKeyStore(backend bolos.Storage) (*BakingKeyStore, error) {

	wear, err := bolos.OpenWear(bakingKeyRegion, bakingKeyPages, backend)
	if err != nil {
		return nil, err
	}

	return &BakingKeyStore{wear: wear}, nil

}

func (store *BakingKeyStore) Store(key BakingKey) error {

	if err := store.wear.Write(encodeBakingKey(key)); err != nil {
		return fmt.Errorf("storing baking key: %w", err)
	}

	slog.Debug("BAKING KEY", "Curve", key.Curve.String(), "Path", key.Path.String())

	return nil

}

func (store *BakingKeyStore) Remove() error {

	if err := store.wear.Write([bolos.SlotSize]byte{}); err != nil {
		return fmt.Errorf("removing baking key: %w", err)
	}

	slog.Debug("BAKING KEY", "Removed", true)

	return nil

}

// Read returns the authorized key, nil when there is none.
func (store *BakingKeyStore) Read() (*BakingKey, error) {

	data, err := store.wear.Read()
	if bolos.IsUninitialized(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeBakingKey(data)

}
