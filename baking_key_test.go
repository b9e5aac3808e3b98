package tezos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
	"github.com/schjonhaug/tezos-ledger-app-go/crypto"
)

func TestBakingKeyCodec(t *testing.T) {

	path, err := crypto.NewBIP32Path(0x8000002c, 0x800006c1, 0x80000000)
	require.NoError(t, err)

	key := BakingKey{Curve: crypto.Secp256K1, Path: path}
	encoded := encodeBakingKey(key)

	assert.Equal(t, byte(bakingKeyMarker), encoded[0])
	assert.Equal(t, byte(crypto.Secp256K1), encoded[1])
	assert.Equal(t, byte(3), encoded[2])

	decoded, err := decodeBakingKey(encoded)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, decoded.Equal(key.Curve, key.Path))

	empty, err := decodeBakingKey([bolos.SlotSize]byte{})
	require.NoError(t, err)
	assert.Nil(t, empty)

	long := encoded
	long[2] = 11
	_, err = decodeBakingKey(long)
	assert.ErrorIs(t, err, WrongLength)

	badCurve := encoded
	badCurve[1] = 9
	_, err = decodeBakingKey(badCurve)
	assert.ErrorIs(t, err, DataInvalid)

}

func TestBakingKeyStore(t *testing.T) {

	storage, err := bolos.OpenStorage("")
	require.NoError(t, err)
	defer storage.Close()

	store, err := OpenBakingKeyStore(storage)
	require.NoError(t, err)

	key, err := store.Read()
	require.NoError(t, err)
	assert.Nil(t, key)

	path, err := crypto.NewBIP32Path(0x8000002c, 0x800006c1)
	require.NoError(t, err)

	require.NoError(t, store.Store(BakingKey{Curve: crypto.Ed25519, Path: path}))

	reopened, err := OpenBakingKeyStore(storage)
	require.NoError(t, err)

	key, err = reopened.Read()
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.True(t, key.Equal(crypto.Ed25519, path))
	assert.False(t, key.Equal(crypto.Secp256R1, path))

	require.NoError(t, reopened.Remove())

	key, err = reopened.Read()
	require.NoError(t, err)
	assert.Nil(t, key)

}
