package bolos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadOf(b byte) [SlotSize]byte {

	var payload [SlotSize]byte
	for i := range payload {
		payload[i] = b
	}

	return payload

}

func newTestWear(t *testing.T, slots int) *Wear {

	t.Helper()

	wear, err := OpenWear("wear", slots, nil)
	require.NoError(t, err)

	return wear

}

func TestWearFreshRing(t *testing.T) {

	wear := newTestWear(t, 2)

	assert.Equal(t, 2, wear.Slots())
	assert.Zero(t, wear.Counter())

	_, err := wear.Read()
	assert.True(t, IsUninitialized(err))

}

func TestWearWrapsAround(t *testing.T) {

	for slots := 1; slots <= 8; slots++ {

		wear := newTestWear(t, slots)

		for k := 0; k < slots+3; k++ {
			require.NoError(t, wear.Write(payloadOf(byte(k))))
		}

		payload, err := wear.Read()
		require.NoError(t, err)
		assert.Equal(t, payloadOf(byte(slots+2)), payload)
		assert.Equal(t, uint64(slots+3), wear.Counter())

	}

}

func TestWearFormat(t *testing.T) {

	wear := newTestWear(t, 1)

	require.NoError(t, wear.Write(payloadOf(42)))
	require.NoError(t, wear.Write(payloadOf(24)))
	assert.Equal(t, uint64(2), wear.Counter())

	require.NoError(t, wear.Format())
	assert.Zero(t, wear.Counter())

	_, err := wear.Read()
	assert.True(t, IsUninitialized(err))

}

func TestWearRealignsFromStorage(t *testing.T) {

	backend, err := OpenStorage("")
	require.NoError(t, err)
	defer backend.Close()

	wear, err := OpenWear("hwm", 4, backend)
	require.NoError(t, err)

	for k := 0; k < 6; k++ {
		require.NoError(t, wear.Write(payloadOf(byte(k))))
	}

	reopened, err := OpenWear("hwm", 4, backend)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), reopened.Counter())

	payload, err := reopened.Read()
	require.NoError(t, err)
	assert.Equal(t, payloadOf(5), payload)

	require.NoError(t, reopened.Write(payloadOf(9)))
	payload, err = reopened.Read()
	require.NoError(t, err)
	assert.Equal(t, payloadOf(9), payload)

}

func TestWearCorruption(t *testing.T) {

	wear := newTestWear(t, 4)

	for k := 1; k <= 3; k++ {
		require.NoError(t, wear.Write(payloadOf(byte(k))))
	}

	// flip a payload bit of an older page, current one stays readable
	older := 1 * PageSize
	require.NoError(t, wear.nvm.Write(older+counterSize, []byte{wear.nvm.Read()[older+counterSize] ^ 0x01}))

	payload, err := wear.Read()
	require.NoError(t, err)
	assert.Equal(t, payloadOf(3), payload)

	// and now the current one
	current := 3 * PageSize
	require.NoError(t, wear.nvm.Write(current+counterSize, []byte{wear.nvm.Read()[current+counterSize] ^ 0x01}))

	_, err = wear.Read()
	var wearError *WearError
	require.ErrorAs(t, err, &wearError)
	assert.Equal(t, WearCrc, wearError.Kind)

	_, err = NewWear(wear.nvm)
	require.ErrorAs(t, err, &wearError)
	assert.Equal(t, WearCrc, wearError.Kind)

}

type failingStorage struct{}

func (failingStorage) Load(string) ([]byte, error) { return nil, nil }

func (failingStorage) Save(string, []byte) error { return errors.New("flash fault") }

func (failingStorage) Close() error { return nil }

func TestWearWriteFault(t *testing.T) {

	wear, err := OpenWear("wear", 2, failingStorage{})
	require.NoError(t, err)

	err = wear.Write(payloadOf(1))

	var wearError *WearError
	require.ErrorAs(t, err, &wearError)
	assert.Equal(t, WearNVMWrite, wearError.Kind)
	assert.Zero(t, wear.Counter())

}

func TestNVMBounds(t *testing.T) {

	nvm, err := NewNVM("bounds", 4, nil)
	require.NoError(t, err)

	require.NoError(t, nvm.Write(2, []byte{1, 2}))
	assert.Equal(t, []byte{0, 0, 1, 2}, nvm.Read())

	var overflowError *OverflowError
	require.ErrorAs(t, nvm.Write(3, []byte{1, 2}), &overflowError)
	assert.Equal(t, 4, overflowError.Max)
	assert.Equal(t, 5, overflowError.Got)

	nvm, err = NewNVM("fault", 4, failingStorage{})
	require.NoError(t, err)
	assert.ErrorIs(t, nvm.Write(0, []byte{1}), ErrNVMInternal)
	assert.Equal(t, []byte{0, 0, 0, 0}, nvm.Read())

}

func TestCatch(t *testing.T) {

	err := Catch(func() { Throw(ExceptionPaging) })
	assert.Equal(t, ExceptionPaging, err)

	assert.NoError(t, Catch(func() {}))

	assert.Panics(t, func() {
		_ = Catch(func() { panic("not an exception") })
	})

	exception, ok := ExceptionFromCode(13)
	assert.True(t, ok)
	assert.Equal(t, ExceptionNotEnoughSpace, exception)

	_, ok = ExceptionFromCode(0)
	assert.False(t, ok)

}
