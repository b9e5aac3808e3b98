package hwm

import (
	"encoding/binary"
	"log/slog"

	"github.com/schjonhaug/tezos-ledger-app-go/bolos"
)

const (
	// NPages is the number of pages of each ring.
	NPages = 8

	MainLevelLength = 4
	AllLength       = 12
)

// Ring selects the main chain or the test chain mark.
type Ring int

const (
	MainRing Ring = iota
	TestRing
)

func (ring Ring) String() string {

	if ring == TestRing {
		return "test"
	}

	return "main"

}

// Store persists the main and test chain marks. The chain id the baker
// was set up for lives in the main record.
type Store struct {
	main *bolos.Wear
	test *bolos.Wear
}

func NewStore(main, test *bolos.Wear) *Store {

	return &Store{main: main, test: test}

}

// OpenStore opens both rings on backend.
func OpenStore(backend bolos.Storage) (*Store, error) {

	main, err := bolos.OpenWear("hwm_main", NPages, backend)
	if err != nil {
		return nil, err
	}

	test, err := bolos.OpenWear("hwm_test", NPages, backend)
	if err != nil {
		return nil, err
	}

	return NewStore(main, test), nil

}

func (store *Store) wear(ring Ring) *bolos.Wear {

	if ring == TestRing {
		return store.test
	}

	return store.main

}

func (store *Store) read(ring Ring) (record, error) {

	data, err := store.wear(ring).Read()
	if err != nil {
		return record{}, err
	}

	return decodeRecord(data)

}

// Get returns the mark of ring.
func (store *Store) Get(ring Ring) (WaterMark, error) {

	r, err := store.read(ring)

	return r.mark, err

}

func (store *Store) Main() (WaterMark, error) {

	return store.Get(MainRing)

}

func (store *Store) Test() (WaterMark, error) {

	return store.Get(TestRing)

}

// Write replaces the mark of ring, keeping the stored chain id.
func (store *Store) Write(ring Ring, mark WaterMark) error {

	r := record{mark: mark}

	if ring == MainRing {
		if current, err := store.read(MainRing); err == nil {
			r.chain, r.hasChain = current.chain, current.hasChain
		}
	}

	encoded := r.encode()
	if err := store.wear(ring).Write(encoded); err != nil {
		return err
	}

	slog.Debug("HWM", "Ring", ring.String(), "Mark", mark.String())

	return nil

}

// ChainID returns the configured chain, Mainnet when never set up.
func (store *Store) ChainID() ChainID {

	r, err := store.read(MainRing)
	if err != nil || !r.hasChain {
		return Mainnet
	}

	return r.chain

}

// RingFor picks the ring a message for chain id is checked against.
func (store *Store) RingFor(id uint32) Ring {

	if store.ChainID().Matches(id) {
		return MainRing
	}

	return TestRing

}

// Reset writes a fresh mark at level on both rings.
func (store *Store) Reset(level uint32) error {

	if err := store.Write(MainRing, Reset(level)); err != nil {
		return err
	}

	return store.Write(TestRing, Reset(level))

}

// Setup stores chain and resets both rings to the given levels.
func (store *Store) Setup(chain ChainID, mainLevel, testLevel uint32) error {

	main := record{mark: Reset(mainLevel), chain: chain, hasChain: true}

	if err := store.main.Write(main.encode()); err != nil {
		return err
	}

	slog.Debug("HWM", "Chain", chain.String(), "Main", mainLevel, "Test", testLevel)

	return store.Write(TestRing, Reset(testLevel))

}

// MainLevel returns the main level, big endian.
func (store *Store) MainLevel() ([MainLevelLength]byte, error) {

	var out [MainLevelLength]byte

	main, err := store.Main()
	if err != nil {
		return out, err
	}

	binary.BigEndian.PutUint32(out[:], main.Level)

	return out, nil

}

// All returns main level, test level and chain id, big endian.
func (store *Store) All() ([AllLength]byte, error) {

	var out [AllLength]byte

	main, err := store.Main()
	if err != nil {
		return out, err
	}

	test, err := store.Test()
	if err != nil {
		return out, err
	}

	binary.BigEndian.PutUint32(out[0:4], main.Level)
	binary.BigEndian.PutUint32(out[4:8], test.Level)
	binary.BigEndian.PutUint32(out[8:12], uint32(store.ChainID()))

	return out, nil

}

// Format wipes both rings.
func (store *Store) Format() error {

	if err := store.main.Format(); err != nil {
		return err
	}

	return store.test.Format()

}
