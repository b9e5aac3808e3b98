package bolos

import (
	"errors"
	"fmt"
	"log/slog"
)

// Wear spreads writes of a SlotSize payload round robin over the pages
// of an NVM region. The page holding the highest counter is current.
type Wear struct {
	nvm     *NVM
	slots   int
	counter uint64
}

// NewWear scans every page of nvm. A page failing its CRC fails the scan.
func NewWear(nvm *NVM) (*Wear, error) {

	if nvm.Len() == 0 || nvm.Len()%PageSize != 0 {
		return nil, fmt.Errorf("wear: region %s of %d bytes is not a whole number of pages", nvm.Name(), nvm.Len())
	}

	wear := &Wear{nvm: nvm, slots: nvm.Len() / PageSize}

	if err := wear.align(); err != nil {
		return nil, err
	}

	return wear, nil

}

// OpenWear opens a ring of slots pages named name, formatted when new.
func OpenWear(name string, slots int, backend Storage) (*Wear, error) {

	nvm, err := NewNVMWithDefault(name, ZeroedPages(slots), backend)
	if err != nil {
		return nil, err
	}

	return NewWear(nvm)

}

func (wear *Wear) align() error {

	var max uint64

	for i := 0; i < wear.slots; i++ {

		decoded, err := decodePage(wear.pageBytes(i))
		if err != nil {
			slog.Error("Wear page corrupted", "Region", wear.nvm.Name(), "Page", i, "Error", err)
			return err
		}

		if decoded.counter > max {
			max = decoded.counter
		}

	}

	wear.counter = max

	return nil

}

func (wear *Wear) pageBytes(index int) []byte {

	return wear.nvm.Read()[index*PageSize : (index+1)*PageSize]

}

func (wear *Wear) index() int {

	return int(wear.counter % uint64(wear.slots))

}

func (wear *Wear) writePage(index int, counter uint64, payload [SlotSize]byte) error {

	storage := encodePage(counter, payload)

	if err := wear.nvm.Write(index*PageSize, storage[:]); err != nil {
		if errors.Is(err, ErrNVMInternal) {
			return &WearError{Kind: WearNVMWrite}
		}
		return err
	}

	return nil

}

// Write stores payload in the next page with an incremented counter.
func (wear *Wear) Write(payload [SlotSize]byte) error {

	next := wear.counter + 1

	if err := wear.writePage(int(next%uint64(wear.slots)), next, payload); err != nil {
		return err
	}

	wear.counter = next

	return nil

}

// Read returns the payload of the current page.
func (wear *Wear) Read() ([SlotSize]byte, error) {

	decoded, err := decodePage(wear.pageBytes(wear.index()))
	if err != nil {
		return [SlotSize]byte{}, err
	}

	if decoded.counter == 0 {
		return [SlotSize]byte{}, &WearError{Kind: WearUninitialized}
	}

	return decoded.payload, nil

}

// Format resets every page to counter 0 with a valid CRC.
func (wear *Wear) Format() error {

	for i := 0; i < wear.slots; i++ {
		if err := wear.writePage(i, 0, [SlotSize]byte{}); err != nil {
			return err
		}
	}

	wear.counter = 0

	return nil

}

func (wear *Wear) Slots() int {

	return wear.slots

}

// Counter returns the number of writes since the last Format.
func (wear *Wear) Counter() uint64 {

	return wear.counter

}
