package bolos

import "errors"

// Tier is the storage a SwappingBuffer currently appends to.
type Tier int

const (
	TierRAM Tier = iota
	TierFlash
)

func (tier Tier) String() string {

	if tier == TierFlash {
		return "flash"
	}

	return "ram"

}

// Accessor identifies the instruction family using a SwappingBuffer.
type Accessor uint8

// SwappingBuffer appends into a small RAM array and, once that is full,
// moves everything to a larger flash region and keeps appending there
// until Reset.
type SwappingBuffer struct {
	ram   []byte
	flash *NVM

	tier  Tier
	count int

	holder Accessor
	locked bool
}

func NewSwappingBuffer(ramSize int, flash *NVM) *SwappingBuffer {

	return &SwappingBuffer{
		ram:   make([]byte, ramSize),
		flash: flash,
		tier:  TierRAM,
	}

}

// State returns the active tier and the bytes written to it.
func (swappingBuffer *SwappingBuffer) State() (Tier, int) {

	return swappingBuffer.tier, swappingBuffer.count

}

// Sizes returns the capacity of both tiers.
func (swappingBuffer *SwappingBuffer) Sizes() (int, int) {

	return len(swappingBuffer.ram), swappingBuffer.flash.Len()

}

// Read returns the whole active tier, including bytes never written.
func (swappingBuffer *SwappingBuffer) Read() []byte {

	if swappingBuffer.tier == TierFlash {
		return swappingBuffer.flash.Read()
	}

	return swappingBuffer.ram

}

// ReadExact returns the bytes written since the last Reset.
func (swappingBuffer *SwappingBuffer) ReadExact() []byte {

	return swappingBuffer.Read()[:swappingBuffer.count]

}

// Write appends data, moving to flash when RAM cannot hold it.
// A failed write leaves the previously written bytes readable.
func (swappingBuffer *SwappingBuffer) Write(data []byte) error {

	switch {

	case swappingBuffer.tier == TierRAM && swappingBuffer.count+len(data) > len(swappingBuffer.ram):

		if err := swappingBuffer.flash.Write(0, swappingBuffer.ram); err != nil {
			return err
		}
		swappingBuffer.tier = TierFlash

		return swappingBuffer.Write(data)

	case swappingBuffer.tier == TierRAM:

		copy(swappingBuffer.ram[swappingBuffer.count:], data)
		swappingBuffer.count += len(data)

		return nil

	case swappingBuffer.count+len(data) > swappingBuffer.flash.Len():

		return &OverflowError{Max: swappingBuffer.flash.Len(), Got: swappingBuffer.count + len(data)}

	default:

		if err := swappingBuffer.flash.Write(swappingBuffer.count, data); err != nil {
			return err
		}
		swappingBuffer.count += len(data)

		return nil

	}

}

// Reset goes back to an empty RAM tier. Stored bytes are not erased.
func (swappingBuffer *SwappingBuffer) Reset() {

	swappingBuffer.tier = TierRAM
	swappingBuffer.count = 0

}

// Acquire takes the buffer for owner. It fails with ErrBusy when another
// accessor holds it, and succeeds again for the current holder.
func (swappingBuffer *SwappingBuffer) Acquire(owner Accessor) error {

	if swappingBuffer.locked && swappingBuffer.holder != owner {
		return ErrBusy
	}

	swappingBuffer.holder = owner
	swappingBuffer.locked = true

	return nil

}

// Release gives the buffer back if owner holds it.
func (swappingBuffer *SwappingBuffer) Release(owner Accessor) {

	if swappingBuffer.locked && swappingBuffer.holder == owner {
		swappingBuffer.locked = false
	}

}

// Holder returns the accessor holding the buffer.
func (swappingBuffer *SwappingBuffer) Holder() (Accessor, bool) {

	return swappingBuffer.holder, swappingBuffer.locked

}

// IsOverflow reports whether err means the data did not fit.
func IsOverflow(err error) bool {

	var overflowError *OverflowError

	return errors.As(err, &overflowError)

}
