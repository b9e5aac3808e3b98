package bolos

import (
	"fmt"
	"log/slog"
)

// NVM is a fixed size region of persistent memory.
// A write is saved whole to the backend before the in-memory image is
// updated, so a failed write leaves the region untouched.
type NVM struct {
	name    string
	buf     []byte
	backend Storage
}

// NewNVM loads region name from backend, zero filled when absent.
func NewNVM(name string, size int, backend Storage) (*NVM, error) {

	return NewNVMWithDefault(name, make([]byte, size), backend)

}

// NewNVMWithDefault loads region name from backend, using a copy of
// initial (which also fixes the size) when the region was never saved.
func NewNVMWithDefault(name string, initial []byte, backend Storage) (*NVM, error) {

	nvm := &NVM{
		name:    name,
		buf:     append([]byte(nil), initial...),
		backend: backend,
	}

	if backend == nil {
		return nvm, nil
	}

	stored, err := backend.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading nvm %s: %w", name, err)
	}

	if stored != nil {
		if len(stored) != len(nvm.buf) {
			slog.Warn("NVM size changed, discarding image", "Region", name, "Stored", len(stored), "Size", len(nvm.buf))
		} else {
			copy(nvm.buf, stored)
		}
	}

	return nvm, nil

}

// Write copies data into the region at offset.
func (nvm *NVM) Write(offset int, data []byte) error {

	if offset < 0 || offset+len(data) > len(nvm.buf) {
		return &OverflowError{Max: len(nvm.buf), Got: offset + len(data)}
	}

	if nvm.backend == nil {
		copy(nvm.buf[offset:], data)
		return nil
	}

	image := append([]byte(nil), nvm.buf...)
	copy(image[offset:], data)

	if err := nvm.backend.Save(nvm.name, image); err != nil {
		slog.Error("NVM write failed", "Region", nvm.name, "Error", err)
		return fmt.Errorf("%w: %v", ErrNVMInternal, err)
	}

	copy(nvm.buf[offset:], data)

	return nil

}

// Read returns the whole region. The slice must not be modified.
func (nvm *NVM) Read() []byte {

	return nvm.buf

}

func (nvm *NVM) Len() int {

	return len(nvm.buf)

}

func (nvm *NVM) Name() string {

	return nvm.name

}
