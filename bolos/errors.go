package bolos

import (
	"errors"
	"fmt"
)

// ErrNVMInternal is returned when the backing store refused a write.
var ErrNVMInternal = errors.New("nvm: internal write error")

// ErrBusy is returned when the buffer is held by another accessor.
var ErrBusy = errors.New("buffer held by another accessor")

// OverflowError reports a write that does not fit its destination.
type OverflowError struct {
	Max int
	Got int
}

func (overflowError *OverflowError) Error() string {
	return fmt.Sprintf("overflow: max %d, got %d", overflowError.Max, overflowError.Got)
}

// WearErrorKind tells the failure modes of a Wear ring apart.
type WearErrorKind int

const (
	// WearCrc means a page checksum did not match its contents.
	WearCrc WearErrorKind = iota
	// WearNVMWrite means the page could not be written.
	WearNVMWrite
	// WearUninitialized means the ring was never written.
	WearUninitialized
)

// WearError is returned by the Wear ring.
type WearError struct {
	Kind     WearErrorKind
	Expected uint32
	Found    uint32
}

func (wearError *WearError) Error() string {

	switch wearError.Kind {
	case WearCrc:
		return fmt.Sprintf("wear: crc mismatch, expected %08x found %08x", wearError.Expected, wearError.Found)
	case WearNVMWrite:
		return "wear: nvm write failed"
	case WearUninitialized:
		return "wear: uninitialized"
	}

	return "wear: unknown error"

}

// IsUninitialized reports whether err is a WearError of kind WearUninitialized.
func IsUninitialized(err error) bool {

	var wearError *WearError

	return errors.As(err, &wearError) && wearError.Kind == WearUninitialized

}
