package bolos

// PIC wraps static data that on the device must be read through the
// runtime relocation fixup. On a hosted build the access is direct.
type PIC[T any] struct {
	inner T
}

func NewPIC[T any](inner T) PIC[T] {

	return PIC[T]{inner: inner}

}

// Get returns a pointer to the wrapped value.
func (pic *PIC[T]) Get() *T {

	return &pic.inner

}

// IntoInner returns the wrapped value.
func (pic PIC[T]) IntoInner() T {

	return pic.inner

}
