package model

// Optional carries a value from a data source that may be unavailable.
// An absent Optional means the source could not be read, not that it was empty.
type Optional[T any] struct {
	value   T
	present bool
}

// Some wraps a value read successfully.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None marks a source as unavailable.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether the source was read.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// OrZero returns the value, or the zero value of T when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}
