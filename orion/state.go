package orion

// slot holds at most one value. Setting an occupied slot panics, a value
// must be taken out before a new one can be put in.
type slot[T any] struct {
	value    T
	hasValue bool
}

func (s *slot[T]) set(value T) {
	if s.hasValue {
		panic("value already set")
	}

	s.value = value
	s.hasValue = true
}

func (s *slot[T]) get() (T, bool) {
	return s.value, s.hasValue
}

// take empties the slot and returns the previous value.
func (s *slot[T]) take() (T, bool) {
	value, ok := s.value, s.hasValue

	var tZero T
	s.value = tZero
	s.hasValue = false

	return value, ok
}

func (s *slot[T]) has() bool {
	return s.hasValue
}
