package scraper

// stack is a very simple FILO worklist. The menu walker uses it instead of
// recursing so that a malformed, deeply nested menu cannot blow the stack.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

func (s *stack[T]) pop() (T, bool) {
	var zero T
	n := len(s.items) - 1
	if n < 0 {
		return zero, false
	}
	v := s.items[n]
	s.items = s.items[:n]
	return v, true
}
