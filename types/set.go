package types

import "github.com/goccy/go-json"

// Set keeps unique values in insertion order
type Set[T comparable] struct {
	order []T
	index map[T]struct{}
}

func NewSet[T comparable](values ...T) *Set[T] {
	set := &Set[T]{index: make(map[T]struct{})}
	set.Insert(values...)
	return set
}

func (s *Set[T]) Insert(values ...T) {
	for _, value := range values {
		if _, exists := s.index[value]; exists {
			continue
		}
		s.index[value] = struct{}{}
		s.order = append(s.order, value)
	}
}

func (s *Set[T]) Exists(value T) bool {
	_, exists := s.index[value]
	return exists
}

func (s *Set[T]) Len() int {
	return len(s.order)
}

func (s *Set[T]) Array() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.order)
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.order, s.index = nil, make(map[T]struct{})
	s.Insert(values...)
	return nil
}
