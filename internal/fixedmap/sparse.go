package fixedmap

import "iter"

// Sparse holds a V for some keys of K. Documents use it so that an import can
// name only the languages it changes.
type Sparse[K Key, V any] struct {
	vals    Map[K, V]
	present Map[K, bool]
}

// Set stores v for k and marks k present.
func (s *Sparse[K, V]) Set(k K, v V) {
	s.vals.Set(k, v)
	s.present.Set(k, true)
}

// Get returns the value for k and whether it is present.
func (s Sparse[K, V]) Get(k K) (V, bool) {
	return s.vals.Get(k), s.present.Get(k)
}

// Len returns the number of present keys.
func (s Sparse[K, V]) Len() int {
	n := 0
	for _, ok := range s.present.All() {
		if ok {
			n++
		}
	}
	return n
}

// All yields present keys with their values in code order.
func (s Sparse[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, ok := range s.present.All() {
			if ok && !yield(k, s.vals.Get(k)) {
				return
			}
		}
	}
}

// Pick builds a Sparse holding the entries of m for keys.
func Pick[K Key, V any](m Map[K, V], keys []K) Sparse[K, V] {
	var s Sparse[K, V]
	for _, k := range keys {
		s.Set(k, m.Get(k))
	}
	return s
}
