package fixedmap

import (
	"fmt"
	"iter"

	"github.com/cory-johannsen/dloc/internal/binio"
)

// Key is an enumeration whose codes are 0..Table().Len()-1.
type Key interface {
	~uint8
	String() string
	Table() *Table
}

func tableOf[K Key]() *Table {
	var k K
	return k.Table()
}

// Count returns the cardinality of K.
func Count[K Key]() int { return tableOf[K]().Len() }

// Keys returns every key of K in code order.
func Keys[K Key]() []K {
	out := make([]K, Count[K]())
	for i := range out {
		out[i] = K(i)
	}
	return out
}

// Parse resolves a key by name, ignoring case.
func Parse[K Key](name string) (K, error) {
	code, ok := tableOf[K]().Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownKey)
	}
	return K(code), nil
}

// Valid reports whether k is a code of K.
func Valid[K Key](k K) bool { return int(k) < Count[K]() }

// Map holds exactly one V for every key of K. The zero Map reads as all zero
// values and allocates on first write.
type Map[K Key, V any] struct {
	vals []V
}

// New returns a Map with every value set to the zero V.
func New[K Key, V any]() Map[K, V] {
	return Map[K, V]{vals: make([]V, Count[K]())}
}

// Of builds a Map by calling f once per key in code order.
func Of[K Key, V any](f func(K) V) Map[K, V] {
	m := New[K, V]()
	for i := range m.vals {
		m.vals[i] = f(K(i))
	}
	return m
}

// Len returns the cardinality of K, never the number of non-zero values.
func (m Map[K, V]) Len() int { return Count[K]() }

// Get returns the value for k.
//
// Precondition: k is a valid code of K.
func (m Map[K, V]) Get(k K) V {
	if m.vals == nil {
		var zero V
		return zero
	}
	return m.vals[k]
}

// Ptr returns a pointer to the slot for k, allocating the Map if needed.
func (m *Map[K, V]) Ptr(k K) *V {
	if m.vals == nil {
		m.vals = make([]V, Count[K]())
	}
	return &m.vals[k]
}

// Set stores v for k.
func (m *Map[K, V]) Set(k K, v V) { *m.Ptr(k) = v }

// All yields every key with its value in code order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range Keys[K]() {
			if !yield(k, m.Get(k)) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m.
func (m Map[K, V]) Clone() Map[K, V] {
	out := New[K, V]()
	copy(out.vals, m.vals)
	return out
}

// Transform returns a Map holding f applied to every entry of m.
func Transform[K Key, V, W any](m Map[K, V], f func(K, V) W) Map[K, W] {
	return Of(func(k K) W { return f(k, m.Get(k)) })
}

// ReadEach decodes one V per key, in code order, using read.
func ReadEach[K Key, V any](r *binio.Reader, read func(*binio.Reader, K) (V, error)) (Map[K, V], error) {
	m := New[K, V]()
	for i := range m.vals {
		v, err := read(r, K(i))
		if err != nil {
			return Map[K, V]{}, fmt.Errorf("%s: %w", K(i), err)
		}
		m.vals[i] = v
	}
	return m, nil
}

// AppendEach encodes every value of m, in code order, using write.
func AppendEach[K Key, V any](b []byte, m Map[K, V], write func([]byte, K, V) ([]byte, error)) ([]byte, error) {
	var err error
	for k, v := range m.All() {
		if b, err = write(b, k, v); err != nil {
			return b, fmt.Errorf("%s: %w", k, err)
		}
	}
	return b, nil
}
