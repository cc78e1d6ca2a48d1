package catalog

// OrderedMap is an insertion-ordered map. Setting an existing key replaces
// its value but keeps the position of the first insertion, so iteration
// order is "first seen" while the stored value is "last written".
type OrderedMap[V any] struct {
	keys  []string
	index map[string]int
	vals  []V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: make(map[string]int)}
}

// Set stores v under key and reports whether an existing value was replaced.
func (m *OrderedMap[V]) Set(key string, v V) (replaced bool) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return true
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
	return false
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

func (m *OrderedMap[V]) Len() int { return len(m.keys) }

// Keys returns the keys in first-insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in first-insertion order of their keys.
func (m *OrderedMap[V]) Values() []V {
	out := make([]V, len(m.vals))
	copy(out, m.vals)
	return out
}
