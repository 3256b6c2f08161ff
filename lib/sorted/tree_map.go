package sorted

import (
	"errors"
	"iter"
	"strconv"

	"github.com/ordkit/ordkit/lib/infra"
	"github.com/ordkit/ordkit/lib/tree"
)

// TreeMap is an ordered key-to-value map. Each key stores at most one
// value; iteration and the boundary/neighbour queries follow the key
// order of the comparator fixed at construction.
type TreeMap[K any, V any] struct {
	cfg    *config[K]
	engine tree.RBTree[K, V]
}

func NewTreeMap[K any, V any](opts ...Opt[K]) (*TreeMap[K, V], error) {
	cfg, err := loadConfig[K](opts...)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine[K, V](cfg)
	if err != nil {
		return nil, err
	}
	return &TreeMap[K, V]{cfg: cfg, engine: engine}, nil
}

// NewTreeMapFromEntries bulk loads entries into a fresh map. Later
// entries win on equal keys. Sorted or mostly-sorted input loads in
// near linear time through hinted insertion.
func NewTreeMapFromEntries[K any, V any](entries []Entry[K, V], opts ...Opt[K]) (*TreeMap[K, V], error) {
	m, err := NewTreeMap[K, V](opts...)
	if err != nil {
		return nil, err
	}
	var last tree.RBNode[K, V]
	for _, ent := range entries {
		hint := ascendingHint(m.cfg, m.engine, last, ent.Key)
		x, err := m.engine.InsertWithHint(ent.Key, ent.Val, hint)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] bulk load aborted")
		}
		last = x
	}
	return m, nil
}

// TreeMapFrom builds a map from arbitrary records through conv. A
// conversion failure aborts the load and is reported with the record
// index attached.
func TreeMapFrom[R any, K any, V any](records []R, conv func(record R) (K, V, error), opts ...Opt[K]) (*TreeMap[K, V], error) {
	m, err := NewTreeMap[K, V](opts...)
	if err != nil {
		return nil, err
	}
	var last tree.RBNode[K, V]
	for i, record := range records {
		key, val, err := conv(record)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] malformed record at index "+strconv.Itoa(i))
		}
		hint := ascendingHint(m.cfg, m.engine, last, key)
		x, err := m.engine.InsertWithHint(key, val, hint)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] bulk load aborted at index "+strconv.Itoa(i))
		}
		last = x
	}
	return m, nil
}

func (m *TreeMap[K, V]) Len() int64 { return m.engine.Len() }

// Set associates key with val, replacing any previous value.
func (m *TreeMap[K, V]) Set(key K, val V) error {
	return m.engine.Insert(key, val)
}

// SetIfAbsent associates key with val only when the key is not yet
// present. It reports whether the value was stored.
func (m *TreeMap[K, V]) SetIfAbsent(key K, val V) (bool, error) {
	if err := m.engine.Insert(key, val, true); err != nil {
		if errors.Is(err, tree.ErrReplaceDisabled) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get loads the value stored under key. The second result reports
// presence, which keeps a stored zero value apart from an absent key.
func (m *TreeMap[K, V]) Get(key K) (V, bool, error) {
	node, err := m.engine.Find(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	if node == nil {
		var zero V
		return zero, false, nil
	}
	return node.Val(), true, nil
}

func (m *TreeMap[K, V]) Has(key K) (bool, error) {
	node, err := m.engine.Find(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// Delete removes key and reports whether an entry was present.
func (m *TreeMap[K, V]) Delete(key K) (bool, error) {
	node, err := m.engine.Remove(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

func (m *TreeMap[K, V]) First() (Entry[K, V], bool) {
	return entryOf(m.engine.First())
}

func (m *TreeMap[K, V]) Last() (Entry[K, V], bool) {
	return entryOf(m.engine.Last())
}

// PollFirst removes and returns the smallest entry.
func (m *TreeMap[K, V]) PollFirst() (Entry[K, V], bool) {
	node, _ := m.engine.RemoveMin()
	return entryOf(node)
}

// PollLast removes and returns the greatest entry.
func (m *TreeMap[K, V]) PollLast() (Entry[K, V], bool) {
	node, _ := m.engine.RemoveMax()
	return entryOf(node)
}

// Ceiling returns the smallest entry with a key >= key.
func (m *TreeMap[K, V]) Ceiling(key K) (Entry[K, V], bool, error) {
	node, err := m.engine.Ceiling(key)
	ent, ok := entryOf(node)
	return ent, ok, err
}

// Floor returns the greatest entry with a key <= key.
func (m *TreeMap[K, V]) Floor(key K) (Entry[K, V], bool, error) {
	node, err := m.engine.Floor(key)
	ent, ok := entryOf(node)
	return ent, ok, err
}

// Higher returns the smallest entry with a key > key.
func (m *TreeMap[K, V]) Higher(key K) (Entry[K, V], bool, error) {
	node, err := m.engine.Higher(key)
	ent, ok := entryOf(node)
	return ent, ok, err
}

// Lower returns the greatest entry with a key < key.
func (m *TreeMap[K, V]) Lower(key K) (Entry[K, V], bool, error) {
	node, err := m.engine.Lower(key)
	ent, ok := entryOf(node)
	return ent, ok, err
}

// RangeSearch collects every entry with low <= key <= high, with either
// bound optionally exclusive. An empty window is an empty slice, not an
// error.
func (m *TreeMap[K, V]) RangeSearch(low, high K, lowIncl, highIncl bool) ([]Entry[K, V], error) {
	nodes, err := m.engine.RangeSearch(low, high, lowIncl, highIncl)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry[K, V], 0, len(nodes))
	for _, node := range nodes {
		entries = append(entries, Entry[K, V]{Key: node.Key(), Val: node.Val()})
	}
	return entries, nil
}

// All iterates the entries in key order.
func (m *TreeMap[K, V]) All() iter.Seq2[K, V] {
	return m.engine.All()
}

// Keys snapshots the keys in order.
func (m *TreeMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.engine.Len())
	for key := range m.engine.All() {
		keys = append(keys, key)
	}
	return keys
}

// Values snapshots the values in key order.
func (m *TreeMap[K, V]) Values() []V {
	vals := make([]V, 0, m.engine.Len())
	m.engine.Foreach(func(_ int64, _ tree.RBColor, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (m *TreeMap[K, V]) Clear() {
	m.engine.Release()
}

func entryOf[K any, V any](node tree.RBNode[K, V]) (Entry[K, V], bool) {
	if node == nil {
		var zero Entry[K, V]
		return zero, false
	}
	return Entry[K, V]{Key: node.Key(), Val: node.Val()}, true
}
