package sorted

import (
	"iter"

	"github.com/ordkit/ordkit/lib/infra"
	"github.com/ordkit/ordkit/lib/tree"
)

// Bucket holds every value stored under one multi map key, in
// insertion order. Buckets handed out by Get stay live: mutations
// through a bucket are visible to its owning map and keep the map's
// aggregate length in sync.
type Bucket[V any] struct {
	vals  []V
	total *int64
}

// Append adds vals to the end of the bucket.
func (b *Bucket[V]) Append(vals ...V) {
	b.vals = append(b.vals, vals...)
	if b.total != nil {
		*b.total += int64(len(vals))
	}
}

// Values returns the bucket's backing slice. Callers must not reorder
// or truncate it; use Append and RemoveAt to mutate.
func (b *Bucket[V]) Values() []V { return b.vals }

func (b *Bucket[V]) Len() int { return len(b.vals) }

// At loads the i-th value in insertion order.
func (b *Bucket[V]) At(i int) (V, bool) {
	if i < 0 || i >= len(b.vals) {
		var zero V
		return zero, false
	}
	return b.vals[i], true
}

// RemoveAt deletes the i-th value, shifting later values down. An
// emptied bucket stays attached to its key.
func (b *Bucket[V]) RemoveAt(i int) (V, bool) {
	if i < 0 || i >= len(b.vals) {
		var zero V
		return zero, false
	}
	val := b.vals[i]
	b.vals = append(b.vals[:i], b.vals[i+1:]...)
	if b.total != nil {
		*b.total--
	}
	return val, true
}

// TreeMultiMap is an ordered map where each key owns a bucket of
// values. Inserting an existing key appends to its bucket instead of
// replacing it.
type TreeMultiMap[K any, V any] struct {
	cfg    *config[K]
	engine tree.RBTree[K, *Bucket[V]]
	total  int64
}

func NewTreeMultiMap[K any, V any](opts ...Opt[K]) (*TreeMultiMap[K, V], error) {
	cfg, err := loadConfig[K](opts...)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine[K, *Bucket[V]](cfg)
	if err != nil {
		return nil, err
	}
	return &TreeMultiMap[K, V]{cfg: cfg, engine: engine}, nil
}

// NewTreeMultiMapFromEntries bulk loads entries, grouping values of
// equal keys into one bucket in input order.
func NewTreeMultiMapFromEntries[K any, V any](entries []Entry[K, V], opts ...Opt[K]) (*TreeMultiMap[K, V], error) {
	mm, err := NewTreeMultiMap[K, V](opts...)
	if err != nil {
		return nil, err
	}
	for _, ent := range entries {
		if err := mm.Add(ent.Key, ent.Val); err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] bulk load aborted")
		}
	}
	return mm, nil
}

// Len counts the stored values across all buckets.
func (mm *TreeMultiMap[K, V]) Len() int64 { return mm.total }

// KeyLen counts the distinct keys.
func (mm *TreeMultiMap[K, V]) KeyLen() int64 { return mm.engine.Len() }

// Add appends val to the bucket of key, creating the bucket when the
// key is new.
func (mm *TreeMultiMap[K, V]) Add(key K, val V) error {
	node, err := mm.engine.Find(key)
	if err != nil {
		return err
	}
	if node != nil {
		node.Val().Append(val)
		return nil
	}
	bucket := &Bucket[V]{total: &mm.total}
	bucket.Append(val)
	return mm.engine.Insert(key, bucket)
}

// Get returns the live bucket of key, or false when the key is absent.
func (mm *TreeMultiMap[K, V]) Get(key K) (*Bucket[V], bool, error) {
	node, err := mm.engine.Find(key)
	if err != nil || node == nil {
		return nil, false, err
	}
	return node.Val(), true, nil
}

// Values copies the bucket of key in insertion order.
func (mm *TreeMultiMap[K, V]) Values(key K) ([]V, error) {
	node, err := mm.engine.Find(key)
	if err != nil || node == nil {
		return nil, err
	}
	vals := node.Val().Values()
	out := make([]V, len(vals))
	copy(out, vals)
	return out, nil
}

// Count reports the bucket size of key, zero when absent.
func (mm *TreeMultiMap[K, V]) Count(key K) (int, error) {
	node, err := mm.engine.Find(key)
	if err != nil || node == nil {
		return 0, err
	}
	return node.Val().Len(), nil
}

func (mm *TreeMultiMap[K, V]) Has(key K) (bool, error) {
	node, err := mm.engine.Find(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// Delete removes key together with its whole bucket and reports how
// many values went with it.
func (mm *TreeMultiMap[K, V]) Delete(key K) (int, error) {
	node, err := mm.engine.Remove(key)
	if err != nil || node == nil {
		return 0, err
	}
	bucket := node.Val()
	n := bucket.Len()
	mm.total -= int64(n)
	bucket.total = nil
	return n, nil
}

func (mm *TreeMultiMap[K, V]) First() (K, *Bucket[V], bool) {
	return bucketOf(mm.engine.First())
}

func (mm *TreeMultiMap[K, V]) Last() (K, *Bucket[V], bool) {
	return bucketOf(mm.engine.Last())
}

// Ceiling returns the bucket at the smallest key >= key.
func (mm *TreeMultiMap[K, V]) Ceiling(key K) (K, *Bucket[V], bool, error) {
	node, err := mm.engine.Ceiling(key)
	k, b, ok := bucketOf(node)
	return k, b, ok, err
}

// Floor returns the bucket at the greatest key <= key.
func (mm *TreeMultiMap[K, V]) Floor(key K) (K, *Bucket[V], bool, error) {
	node, err := mm.engine.Floor(key)
	k, b, ok := bucketOf(node)
	return k, b, ok, err
}

// RangeSearch collects (key, value) pairs for every key in the window,
// expanding each bucket in insertion order.
func (mm *TreeMultiMap[K, V]) RangeSearch(low, high K, lowIncl, highIncl bool) ([]Entry[K, V], error) {
	nodes, err := mm.engine.RangeSearch(low, high, lowIncl, highIncl)
	if err != nil {
		return nil, err
	}
	var entries []Entry[K, V]
	for _, node := range nodes {
		for _, val := range node.Val().Values() {
			entries = append(entries, Entry[K, V]{Key: node.Key(), Val: val})
		}
	}
	return entries, nil
}

// All iterates every (key, value) pair in key order, values of one key
// in insertion order.
func (mm *TreeMultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for key, bucket := range mm.engine.All() {
			for _, val := range bucket.Values() {
				if !yield(key, val) {
					return
				}
			}
		}
	}
}

// Keys snapshots the distinct keys in order.
func (mm *TreeMultiMap[K, V]) Keys() []K {
	keys := make([]K, 0, mm.engine.Len())
	for key := range mm.engine.All() {
		keys = append(keys, key)
	}
	return keys
}

func (mm *TreeMultiMap[K, V]) Clear() {
	mm.engine.Foreach(func(_ int64, _ tree.RBColor, _ K, bucket *Bucket[V]) bool {
		bucket.total = nil
		return true
	})
	mm.engine.Release()
	mm.total = 0
}

func bucketOf[K any, V any](node tree.RBNode[K, *Bucket[V]]) (K, *Bucket[V], bool) {
	if node == nil {
		var zero K
		return zero, nil, false
	}
	return node.Key(), node.Val(), true
}
