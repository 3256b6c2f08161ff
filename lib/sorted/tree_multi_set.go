package sorted

import (
	"iter"

	"github.com/ordkit/ordkit/lib/infra"
	"github.com/ordkit/ordkit/lib/tree"
)

// TreeMultiSet is an ordered multiset that stores each distinct key
// once with a multiplicity counter, so a key held a million times
// costs one node.
type TreeMultiSet[K any] struct {
	cfg    *config[K]
	engine tree.RBTree[K, int64]
	total  int64
}

func NewTreeMultiSet[K any](opts ...Opt[K]) (*TreeMultiSet[K], error) {
	cfg, err := loadConfig[K](opts...)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine[K, int64](cfg)
	if err != nil {
		return nil, err
	}
	return &TreeMultiSet[K]{cfg: cfg, engine: engine}, nil
}

// NewTreeMultiSetOf bulk loads keys, accumulating multiplicities for
// repeated keys.
func NewTreeMultiSetOf[K any](keys []K, opts ...Opt[K]) (*TreeMultiSet[K], error) {
	ms, err := NewTreeMultiSet[K](opts...)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := ms.Add(key); err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] bulk load aborted")
		}
	}
	return ms, nil
}

// Len counts the stored keys including multiplicities.
func (ms *TreeMultiSet[K]) Len() int64 { return ms.total }

// KeyLen counts the distinct keys.
func (ms *TreeMultiSet[K]) KeyLen() int64 { return ms.engine.Len() }

// Add raises the multiplicity of key by one.
func (ms *TreeMultiSet[K]) Add(key K) error {
	return ms.AddN(key, 1)
}

// AddN raises the multiplicity of key by n. A non-positive n is a
// no-op.
func (ms *TreeMultiSet[K]) AddN(key K, n int64) error {
	if n <= 0 {
		return nil
	}
	node, err := ms.engine.Find(key)
	if err != nil {
		return err
	}
	if node != nil {
		// Equal-key hint updates the counter in place without a
		// second descent.
		if _, err := ms.engine.InsertWithHint(key, node.Val()+n, node); err != nil {
			return err
		}
	} else if err := ms.engine.Insert(key, n); err != nil {
		return err
	}
	ms.total += n
	return nil
}

// Count reports the multiplicity of key, zero when absent.
func (ms *TreeMultiSet[K]) Count(key K) (int64, error) {
	node, err := ms.engine.Find(key)
	if err != nil || node == nil {
		return 0, err
	}
	return node.Val(), nil
}

func (ms *TreeMultiSet[K]) Contains(key K) (bool, error) {
	node, err := ms.engine.Find(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// Remove lowers the multiplicity of key by one, dropping the key when
// it reaches zero. It reports whether the key was present.
func (ms *TreeMultiSet[K]) Remove(key K) (bool, error) {
	node, err := ms.engine.Find(key)
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, nil
	}
	if node.Val() > 1 {
		if _, err := ms.engine.InsertWithHint(key, node.Val()-1, node); err != nil {
			return false, err
		}
	} else if _, err := ms.engine.Remove(key); err != nil {
		return false, err
	}
	ms.total--
	return true, nil
}

// RemoveAll drops key entirely and reports the multiplicity it had.
func (ms *TreeMultiSet[K]) RemoveAll(key K) (int64, error) {
	node, err := ms.engine.Remove(key)
	if err != nil || node == nil {
		return 0, err
	}
	n := node.Val()
	ms.total -= n
	return n, nil
}

func (ms *TreeMultiSet[K]) First() (K, bool) {
	node := ms.engine.First()
	if node == nil {
		var zero K
		return zero, false
	}
	return node.Key(), true
}

func (ms *TreeMultiSet[K]) Last() (K, bool) {
	node := ms.engine.Last()
	if node == nil {
		var zero K
		return zero, false
	}
	return node.Key(), true
}

// Ceiling returns the smallest stored key >= key.
func (ms *TreeMultiSet[K]) Ceiling(key K) (K, bool, error) {
	node, err := ms.engine.Ceiling(key)
	if err != nil || node == nil {
		var zero K
		return zero, false, err
	}
	return node.Key(), true, nil
}

// Floor returns the greatest stored key <= key.
func (ms *TreeMultiSet[K]) Floor(key K) (K, bool, error) {
	node, err := ms.engine.Floor(key)
	if err != nil || node == nil {
		var zero K
		return zero, false, err
	}
	return node.Key(), true, nil
}

// All iterates (key, multiplicity) pairs in key order.
func (ms *TreeMultiSet[K]) All() iter.Seq2[K, int64] {
	return ms.engine.All()
}

// Keys snapshots the distinct keys in order.
func (ms *TreeMultiSet[K]) Keys() []K {
	keys := make([]K, 0, ms.engine.Len())
	for key := range ms.engine.All() {
		keys = append(keys, key)
	}
	return keys
}

func (ms *TreeMultiSet[K]) Clear() {
	ms.engine.Release()
	ms.total = 0
}

// recount walks the tree and sums the multiplicities, bypassing the
// aggregate counter.
func (ms *TreeMultiSet[K]) recount() int64 {
	var sum int64
	ms.engine.Foreach(func(_ int64, _ tree.RBColor, _ K, n int64) bool {
		sum += n
		return true
	})
	return sum
}
