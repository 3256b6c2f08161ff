package sorted

import (
	"errors"
	"iter"

	"github.com/ordkit/ordkit/lib/infra"
	"github.com/ordkit/ordkit/lib/tree"
)

// TreeSet is an ordered collection of unique keys backed by the same
// engine as TreeMap, with struct{} payloads.
type TreeSet[K any] struct {
	cfg    *config[K]
	engine tree.RBTree[K, struct{}]
}

func NewTreeSet[K any](opts ...Opt[K]) (*TreeSet[K], error) {
	cfg, err := loadConfig[K](opts...)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine[K, struct{}](cfg)
	if err != nil {
		return nil, err
	}
	return &TreeSet[K]{cfg: cfg, engine: engine}, nil
}

// NewTreeSetOf bulk loads keys into a fresh set, deduplicating equal
// keys. Sorted input loads in near linear time through hinted
// insertion.
func NewTreeSetOf[K any](keys []K, opts ...Opt[K]) (*TreeSet[K], error) {
	s, err := NewTreeSet[K](opts...)
	if err != nil {
		return nil, err
	}
	var last tree.RBNode[K, struct{}]
	for _, key := range keys {
		hint := ascendingHint(s.cfg, s.engine, last, key)
		x, err := s.engine.InsertWithHint(key, struct{}{}, hint)
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] bulk load aborted")
		}
		last = x
	}
	return s, nil
}

func (s *TreeSet[K]) Len() int64 { return s.engine.Len() }

// Add inserts key and reports whether it was new to the set.
func (s *TreeSet[K]) Add(key K) (bool, error) {
	if err := s.engine.Insert(key, struct{}{}, true); err != nil {
		if errors.Is(err, tree.ErrReplaceDisabled) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *TreeSet[K]) Contains(key K) (bool, error) {
	node, err := s.engine.Find(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

// Remove deletes key and reports whether it was present.
func (s *TreeSet[K]) Remove(key K) (bool, error) {
	node, err := s.engine.Remove(key)
	if err != nil {
		return false, err
	}
	return node != nil, nil
}

func (s *TreeSet[K]) First() (K, bool) {
	return keyOf(s.engine.First())
}

func (s *TreeSet[K]) Last() (K, bool) {
	return keyOf(s.engine.Last())
}

// PollFirst removes and returns the smallest key.
func (s *TreeSet[K]) PollFirst() (K, bool) {
	node, _ := s.engine.RemoveMin()
	return keyOf(node)
}

// PollLast removes and returns the greatest key.
func (s *TreeSet[K]) PollLast() (K, bool) {
	node, _ := s.engine.RemoveMax()
	return keyOf(node)
}

// Ceiling returns the smallest key >= key.
func (s *TreeSet[K]) Ceiling(key K) (K, bool, error) {
	node, err := s.engine.Ceiling(key)
	k, ok := keyOf(node)
	return k, ok, err
}

// Floor returns the greatest key <= key.
func (s *TreeSet[K]) Floor(key K) (K, bool, error) {
	node, err := s.engine.Floor(key)
	k, ok := keyOf(node)
	return k, ok, err
}

// Higher returns the smallest key > key.
func (s *TreeSet[K]) Higher(key K) (K, bool, error) {
	node, err := s.engine.Higher(key)
	k, ok := keyOf(node)
	return k, ok, err
}

// Lower returns the greatest key < key.
func (s *TreeSet[K]) Lower(key K) (K, bool, error) {
	node, err := s.engine.Lower(key)
	k, ok := keyOf(node)
	return k, ok, err
}

// RangeSearch collects every key with low <= key <= high, with either
// bound optionally exclusive.
func (s *TreeSet[K]) RangeSearch(low, high K, lowIncl, highIncl bool) ([]K, error) {
	nodes, err := s.engine.RangeSearch(low, high, lowIncl, highIncl)
	if err != nil {
		return nil, err
	}
	keys := make([]K, 0, len(nodes))
	for _, node := range nodes {
		keys = append(keys, node.Key())
	}
	return keys, nil
}

// All iterates the keys in order.
func (s *TreeSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range s.engine.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// Keys snapshots the keys in order.
func (s *TreeSet[K]) Keys() []K {
	keys := make([]K, 0, s.engine.Len())
	for key := range s.engine.All() {
		keys = append(keys, key)
	}
	return keys
}

func (s *TreeSet[K]) Clear() {
	s.engine.Release()
}

func keyOf[K any](node tree.RBNode[K, struct{}]) (K, bool) {
	if node == nil {
		var zero K
		return zero, false
	}
	return node.Key(), true
}
