package tree

import "iter"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K any, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is an ordered associative container with O(log n) mutations
// and O(1) access to its boundary entries.
//
// Empty-result signaling: lookups and ordered queries that find no
// qualifying entry return a nil node and a nil error. A non-nil error
// is a comparison failure raised by the configured comparator before
// any structural mutation took place.
//
// The tree is not safe for concurrent mutation; callers serialize.
type RBTree[K any, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	First() RBNode[K, V]
	Last() RBNode[K, V]
	Insert(key K, val V, ifNotPresent ...bool) error
	// InsertWithHint shortcuts the search phase when hint is adjacent
	// to the insertion point. A foreign or misleading hint degrades to
	// the plain full-search insertion.
	InsertWithHint(key K, val V, hint RBNode[K, V], ifNotPresent ...bool) (RBNode[K, V], error)
	Find(key K) (RBNode[K, V], error)
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	RemoveMax() (RBNode[K, V], error)
	Ceiling(key K) (RBNode[K, V], error)
	Floor(key K) (RBNode[K, V], error)
	Higher(key K) (RBNode[K, V], error)
	Lower(key K) (RBNode[K, V], error)
	RangeSearch(low, high K, lowIncl, highIncl bool) ([]RBNode[K, V], error)
	// FloorFunc returns the last in-order node satisfying fn. fn must
	// be monotone over the in-order position: once it turns false it
	// stays false.
	FloorFunc(fn func(key K, val V) bool) RBNode[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	All() iter.Seq2[K, V]
	Release()
}
