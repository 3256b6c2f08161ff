package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/ordkit/ordkit/lib/infra"
)

func isBlack[K any, V any](node RBNode[K, V]) bool {
	return isNilLeaf[K, V](node) || node.Color() == Black
}

func isRed[K any, V any](node RBNode[K, V]) bool {
	return !isNilLeaf[K, V](node) && node.Color() == Red
}

func isNilLeaf[K any, V any](node RBNode[K, V]) bool {
	return node == nil || (!node.HasKeyVal() && node.Parent() == nil && node.Left() == nil && node.Right() == nil)
}

func isRoot[K any, V any](node RBNode[K, V]) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo[K any, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[K any, V any](tree RBTree[K, V]) error {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size < 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !isNilLeaf[K, V](aux); aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRed[K, V](aux) {
			if (!isRoot[K, V](aux.Parent()) && isRed[K, V](aux.Parent())) ||
				(isRed[K, V](aux.Left()) || isRed[K, V](aux.Right())) {
				return errors.New("rbtree red violation")
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load all leaves.
func bfsLeaves[K any, V any](tree RBTree[K, V]) []RBNode[K, V] {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size < 0 || isNilLeaf[K, V](aux) {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, size>>1+1)
	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for len(stack) > 0 {
		aux = stack[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ isNilLeaf[K, V](l) || isNilLeaf[K, V](r) {
			leaves = append(leaves, aux)
		}
		if !isNilLeaf[K, V](l) {
			stack = append(stack, l)
		}
		if !isNilLeaf[K, V](r) {
			stack = append(stack, r)
		}
		stack = stack[1:]
	}
	return leaves
}

// Each leaf node to root node black depth must be equal.
func BlackViolationValidate[K any, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo[K, V](leaves[i], tree.Root()) != blackDepth {
			return errors.New("rbtree black violation")
		}
	}
	return nil
}

// StrictOrderValidate walks the in-order sequence once and checks the
// strictly increasing key order under kcmp, the size counter against
// the traversal and the boundary caches against the real extremes.
func StrictOrderValidate[K any, V any](tree RBTree[K, V], kcmp infra.KeyComparator[K]) error {
	var (
		violation      error
		prev           *K
		minKey, maxKey K
		walked         int64
	)
	tree.Foreach(func(idx int64, color RBColor, key K, val V) bool {
		if walked == 0 {
			minKey = key
		}
		maxKey = key
		walked++
		if prev != nil {
			res, err := kcmp(*prev, key)
			if err != nil {
				violation = err
				return false
			}
			if res >= 0 {
				violation = errors.New("rbtree inorder key sequence violation")
				return false
			}
		}
		k := key
		prev = &k
		return true
	})
	if violation != nil {
		return violation
	}
	if walked != tree.Len() {
		return errors.New("rbtree size and traversal mismatch")
	}

	// Read the raw cache fields; the First/Last accessors repair a
	// suspect cache before it could be observed here.
	var first, last RBNode[K, V]
	if raw, ok := tree.(*rbTree[K, V]); ok {
		if raw.min != nil {
			first = raw.min
		}
		if raw.max != nil {
			last = raw.max
		}
	} else {
		first, last = tree.First(), tree.Last()
	}
	if walked == 0 {
		if first != nil || last != nil {
			return errors.New("rbtree boundary cache not empty on empty tree")
		}
		return nil
	}
	if isNilLeaf[K, V](first) || isNilLeaf[K, V](last) {
		return errors.New("rbtree boundary cache unset on non-empty tree")
	}
	if first.Left() != nil || last.Right() != nil {
		return errors.New("rbtree boundary cache not at the extremes")
	}
	if res, err := kcmp(first.Key(), minKey); err != nil || res != 0 {
		return errors.New("rbtree min cache key mismatch")
	}
	if res, err := kcmp(last.Key(), maxKey); err != nil || res != 0 {
		return errors.New("rbtree max cache key mismatch")
	}
	return nil
}

// RootViolationValidate checks that a non-empty tree keeps a black
// root.
func RootViolationValidate[K any, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); isRed[K, V](root) {
		return errors.New("rbtree red root violation")
	}
	return nil
}

// RBTreeValidate bundles every structural check.
func RBTreeValidate[K any, V any](tree RBTree[K, V], kcmp infra.KeyComparator[K]) error {
	return multierr.Combine(
		RootViolationValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		StrictOrderValidate[K, V](tree, kcmp),
	)
}
