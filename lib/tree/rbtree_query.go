package tree

import (
	"iter"
	"sync/atomic"

	"github.com/ordkit/ordkit/lib/infra"
)

// Ordered view over the core engine. Every query here is either O(1)
// through the boundary cache or a single root-to-leaf walk that
// narrows a best candidate per comparator outcome.

// First returns the minimum node in O(1) through the boundary cache.
func (tree *rbTree[K, V]) First() RBNode[K, V] {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil
	}
	if tree.boundsSuspect() {
		tree.repairBounds()
	}
	if tree.min == nil {
		return nil
	}
	return tree.min
}

// Last returns the maximum node in O(1) through the boundary cache.
func (tree *rbTree[K, V]) Last() RBNode[K, V] {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil
	}
	if tree.boundsSuspect() {
		tree.repairBounds()
	}
	if tree.max == nil {
		return nil
	}
	return tree.max
}

// Ceiling returns the node holding the least key greater than or
// equal to key, or nil when no entry qualifies.
func (tree *rbTree[K, V]) Ceiling(key K) (RBNode[K, V], error) {
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if res == 0 {
			return aux, nil
		} else if res < 0 {
			candidate = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	if candidate == nil {
		return nil, nil
	}
	return candidate, nil
}

// Floor returns the node holding the greatest key less than or equal
// to key, or nil when no entry qualifies.
func (tree *rbTree[K, V]) Floor(key K) (RBNode[K, V], error) {
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if res == 0 {
			return aux, nil
		} else if res > 0 {
			candidate = aux
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	if candidate == nil {
		return nil, nil
	}
	return candidate, nil
}

// Higher is the strict variant of Ceiling, excluding an exact match.
func (tree *rbTree[K, V]) Higher(key K) (RBNode[K, V], error) {
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if res < 0 {
			candidate = aux
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	if candidate == nil {
		return nil, nil
	}
	return candidate, nil
}

// Lower is the strict variant of Floor, excluding an exact match.
func (tree *rbTree[K, V]) Lower(key K) (RBNode[K, V], error) {
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		res, err := tree.keyCompare(key, aux.key)
		if err != nil {
			return nil, infra.WrapErrorStack(err)
		}
		if res > 0 {
			candidate = aux
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	if candidate == nil {
		return nil, nil
	}
	return candidate, nil
}

// RangeSearch collects the nodes whose keys fall between low and high
// through a pruned in-order traversal. Only subtrees that can hold a
// qualifying key are entered, so the cost is O(k + log n) for k
// matches.
func (tree *rbTree[K, V]) RangeSearch(low, high K, lowIncl, highIncl bool) ([]RBNode[K, V], error) {
	nodes := make([]RBNode[K, V], 0, 8)
	var walk func(aux *rbNode[K, V]) error
	walk = func(aux *rbNode[K, V]) error {
		if aux.isNilLeaf() {
			return nil
		}
		resLow, err := tree.keyCompare(low, aux.key)
		if err != nil {
			return err
		}
		resHigh, err := tree.keyCompare(high, aux.key)
		if err != nil {
			return err
		}
		// The left subtree can hold a match only when low is strictly
		// below this key, the right one only when high is strictly
		// above it.
		if resLow < 0 {
			if err := walk(aux.left); err != nil {
				return err
			}
		}
		if (resLow < 0 || (resLow == 0 && lowIncl)) &&
			(resHigh > 0 || (resHigh == 0 && highIncl)) {
			nodes = append(nodes, aux)
		}
		if resHigh > 0 {
			return walk(aux.right)
		}
		return nil
	}
	if tree.root == nil {
		return nodes, nil
	}
	if err := walk(tree.root); err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return nodes, nil
}

// FloorFunc generalizes Floor to a monotonic predicate over the
// in-order position: it returns the last node satisfying fn, or nil
// when the tree is empty or no node satisfies it.
func (tree *rbTree[K, V]) FloorFunc(fn func(key K, val V) bool) RBNode[K, V] {
	if tree.root.isNilLeaf() {
		return nil
	}
	var candidate *rbNode[K, V]
	for aux := tree.root; aux != nil && !aux.isNilLeaf(); {
		if fn(aux.key, aux.val) {
			candidate = aux
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	if candidate == nil {
		return nil
	}
	return candidate
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// All yields the in-order (key, value) sequence lazily. It walks the
// live links at each step, so it is restartable but not a snapshot;
// callers must not mutate the tree while a pull is in progress.
func (tree *rbTree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for aux := tree.root.minimum(); aux != nil && !aux.isNilLeaf(); aux = aux.succ() {
			if !yield(aux.key, aux.val) {
				return
			}
		}
	}
}

// Release unlinks every node, leaving an empty reusable tree.
func (tree *rbTree[K, V]) Release() {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	tree.root = nil
	tree.min, tree.max = nil, nil
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.isNilLeaf(); aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.right, aux.parent = nil, nil
		atomic.AddInt64(&tree.count, -1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
	tree.logger.Debug("[rbtree] all nodes released")
}
