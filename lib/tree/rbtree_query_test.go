package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func queryTree(t *testing.T, keys ...int) RBTree[int, int] {
	t.Helper()
	tree := NewOrderedRBTree[int, int]()
	for _, key := range keys {
		require.NoError(t, tree.Insert(key, key*10))
	}
	return tree
}

func TestRBTree_CeilingFloor(t *testing.T) {
	tree := queryTree(t, 10, 20, 30, 40, 50)

	x, err := tree.Ceiling(30)
	require.NoError(t, err)
	require.Equal(t, 30, x.Key())

	x, err = tree.Ceiling(31)
	require.NoError(t, err)
	require.Equal(t, 40, x.Key())

	x, err = tree.Ceiling(50)
	require.NoError(t, err)
	require.Equal(t, 50, x.Key())

	x, err = tree.Ceiling(51)
	require.NoError(t, err)
	require.Nil(t, x)

	x, err = tree.Floor(30)
	require.NoError(t, err)
	require.Equal(t, 30, x.Key())

	x, err = tree.Floor(29)
	require.NoError(t, err)
	require.Equal(t, 20, x.Key())

	x, err = tree.Floor(9)
	require.NoError(t, err)
	require.Nil(t, x)
}

func TestRBTree_HigherLower(t *testing.T) {
	tree := queryTree(t, 10, 20, 30, 40, 50)

	x, err := tree.Higher(30)
	require.NoError(t, err)
	require.Equal(t, 40, x.Key())

	x, err = tree.Higher(29)
	require.NoError(t, err)
	require.Equal(t, 30, x.Key())

	x, err = tree.Higher(50)
	require.NoError(t, err)
	require.Nil(t, x)

	x, err = tree.Lower(30)
	require.NoError(t, err)
	require.Equal(t, 20, x.Key())

	x, err = tree.Lower(31)
	require.NoError(t, err)
	require.Equal(t, 30, x.Key())

	x, err = tree.Lower(10)
	require.NoError(t, err)
	require.Nil(t, x)
}

func TestRBTree_OrderedQueriesOnEmptyTree(t *testing.T) {
	tree := NewOrderedRBTree[int, int]()

	for _, query := range []func(int) (RBNode[int, int], error){
		tree.Ceiling, tree.Floor, tree.Higher, tree.Lower,
	} {
		x, err := query(42)
		require.NoError(t, err)
		require.Nil(t, x)
	}
	require.Nil(t, tree.First())
	require.Nil(t, tree.Last())
	require.Nil(t, tree.FloorFunc(func(key, val int) bool { return true }))
}

func TestRBTree_RangeSearch(t *testing.T) {
	tree := queryTree(t, 1, 2, 3, 4, 5)

	collectKeys := func(nodes []RBNode[int, int]) []int {
		keys := make([]int, 0, len(nodes))
		for _, node := range nodes {
			keys = append(keys, node.Key())
		}
		return keys
	}

	nodes, err := tree.RangeSearch(2, 4, true, true)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, collectKeys(nodes))

	nodes, err = tree.RangeSearch(2, 4, false, false)
	require.NoError(t, err)
	require.Equal(t, []int{3}, collectKeys(nodes))

	nodes, err = tree.RangeSearch(2, 4, true, false)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, collectKeys(nodes))

	nodes, err = tree.RangeSearch(0, 100, true, true)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, collectKeys(nodes))

	nodes, err = tree.RangeSearch(6, 9, true, true)
	require.NoError(t, err)
	require.Empty(t, nodes)

	empty := NewOrderedRBTree[int, int]()
	nodes, err = empty.RangeSearch(0, 10, true, true)
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestRBTree_FloorFunc(t *testing.T) {
	tree := queryTree(t, 10, 20, 30, 40, 50)

	x := tree.FloorFunc(func(key, val int) bool { return key <= 35 })
	require.NotNil(t, x)
	require.Equal(t, 30, x.Key())

	x = tree.FloorFunc(func(key, val int) bool { return key <= 50 })
	require.Equal(t, 50, x.Key())

	x = tree.FloorFunc(func(key, val int) bool { return key < 10 })
	require.Nil(t, x)
}

func TestRBTree_AllSequence(t *testing.T) {
	tree := queryTree(t, 3, 1, 2, 5, 4)

	keys := make([]int, 0, 5)
	vals := make([]int, 0, 5)
	for key, val := range tree.All() {
		keys = append(keys, key)
		vals = append(vals, val)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, keys)
	require.Equal(t, []int{10, 20, 30, 40, 50}, vals)

	// Early stop.
	keys = keys[:0]
	for key := range tree.All() {
		if key > 2 {
			break
		}
		keys = append(keys, key)
	}
	require.Equal(t, []int{1, 2}, keys)

	// Restartable.
	count := 0
	for range tree.All() {
		count++
	}
	require.Equal(t, 5, count)
}

func TestRBTree_ForeachEarlyStop(t *testing.T) {
	tree := queryTree(t, 1, 2, 3, 4, 5)

	visited := 0
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		visited++
		return idx < 2
	})
	require.Equal(t, 3, visited)
}
