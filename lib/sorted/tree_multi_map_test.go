package sorted

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestTreeMultiMap_AddAccumulates(t *testing.T) {
	mm, err := NewTreeMultiMap[int, string]()
	require.NoError(t, err)

	require.NoError(t, mm.Add(1, "a"))
	require.NoError(t, mm.Add(1, "b"))
	require.NoError(t, mm.Add(2, "c"))

	require.Equal(t, int64(3), mm.Len())
	require.Equal(t, int64(2), mm.KeyLen())

	vals, err := mm.Values(1)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, vals)

	n, err := mm.Count(1)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = mm.Count(99)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTreeMultiMap_LiveBucket(t *testing.T) {
	mm, err := NewTreeMultiMap[int, string]()
	require.NoError(t, err)
	require.NoError(t, mm.Add(1, "a"))
	require.NoError(t, mm.Add(1, "b"))

	bucket, ok, err := mm.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, bucket.Values())

	// Appending through the bucket is visible to the map.
	bucket.Append("c")
	vals, err := mm.Values(1)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, vals)
	require.Equal(t, int64(3), mm.Len())

	val, ok := bucket.At(1)
	require.True(t, ok)
	require.Equal(t, "b", val)
	_, ok = bucket.At(3)
	require.False(t, ok)

	removed, ok := bucket.RemoveAt(0)
	require.True(t, ok)
	require.Equal(t, "a", removed)
	require.Equal(t, int64(2), mm.Len())
}

func TestTreeMultiMap_EmptiedBucketKeepsKey(t *testing.T) {
	mm, err := NewTreeMultiMap[int, string]()
	require.NoError(t, err)
	require.NoError(t, mm.Add(1, "only"))

	bucket, ok, err := mm.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	_, ok = bucket.RemoveAt(0)
	require.True(t, ok)

	require.Zero(t, bucket.Len())
	require.Zero(t, mm.Len())
	require.Equal(t, int64(1), mm.KeyLen())
	exists, err := mm.Has(1)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestTreeMultiMap_DeleteDropsWholeBucket(t *testing.T) {
	mm, err := NewTreeMultiMapFromEntries([]Entry[int, string]{
		{1, "a"}, {1, "b"}, {2, "c"},
	})
	require.NoError(t, err)

	n, err := mm.Delete(1)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, int64(1), mm.Len())
	require.Equal(t, int64(1), mm.KeyLen())

	n, err = mm.Delete(1)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTreeMultiMap_DetachedBucketStopsCounting(t *testing.T) {
	mm, err := NewTreeMultiMap[int, string]()
	require.NoError(t, err)
	require.NoError(t, mm.Add(1, "a"))

	bucket, ok, err := mm.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = mm.Delete(1)
	require.NoError(t, err)

	// The detached bucket stays usable but no longer feeds the map's
	// aggregate length.
	bucket.Append("b")
	require.Zero(t, mm.Len())
	require.Equal(t, 2, bucket.Len())
}

func TestTreeMultiMap_OrderedViews(t *testing.T) {
	mm, err := NewTreeMultiMapFromEntries([]Entry[int, string]{
		{3, "x"}, {1, "a"}, {1, "b"}, {2, "m"},
	})
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, mm.Keys())

	key, bucket, ok := mm.First()
	require.True(t, ok)
	require.Equal(t, 1, key)
	require.Equal(t, 2, bucket.Len())
	key, _, ok = mm.Last()
	require.True(t, ok)
	require.Equal(t, 3, key)

	key, _, ok, err = mm.Ceiling(2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, key)
	key, _, ok, err = mm.Floor(0)
	require.NoError(t, err)
	require.False(t, ok)

	entries, err := mm.RangeSearch(1, 2, true, true)
	require.NoError(t, err)
	require.Equal(t, []Entry[int, string]{{1, "a"}, {1, "b"}, {2, "m"}}, entries)

	var flat []string
	for _, val := range mm.All() {
		flat = append(flat, val)
	}
	require.Equal(t, []string{"a", "b", "m", "x"}, flat)
}

func TestTreeMultiMap_GroupedBulkLoad(t *testing.T) {
	groups := [][]Entry[string, int]{
		{{"b", 1}, {"b", 2}},
		{{"a", 3}},
		{{"c", 4}, {"c", 5}, {"c", 6}},
	}
	mm, err := NewTreeMultiMapFromEntries(lo.Flatten(groups))
	require.NoError(t, err)

	require.Equal(t, int64(6), mm.Len())
	require.Equal(t, []string{"a", "b", "c"}, mm.Keys())
	vals, err := mm.Values("c")
	require.NoError(t, err)
	require.Equal(t, []int{4, 5, 6}, vals)
}

func TestTreeMultiMap_Clear(t *testing.T) {
	mm, err := NewTreeMultiMapFromEntries([]Entry[int, int]{{1, 1}, {2, 2}})
	require.NoError(t, err)

	bucket, ok, err := mm.Get(1)
	require.NoError(t, err)
	require.True(t, ok)

	mm.Clear()
	require.Zero(t, mm.Len())
	require.Zero(t, mm.KeyLen())

	// Buckets surviving a clear are detached.
	bucket.Append(9)
	require.Zero(t, mm.Len())
}
