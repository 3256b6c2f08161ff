package sorted

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ordkit/ordkit/lib/infra"
)

func TestTreeSet_AddContainsRemove(t *testing.T) {
	s, err := NewTreeSet[string]()
	require.NoError(t, err)

	added, err := s.Add("banana")
	require.NoError(t, err)
	require.True(t, added)
	added, err = s.Add("apple")
	require.NoError(t, err)
	require.True(t, added)
	added, err = s.Add("banana")
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, int64(2), s.Len())

	exists, err := s.Contains("apple")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = s.Contains("cherry")
	require.NoError(t, err)
	require.False(t, exists)

	removed, err := s.Remove("apple")
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = s.Remove("apple")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestTreeSet_OrderedIteration(t *testing.T) {
	s, err := NewTreeSetOf([]int{30, 10, 20, 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), s.Len())
	require.Equal(t, []int{10, 20, 30}, s.Keys())

	var seen []int
	for key := range s.All() {
		seen = append(seen, key)
		if key == 20 {
			break
		}
	}
	require.Equal(t, []int{10, 20}, seen)
}

func TestTreeSet_BoundariesAndPoll(t *testing.T) {
	s, err := NewTreeSetOf([]int{7, 3, 9})
	require.NoError(t, err)

	first, ok := s.First()
	require.True(t, ok)
	require.Equal(t, 3, first)
	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, 9, last)

	key, ok := s.PollFirst()
	require.True(t, ok)
	require.Equal(t, 3, key)
	key, ok = s.PollLast()
	require.True(t, ok)
	require.Equal(t, 9, key)
	require.Equal(t, int64(1), s.Len())

	s.Clear()
	_, ok = s.PollFirst()
	require.False(t, ok)
}

func TestTreeSet_NeighbourAndRange(t *testing.T) {
	s, err := NewTreeSetOf([]int{10, 20, 30, 40})
	require.NoError(t, err)

	key, ok, err := s.Ceiling(15)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 20, key)

	key, ok, err = s.Floor(15)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 10, key)

	key, ok, err = s.Higher(30)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 40, key)

	_, ok, err = s.Lower(10)
	require.NoError(t, err)
	require.False(t, ok)

	keys, err := s.RangeSearch(15, 40, true, false)
	require.NoError(t, err)
	require.Equal(t, []int{20, 30}, keys)
}

func TestTreeSet_TimeKeys(t *testing.T) {
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewTreeSet[time.Time]()
	require.NoError(t, err)

	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		added, err := s.Add(base.Add(offset))
		require.NoError(t, err)
		require.True(t, added)
	}
	// An equal instant in another zone is the same member.
	added, err := s.Add(base.Add(time.Hour).In(time.FixedZone("UTC+8", 8*3600)))
	require.NoError(t, err)
	require.False(t, added)
	require.Equal(t, int64(3), s.Len())

	_, err = s.Add(time.Time{})
	require.ErrorIs(t, err, infra.ErrInvalidTimeKey)
	require.Equal(t, int64(3), s.Len())
}

func TestTreeSet_DescOrder(t *testing.T) {
	s, err := NewTreeSetOf([]string{"a", "c", "b"}, WithDescOrder[string]())
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, s.Keys())
}
