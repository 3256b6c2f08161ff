package infra

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedKeyCompare(t *testing.T) {
	icmp := OrderedKeyCompare[int]()
	res, err := icmp(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)
	res, err = icmp(2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res)
	res, err = icmp(3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res)

	scmp := OrderedKeyCompare[string]()
	res, err = scmp("abc", "abd")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)
}

func TestOrderedKeyCompare_FloatZeroAndNaN(t *testing.T) {
	fcmp := OrderedKeyCompare[float64]()

	res, err := fcmp(math.Copysign(0.0, -1), 0.0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res)

	_, err = fcmp(math.NaN(), 1.0)
	require.ErrorIs(t, err, ErrNaNKey)
	_, err = fcmp(1.0, math.NaN())
	require.ErrorIs(t, err, ErrNaNKey)
}

func TestTimeKeyCompare(t *testing.T) {
	tcmp := TimeKeyCompare()
	now := time.Now()

	res, err := tcmp(now, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)
	res, err = tcmp(now, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res)

	_, err = tcmp(time.Time{}, now)
	require.ErrorIs(t, err, ErrInvalidTimeKey)
}

func TestComparatorFor(t *testing.T) {
	icmp, err := ComparatorFor[int32]()
	require.NoError(t, err)
	res, err := icmp(7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res)

	ucmp, err := ComparatorFor[uint16]()
	require.NoError(t, err)
	res, err = ucmp(5, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)

	fcmp, err := ComparatorFor[float64]()
	require.NoError(t, err)
	_, err = fcmp(math.NaN(), 0.0)
	require.ErrorIs(t, err, ErrNaNKey)
	res, err = fcmp(math.Copysign(0.0, -1), 0.0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res)

	scmp, err := ComparatorFor[string]()
	require.NoError(t, err)
	res, err = scmp("b", "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res)

	wcmp, err := ComparatorFor[time.Time]()
	require.NoError(t, err)
	res, err = wcmp(time.Unix(1, 0), time.Unix(2, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)
}

func TestComparatorFor_UnsupportedKeyTypes(t *testing.T) {
	type opaque struct{ a, b int }

	_, err := ComparatorFor[opaque]()
	require.ErrorIs(t, err, ErrUnsupportedKeyType)

	_, err = ComparatorFor[[]byte]()
	require.ErrorIs(t, err, ErrUnsupportedKeyType)

	_, err = ComparatorFor[any]()
	require.ErrorIs(t, err, ErrUnsupportedKeyType)

	_, err = ComparatorFor[complex128]()
	require.ErrorIs(t, err, ErrUnsupportedKeyType)
}
