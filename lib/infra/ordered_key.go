package infra

import (
	"errors"
	"math"
	"reflect"
	"time"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

var (
	ErrNaNKey             = errors.New("[ordered-key] nan key is unable to be ordered")
	ErrInvalidTimeKey     = errors.New("[ordered-key] zero time key is unable to be ordered")
	ErrUnsupportedKeyType = errors.New("[ordered-key] key type requires a custom comparator")
)

// KeyComparator orders two keys and rules every ordering decision of
// the container that holds it.
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return positive)
//  3. i < j (return negative)
//
// A non-nil error is a comparison failure. It must be raised to the
// caller of the triggering operation before any structural mutation.
type KeyComparator[K any] func(i, j K) (int64, error)

// OrderedKeyCompare is the statically typed default comparator for
// keys under the OrderedKey constraint. Negative and positive float
// zero keys compare equal, a NaN float key fails the comparison.
func OrderedKeyCompare[K OrderedKey]() KeyComparator[K] {
	return func(i, j K) (int64, error) {
		// Only a float NaN satisfies k != k.
		if i != i || j != j {
			return 0, ErrNaNKey
		}
		if i == j {
			return 0, nil
		} else if i < j {
			return -1, nil
		}
		return 1, nil
	}
}

// TimeKeyCompare orders time.Time keys by instant. The zero time is
// rejected as an invalid key.
func TimeKeyCompare() KeyComparator[time.Time] {
	return func(i, j time.Time) (int64, error) {
		if i.IsZero() || j.IsZero() {
			return 0, ErrInvalidTimeKey
		}
		if i.Before(j) {
			return -1, nil
		} else if i.After(j) {
			return 1, nil
		}
		return 0, nil
	}
}

// ComparatorFor builds the default comparator for an arbitrary key
// type K: integer and float kinds compare numerically (NaN fails),
// string kinds compare lexicographically, time.Time compares by
// instant. Any other key category is unsupported and the caller has
// to configure a custom comparator instead.
func ComparatorFor[K any]() (KeyComparator[K], error) {
	var zero K
	if _, ok := any(zero).(time.Time); ok {
		tcmp := TimeKeyCompare()
		return func(i, j K) (int64, error) {
			return tcmp(any(i).(time.Time), any(j).(time.Time))
		}, nil
	}

	rtype := reflect.TypeOf(zero)
	if rtype == nil {
		return nil, ErrUnsupportedKeyType
	}
	switch rtype.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(i, j K) (int64, error) {
			vi, vj := reflect.ValueOf(i).Int(), reflect.ValueOf(j).Int()
			if vi == vj {
				return 0, nil
			} else if vi < vj {
				return -1, nil
			}
			return 1, nil
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(i, j K) (int64, error) {
			vi, vj := reflect.ValueOf(i).Uint(), reflect.ValueOf(j).Uint()
			if vi == vj {
				return 0, nil
			} else if vi < vj {
				return -1, nil
			}
			return 1, nil
		}, nil
	case reflect.Float32, reflect.Float64:
		return func(i, j K) (int64, error) {
			vi, vj := reflect.ValueOf(i).Float(), reflect.ValueOf(j).Float()
			if math.IsNaN(vi) || math.IsNaN(vj) {
				return 0, ErrNaNKey
			}
			// +0.0 and -0.0 compare equal here.
			if vi == vj {
				return 0, nil
			} else if vi < vj {
				return -1, nil
			}
			return 1, nil
		}, nil
	case reflect.String:
		return func(i, j K) (int64, error) {
			vi, vj := reflect.ValueOf(i).String(), reflect.ValueOf(j).String()
			if vi == vj {
				return 0, nil
			} else if vi < vj {
				return -1, nil
			}
			return 1, nil
		}, nil
	default:
	}
	return nil, ErrUnsupportedKeyType
}
