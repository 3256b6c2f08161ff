package sorted

import (
	"io"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

type SafeStoreKeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

// ThreadSafeOrderedStorer is an ordered drop-in for a guarded hash map
// store: the same surface, but ListKeys and ListValues come back in
// key order and the boundary entries are reachable directly.
type ThreadSafeOrderedStorer[K any, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V) error
	Replace(entries []Entry[K, V]) error
	Delete(key K) error
	Get(key K) (item V, exists bool)
	First() (Entry[K, V], bool)
	Last() (Entry[K, V], bool)
	Len() int64
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}

type threadSafeTreeMap[K any, V any] struct {
	lock           sync.RWMutex
	store          *TreeMap[K, V]
	opts           []Opt[K]
	logger         *zap.Logger
	isClosableItem bool
}

func (t *threadSafeTreeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.store.Set(key, obj)
}

// Replace swaps the whole content for entries, built as a fresh tree
// outside the write critical section.
func (t *threadSafeTreeMap[K, V]) Replace(entries []Entry[K, V]) error {
	next, err := NewTreeMapFromEntries(entries, t.opts...)
	if err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.store = next
	return nil
}

func (t *threadSafeTreeMap[K, V]) Delete(key K) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	_, err := t.store.Delete(key)
	return err
}

func (t *threadSafeTreeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	item, exists, err := t.store.Get(key)
	if err != nil {
		var zero V
		return zero, false
	}
	return item, exists
}

func (t *threadSafeTreeMap[K, V]) First() (Entry[K, V], bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.store.First()
}

func (t *threadSafeTreeMap[K, V]) Last() (Entry[K, V], bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.store.Last()
}

func (t *threadSafeTreeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.store.Len()
}

// ListKeys returns the keys passing any of the filters, in key order.
func (t *threadSafeTreeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := make([]SafeStoreKeyFilterFunc[K], 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			realFilters = append(realFilters, filter)
		}
	}
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, t.store.Len())
	for key := range t.store.All() {
		for _, filter := range realFilters {
			if filter(key) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys
}

// ListValues returns the values of keys in key order, or every value
// when no keys are given. Absent keys are skipped.
func (t *threadSafeTreeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		return t.store.Values()
	}
	values := make([]V, 0, len(keys))
	for _, key := range keys {
		if item, exists, err := t.store.Get(key); err == nil && exists {
			values = append(values, item)
		}
	}
	return values
}

func (t *threadSafeTreeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.isClosableItem {
		for _, item := range t.store.Values() {
			rv := reflect.ValueOf(item)
			switch rv.Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
				if rv.IsNil() {
					continue
				}
			}
			if closer, ok := any(item).(io.Closer); ok {
				if err := closer.Close(); err != nil {
					t.logger.Error("purge close failure", zap.Error(err))
				}
			}
		}
	}

	t.store.Clear()
	return nil
}

// NewThreadSafeTreeMap builds an ordered store guarded by a RWMutex.
// When V implements io.Closer, Purge closes every stored value before
// dropping it.
func NewThreadSafeTreeMap[K any, V any](opts ...Opt[K]) (ThreadSafeOrderedStorer[K, V], error) {
	store, err := NewTreeMap[K, V](opts...)
	if err != nil {
		return nil, err
	}

	itemType := reflect.TypeOf((*V)(nil)).Elem()
	isCloserItem := itemType.Implements(reflect.TypeOf((*io.Closer)(nil)).Elem())

	logger := store.cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &threadSafeTreeMap[K, V]{
		store:          store,
		opts:           opts,
		logger:         logger,
		isClosableItem: isCloserItem,
	}, nil
}
