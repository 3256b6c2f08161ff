// Package sorted derives value-semantics ordered containers from the
// red-black tree engine in lib/tree: a key-only set, a key-to-value
// map, a key-to-bucket multi map and a key-to-multiplicity multi set.
// All of them share one engine instance each and one comparator fixed
// at construction.
package sorted

import (
	"go.uber.org/zap"

	"github.com/ordkit/ordkit/lib/infra"
	"github.com/ordkit/ordkit/lib/tree"
)

// Entry is one (key, value) pair of an ordered container.
type Entry[K any, V any] struct {
	Key K
	Val V
}

type config[K any] struct {
	kcmp   infra.KeyComparator[K]
	logger *zap.Logger
	desc   bool
}

type Opt[K any] func(*config[K])

// WithKeyComparator overrides the default comparator of K.
func WithKeyComparator[K any](kcmp infra.KeyComparator[K]) Opt[K] {
	return func(cfg *config[K]) {
		cfg.kcmp = kcmp
	}
}

// WithDescOrder reverses the comparator outcome for every ordering
// decision.
func WithDescOrder[K any]() Opt[K] {
	return func(cfg *config[K]) {
		cfg.desc = true
	}
}

func WithLogger[K any](logger *zap.Logger) Opt[K] {
	return func(cfg *config[K]) {
		cfg.logger = logger
	}
}

func loadConfig[K any](opts ...Opt[K]) (*config[K], error) {
	cfg := &config[K]{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.kcmp == nil {
		kcmp, err := infra.ComparatorFor[K]()
		if err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[sorted] key type without a default comparator")
		}
		cfg.kcmp = kcmp
	}
	return cfg, nil
}

func newEngine[K any, V any](cfg *config[K]) (tree.RBTree[K, V], error) {
	topts := []tree.RBTreeOpt[K, V]{
		tree.WithRBTreeComparator[K, V](cfg.kcmp),
	}
	if cfg.desc {
		topts = append(topts, tree.WithRBTreeDesc[K, V]())
	}
	if cfg.logger != nil {
		topts = append(topts, tree.WithRBTreeLogger[K, V](cfg.logger))
	}
	return tree.NewRBTree[K, V](topts...)
}

// ascendingHint reports whether last can shortcut the next insertion:
// it has to still be the engine's rightmost node and order strictly
// before the incoming key, which makes the new node the next rightmost
// and the hinted attach an O(1) structural step.
func ascendingHint[K any, V any](cfg *config[K], engine tree.RBTree[K, V], last tree.RBNode[K, V], key K) tree.RBNode[K, V] {
	if last == nil || last != engine.Last() {
		return nil
	}
	res, err := cfg.kcmp(key, last.Key())
	if err != nil {
		// The insertion itself will surface the comparison failure.
		return nil
	}
	if cfg.desc {
		res = -res
	}
	if res > 0 {
		return last
	}
	return nil
}
