// Package xiter provides lazy combinators over iter.Seq2 sequences so
// ordered-container iteration composes without intermediate slices.
package xiter

import "iter"

// Pair materializes one element of a Seq2.
type Pair[K any, V any] struct {
	Key K
	Val V
}

// Map transforms every value of seq, keeping keys and order.
func Map[K any, V any, R any](seq iter.Seq2[K, V], fn func(key K, val V) R) iter.Seq2[K, R] {
	return func(yield func(K, R) bool) {
		for key, val := range seq {
			if !yield(key, fn(key, val)) {
				return
			}
		}
	}
}

// Filter keeps the elements of seq accepted by pred.
func Filter[K any, V any](seq iter.Seq2[K, V], pred func(key K, val V) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for key, val := range seq {
			if pred(key, val) && !yield(key, val) {
				return
			}
		}
	}
}

// Take stops seq after its first n elements.
func Take[K any, V any](seq iter.Seq2[K, V], n int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if n <= 0 {
			return
		}
		rest := n
		for key, val := range seq {
			if !yield(key, val) {
				return
			}
			if rest--; rest == 0 {
				return
			}
		}
	}
}

// Reduce folds seq into a single accumulator value.
func Reduce[K any, V any, A any](seq iter.Seq2[K, V], acc A, fn func(acc A, key K, val V) A) A {
	for key, val := range seq {
		acc = fn(acc, key, val)
	}
	return acc
}

// Every reports whether pred holds for all elements. An empty sequence
// counts as true.
func Every[K any, V any](seq iter.Seq2[K, V], pred func(key K, val V) bool) bool {
	for key, val := range seq {
		if !pred(key, val) {
			return false
		}
	}
	return true
}

// Some reports whether pred holds for at least one element, stopping
// at the first hit.
func Some[K any, V any](seq iter.Seq2[K, V], pred func(key K, val V) bool) bool {
	for key, val := range seq {
		if pred(key, val) {
			return true
		}
	}
	return false
}

// Find returns the first element accepted by pred.
func Find[K any, V any](seq iter.Seq2[K, V], pred func(key K, val V) bool) (Pair[K, V], bool) {
	for key, val := range seq {
		if pred(key, val) {
			return Pair[K, V]{Key: key, Val: val}, true
		}
	}
	var zero Pair[K, V]
	return zero, false
}

// ForEach visits every element of seq.
func ForEach[K any, V any](seq iter.Seq2[K, V], fn func(key K, val V)) {
	for key, val := range seq {
		fn(key, val)
	}
}

// ToSlice drains seq into pairs.
func ToSlice[K any, V any](seq iter.Seq2[K, V]) []Pair[K, V] {
	var pairs []Pair[K, V]
	for key, val := range seq {
		pairs = append(pairs, Pair[K, V]{Key: key, Val: val})
	}
	return pairs
}

// Keys projects seq onto its keys.
func Keys[K any, V any](seq iter.Seq2[K, V]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range seq {
			if !yield(key) {
				return
			}
		}
	}
}

// Values projects seq onto its values.
func Values[K any, V any](seq iter.Seq2[K, V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, val := range seq {
			if !yield(val) {
				return
			}
		}
	}
}
