package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeq2Range yields (names[n], value(n)) for each n in [lo, hi).
func IterSeq2Range[T any](names []string, lo, hi int, value func(n int) T) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for n := lo; n < hi; n++ {
			if !yield(names[n], value(n)) {
				return
			}
		}
	}
}
