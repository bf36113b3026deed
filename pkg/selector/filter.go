package selector

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultRowScale is the fraction of the scrollable content one row occupies.
const DefaultRowScale = 0.0075

// fold returns s under Unicode case folding.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether title contains filter, ignoring case.
// An empty filter matches every title.
func Matches(title, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(fold(title), fold(filter))
}

// ScrollOffset returns the raw offset that brings row i into view when each
// row accounts for rowScale of the content.
func ScrollOffset(i int, rowScale float64) float64 {
	return float64(i) * rowScale
}

// filterSeq yields (original index, item) for every item whose title matches
// filter, in original order.
func filterSeq[T Item](items []T, filter string) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		needle := fold(filter)
		for i, it := range items {
			if needle != "" && !strings.Contains(fold(it.Title()), needle) {
				continue
			}
			if !yield(i, it) {
				return
			}
		}
	}
}
