// Package filter maps a query onto an ordered list of matching candidates.
package filter

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Algorithm names accepted by New.
const (
	AlgorithmRank = "rank"
	AlgorithmFold = "fold"
)

// Index filters candidate strings. The returned indices refer to the
// candidates slice, best match first.
type Index interface {
	Filter(query string, candidates []string) []int
}

// New returns the index for the named algorithm. An empty name selects
// AlgorithmRank.
func New(algorithm string) (Index, error) {
	switch algorithm {
	case "", AlgorithmRank:
		return Rank{}, nil
	case AlgorithmFold:
		return Fold{}, nil
	default:
		return nil, fmt.Errorf("unknown filter algorithm %q (want %s or %s)", algorithm, AlgorithmRank, AlgorithmFold)
	}
}

// Valid reports whether New accepts the algorithm name.
func Valid(algorithm string) bool {
	_, err := New(algorithm)
	return err == nil
}

// Rank scores subsequence matches the way bubbles list filtering does:
// consecutive runs and word starts rank higher.
type Rank struct{}

func (Rank) Filter(query string, candidates []string) []int {
	if query == "" {
		return all(len(candidates))
	}
	ranks := list.DefaultFilter(query, candidates)
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		if r.Index >= 0 && r.Index < len(candidates) {
			out = append(out, r.Index)
		}
	}
	return out
}

// Fold matches case-insensitively with unicode folding and orders results by
// edit distance.
type Fold struct{}

func (Fold) Filter(query string, candidates []string) []int {
	if query == "" {
		return all(len(candidates))
	}
	ranks := fuzzy.RankFindFold(query, candidates)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		if r.OriginalIndex >= 0 && r.OriginalIndex < len(candidates) {
			out = append(out, r.OriginalIndex)
		}
	}
	return out
}

func all(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
