package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidates = []string{"Clipboard History", "Browse Files", "Web Search", "Open Terminal", "Calculator"}

func TestNew(t *testing.T) {
	idx, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Rank{}, idx)

	idx, err = New(AlgorithmFold)
	require.NoError(t, err)
	assert.IsType(t, Fold{}, idx)

	_, err = New("regex")
	assert.Error(t, err)
	assert.False(t, Valid("regex"))
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		assert.Equal(t, []int{0, 1, 2, 3, 4}, idx.Filter("", candidates))
	}
}

func TestFilter_NoMatch(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		assert.Empty(t, idx.Filter("xyzzy", candidates))
	}
}

func TestFilter_EmptyCandidates(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		assert.Empty(t, idx.Filter("a", nil))
	}
}

func TestFilter_Subsequence(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		got := idx.Filter("clip", candidates)
		require.NotEmpty(t, got)
		assert.Equal(t, 0, got[0])
	}
}

func TestFilter_Stable(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		first := idx.Filter("e", candidates)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, idx.Filter("e", candidates))
		}
	}
}

func TestFilter_IndicesInRange(t *testing.T) {
	for _, idx := range []Index{Rank{}, Fold{}} {
		for _, q := range []string{"a", "o", "er", "s"} {
			for _, i := range idx.Filter(q, candidates) {
				assert.GreaterOrEqual(t, i, 0)
				assert.Less(t, i, len(candidates))
			}
		}
	}
}

func TestFold_CaseInsensitive(t *testing.T) {
	got := Fold{}.Filter("WEB", candidates)
	assert.Equal(t, []int{2}, got)
}
