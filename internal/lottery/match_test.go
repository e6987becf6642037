package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name     string
		numbers  []int
		draws    [][]int
		expected int
	}{
		{
			name:     "no draws scores zero",
			numbers:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			draws:    nil,
			expected: 0,
		},
		{
			name:     "single draw matches five",
			numbers:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			draws:    [][]int{{1, 2, 3, 4, 5}},
			expected: 5,
		},
		{
			name:     "second draw completes full match",
			numbers:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			draws:    [][]int{{1, 2, 3, 4, 5}, {6, 7, 8, 20, 21}},
			expected: 10,
		},
		{
			name:     "duplicates saturate at pooled supply",
			numbers:  []int{7, 7, 7, 7, 1, 2, 3, 4, 5, 6},
			draws:    [][]int{{7, 7, 1, 2, 3}},
			expected: 5, // two 7s plus 1,2,3
		},
		{
			name:     "pooled supply spans draws",
			numbers:  []int{7, 7, 7, 7, 1, 2, 3, 4, 5, 6},
			draws:    [][]int{{7, 10, 11, 12, 13}, {7, 7, 14, 15, 16}},
			expected: 3,
		},
		{
			name:     "draw numbers outside ticket do not count",
			numbers:  []int{1, 1, 1, 1, 2, 2, 2, 2, 3, 3},
			draws:    [][]int{{20, 21, 22, 23, 24}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeMatches(tt.numbers, tt.draws))
		})
	}
}

// TestMatchOrderIndependenceProperty checks that permuting the ticket's
// numbers or the order of the draws never changes the match count.
func TestMatchOrderIndependenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numbers := rapid.SliceOfN(rapid.IntRange(1, 25), 10, 10).Draw(t, "numbers")
		drawCount := rapid.IntRange(0, 5).Draw(t, "drawCount")
		draws := make([][]int, drawCount)
		for i := range draws {
			draws[i] = rapid.SliceOfN(rapid.IntRange(1, 25), 5, 5).Draw(t, "draw")
		}

		base := ComputeMatches(numbers, draws)

		shuffled := make([]int, len(numbers))
		copy(shuffled, numbers)
		perm := rapid.Permutation(shuffled).Draw(t, "ticketPerm")
		reordered := rapid.Permutation(append([][]int(nil), draws...)).Draw(t, "drawPerm")

		if got := ComputeMatches(perm, reordered); got != base {
			t.Fatalf("match count changed under permutation: %d vs %d", got, base)
		}
	})
}

// TestMatchMonotonicityProperty checks that appending a draw never
// decreases a ticket's match count.
func TestMatchMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numbers := rapid.SliceOfN(rapid.IntRange(1, 25), 10, 10).Draw(t, "numbers")
		drawCount := rapid.IntRange(0, 4).Draw(t, "drawCount")
		draws := make([][]int, drawCount)
		for i := range draws {
			draws[i] = rapid.SliceOfN(rapid.IntRange(1, 25), 5, 5).Draw(t, "draw")
		}
		extra := rapid.SliceOfN(rapid.IntRange(1, 25), 5, 5).Draw(t, "extra")

		before := ComputeMatches(numbers, draws)
		after := ComputeMatches(numbers, append(draws, extra))

		if after < before {
			t.Fatalf("adding draw %v decreased matches from %d to %d", extra, before, after)
		}
	})
}

// TestMatchSaturationProperty checks that matches never exceed the
// ticket length or the pooled draw supply.
func TestMatchSaturationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numbers := rapid.SliceOfN(rapid.IntRange(1, 25), 10, 10).Draw(t, "numbers")
		drawCount := rapid.IntRange(0, 5).Draw(t, "drawCount")
		draws := make([][]int, drawCount)
		pooled := 0
		for i := range draws {
			draws[i] = rapid.SliceOfN(rapid.IntRange(1, 25), 5, 5).Draw(t, "draw")
			pooled += len(draws[i])
		}

		got := ComputeMatches(numbers, draws)
		if got > len(numbers) || got > pooled {
			t.Fatalf("matches %d exceeds ticket length %d or pool %d", got, len(numbers), pooled)
		}
	})
}
