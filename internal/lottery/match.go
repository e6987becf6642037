package lottery

// ComputeMatches scores one ticket against the accumulated draw history.
// Every draw's numbers are pooled into one multiset and each ticket
// number consumes at most one pooled instance, so a ticket holding four
// 7s against a pool holding two 7s scores exactly 2 for that value.
// The result does not depend on the order of the ticket's numbers or on
// the order the draws were recorded, and it never decreases when a draw
// is added. Empty draw history scores 0.
func ComputeMatches(numbers []int, draws [][]int) int {
	if len(draws) == 0 {
		return 0
	}

	total := 0
	for _, d := range draws {
		total += len(d)
	}
	pooled := make([]int, 0, total)
	for _, d := range draws {
		pooled = append(pooled, d...)
	}

	pool := NewMultiset(pooled)
	matches := 0
	for _, n := range numbers {
		if pool.Take(n) {
			matches++
		}
	}
	return matches
}
