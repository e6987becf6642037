// Package lottery implements the settlement core: multiset matching of
// tickets against the accumulated draw history, effective-status
// derivation, leaderboard ranking, and ticket generation/validation.
package lottery

// Multiset counts how many instances of each value remain available.
// It is the matching primitive: a single pool is consumed by one ticket's
// matching pass, so duplicate ticket numbers cannot double-count against
// a single pooled draw instance.
type Multiset struct {
	counts map[int]int
	size   int
}

// NewMultiset builds a multiset from values in one counting pass.
// Values are not validated against any domain; callers validate.
func NewMultiset(values []int) *Multiset {
	m := &Multiset{counts: make(map[int]int, len(values))}
	for _, v := range values {
		m.counts[v]++
		m.size++
	}
	return m
}

// Take consumes one instance of v if any remain, reporting whether it did.
func (m *Multiset) Take(v int) bool {
	if m.counts[v] <= 0 {
		return false
	}
	m.counts[v]--
	m.size--
	return true
}

// Count reports how many instances of v remain.
func (m *Multiset) Count(v int) int {
	return m.counts[v]
}

// Len reports the total number of remaining instances.
func (m *Multiset) Len() int {
	return m.size
}
