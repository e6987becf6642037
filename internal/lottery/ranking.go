package lottery

import (
	"sort"

	"bolao-pool/internal/model"
)

// Rank builds the cycle leaderboard: every eligible ticket scored
// against the full draw history, ordered by matches descending. Ties
// keep their input order, so ranking the same inputs twice yields the
// same sequence. Each ticket is scored against a fresh pool; a shared
// pool would be depleted by earlier tickets.
//
// Rank only reads its inputs and is safe for concurrent callers. Top-N
// display is a caller-side slice of the result.
func Rank(tickets []model.Ticket, draws []model.Draw) []model.RankedTicket {
	drawNumbers := make([][]int, len(draws))
	for i, d := range draws {
		drawNumbers[i] = d.Numbers
	}

	ranked := make([]model.RankedTicket, 0, len(tickets))
	for _, t := range tickets {
		if !RankEligible(t.Status) {
			continue
		}
		ranked = append(ranked, model.RankedTicket{
			Ticket:  t,
			Matches: ComputeMatches(t.Numbers, drawNumbers),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Matches > ranked[j].Matches
	})
	return ranked
}
