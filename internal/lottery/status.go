package lottery

import "bolao-pool/internal/model"

// EffectiveStatus derives the status shown to users from the stored
// status, the ticket's match count, and how many draws the cycle has.
//
// Payment-problem statuses are authoritative: an unpaid or
// awaiting-payment ticket keeps that status no matter how many numbers
// it matched. Otherwise a full match wins outright, a partial match
// after any draw exists is expired, and a cycle with no draws yet keeps
// every ticket in play.
//
// The function is total: an unrecognized stored status is treated as
// active, so bad data can never surface as a silent win.
func EffectiveStatus(stored model.Status, matches, drawCount, ticketLen int) model.Status {
	switch stored {
	case model.StatusUnpaid, model.StatusAwaitingPayment:
		return stored
	}

	switch {
	case matches >= ticketLen:
		return model.StatusWinning
	case drawCount > 0:
		return model.StatusExpired
	default:
		return model.StatusActive
	}
}

// RankEligible reports whether a ticket belongs on the leaderboard,
// judged by its stored status. Payment-blocked and administratively
// expired tickets are out; everything else is a live contender. The
// draw-derived expiry is deliberately not consulted here: once the
// first draw is published every partial-match ticket derives to
// expired, and the leaderboard ranks exactly those tickets.
func RankEligible(stored model.Status) bool {
	switch stored {
	case model.StatusExpired, model.StatusUnpaid, model.StatusAwaitingPayment:
		return false
	default:
		return true
	}
}
