package service

import (
	"context"
	"fmt"

	"bolao-pool/internal/lottery"
	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
)

// RankingService derives the leaderboard and per-user ticket views from
// the committed ticket and draw sets. It only reads; any number of
// concurrent callers is fine.
type RankingService struct {
	tickets *repository.TicketRepository
	draws   *repository.DrawRepository
	rules   lottery.Rules
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(
	tickets *repository.TicketRepository,
	draws *repository.DrawRepository,
	rules lottery.Rules,
) *RankingService {
	return &RankingService{tickets: tickets, draws: draws, rules: rules}
}

// Leaderboard returns the full cycle leaderboard. Callers slice it for
// public top-N display; administrators read the whole sequence.
func (s *RankingService) Leaderboard(ctx context.Context) ([]model.RankedTicket, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}
	return lottery.Rank(tickets, draws), nil
}

// TicketsForUser returns an owner's tickets scored against the draw
// history, with each ticket's status replaced by its derived effective
// status. The stored status is never written back.
func (s *RankingService) TicketsForUser(ctx context.Context, userID string) ([]model.RankedTicket, error) {
	tickets, err := s.tickets.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}

	drawNumbers := make([][]int, len(draws))
	for i, d := range draws {
		drawNumbers[i] = d.Numbers
	}

	out := make([]model.RankedTicket, 0, len(tickets))
	for _, t := range tickets {
		matches := lottery.ComputeMatches(t.Numbers, drawNumbers)
		t.Status = lottery.EffectiveStatus(t.Status, matches, len(draws), s.rules.TicketLength)
		out = append(out, model.RankedTicket{Ticket: t, Matches: matches})
	}
	return out, nil
}

// PurchasesPaused reports whether new purchases are blocked: the cycle
// pauses the moment its first draw is published.
func (s *RankingService) PurchasesPaused(ctx context.Context) (bool, error) {
	count, err := s.draws.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count draws: %w", err)
	}
	return count > 0, nil
}

// HasWinningTicket reports whether any ticket's effective status is
// winning. Display-only signal; the pause predicate does not use it.
func (s *RankingService) HasWinningTicket(ctx context.Context) (bool, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load tickets: %w", err)
	}
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load draws: %w", err)
	}

	drawNumbers := make([][]int, len(draws))
	for i, d := range draws {
		drawNumbers[i] = d.Numbers
	}
	for _, t := range tickets {
		matches := lottery.ComputeMatches(t.Numbers, drawNumbers)
		if lottery.EffectiveStatus(t.Status, matches, len(draws), s.rules.TicketLength) == model.StatusWinning {
			return true, nil
		}
	}
	return false, nil
}
