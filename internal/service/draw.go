package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bolao-pool/internal/lottery"
	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
)

// DrawService publishes and lists draws. Publication is admin-only,
// enforced at the HTTP layer; draws are immutable once created.
type DrawService struct {
	draws *repository.DrawRepository
	rules lottery.Rules
}

// NewDrawService creates a new DrawService instance.
func NewDrawService(draws *repository.DrawRepository, rules lottery.Rules) *DrawService {
	return &DrawService{draws: draws, rules: rules}
}

// Publish validates and records a new draw for the active cycle.
func (s *DrawService) Publish(ctx context.Context, name string, numbers []int) (*model.Draw, error) {
	if err := s.rules.ValidateDraw(numbers); err != nil {
		return nil, fmt.Errorf("invalid draw: %w", err)
	}

	d := model.Draw{
		ID:        uuid.NewString(),
		Name:      name,
		Numbers:   lottery.Canonical(numbers),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.draws.Insert(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns the active cycle's draws in publication order.
func (s *DrawService) List(ctx context.Context) ([]model.Draw, error) {
	return s.draws.ListAll(ctx)
}
