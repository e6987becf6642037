package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bolao-pool/internal/lottery"
	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
)

// Sale-related errors.
var (
	ErrNotSeller         = errors.New("account is not a seller")
	ErrNotSaleOwner      = errors.New("ticket belongs to another seller")
	ErrInvalidTransition = errors.New("invalid payment state transition")
)

// SaleInput describes a cash sale a reseller records.
type SaleInput struct {
	SellerID   string
	Numbers    []int
	BuyerName  string
	BuyerPhone string
}

// SaleService records reseller cash sales and their payment events.
// Sales bypass the ledger: no balance is debited, the ticket carries
// the seller id and starts awaiting payment.
type SaleService struct {
	users   *repository.UserRepository
	tickets *repository.TicketRepository
	draws   *repository.DrawRepository
	rules   lottery.Rules
}

// NewSaleService creates a new SaleService instance.
func NewSaleService(
	users *repository.UserRepository,
	tickets *repository.TicketRepository,
	draws *repository.DrawRepository,
	rules lottery.Rules,
) *SaleService {
	return &SaleService{users: users, tickets: tickets, draws: draws, rules: rules}
}

// RecordSale validates and inserts a reseller-recorded ticket.
func (s *SaleService) RecordSale(ctx context.Context, in SaleInput) (*model.Ticket, error) {
	if err := s.rules.ValidateTicket(in.Numbers); err != nil {
		return nil, fmt.Errorf("invalid ticket: %w", err)
	}

	seller, err := s.users.GetByID(ctx, in.SellerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if seller.Role != model.RoleSeller {
		return nil, ErrNotSeller
	}

	drawCount, err := s.draws.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check pause state: %w", err)
	}
	if drawCount > 0 {
		return nil, ErrPurchasesPaused
	}

	sellerID := in.SellerID
	t := model.Ticket{
		ID:             uuid.NewString(),
		Numbers:        lottery.Canonical(in.Numbers),
		Status:         model.StatusAwaitingPayment,
		CreatedAt:      time.Now().UTC(),
		BuyerName:      in.BuyerName,
		BuyerPhone:     in.BuyerPhone,
		SellerID:       &sellerID,
		SellerUsername: seller.Username,
	}
	if err := s.tickets.Insert(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ConfirmPayment moves an awaiting-payment sale to active once the
// seller collected the cash.
func (s *SaleService) ConfirmPayment(ctx context.Context, sellerID, ticketID string) (*model.Ticket, error) {
	return s.transition(ctx, sellerID, ticketID, model.StatusAwaitingPayment, model.StatusActive)
}

// MarkUnpaid moves an awaiting-payment sale to unpaid when the buyer
// never paid. Unpaid is terminal for display regardless of matches.
func (s *SaleService) MarkUnpaid(ctx context.Context, sellerID, ticketID string) (*model.Ticket, error) {
	return s.transition(ctx, sellerID, ticketID, model.StatusAwaitingPayment, model.StatusUnpaid)
}

func (s *SaleService) transition(ctx context.Context, sellerID, ticketID string, from, to model.Status) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.SellerID == nil || *t.SellerID != sellerID {
		return nil, ErrNotSaleOwner
	}
	if t.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	if err := s.tickets.UpdateStatus(ctx, ticketID, to); err != nil {
		return nil, err
	}
	t.Status = to
	return t, nil
}

// SalesForSeller lists the tickets a reseller recorded this cycle.
func (s *SaleService) SalesForSeller(ctx context.Context, sellerID string) ([]model.Ticket, error) {
	return s.tickets.ListBySeller(ctx, sellerID)
}
