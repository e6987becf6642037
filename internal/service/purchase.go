// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/lottery"
	"bolao-pool/internal/model"
	"bolao-pool/internal/pkg/lock"
	"bolao-pool/internal/repository"
)

// Purchase-related errors.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTransientConflict = errors.New("transient conflict, retry")
	ErrDuplicateRequest  = errors.New("duplicate purchase request")
	ErrPurchasesPaused   = errors.New("purchases are paused for this cycle")
	ErrNoTickets         = errors.New("no ticket number sets supplied")
	ErrInvalidPrice      = errors.New("unit price must be positive")
)

// PurchaseInput describes one client purchase of one or more tickets.
type PurchaseInput struct {
	UserID     string
	NumberSets [][]int
	UnitPrice  int64
	BuyerName  string
	BuyerPhone string
	// RequestID is an optional caller-generated id. Replaying a request
	// with the same id fails with ErrDuplicateRequest instead of
	// double-charging.
	RequestID string
}

// PurchaseResult is the outcome of a committed purchase.
type PurchaseResult struct {
	Tickets    []model.Ticket
	NewBalance int64
}

// PurchaseService is the only write path that debits a balance and
// mints client tickets. The debit and every ticket insert commit as one
// unit or not at all.
type PurchaseService struct {
	pool     *pgxpool.Pool
	users    *repository.UserRepository
	tickets  *repository.TicketRepository
	draws    *repository.DrawRepository
	rules    lottery.Rules
	accounts *lock.AccountLock

	maxAttempts  int
	retryBackoff time.Duration
	lockTimeout  time.Duration
}

// NewPurchaseService creates a new PurchaseService instance.
func NewPurchaseService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	tickets *repository.TicketRepository,
	draws *repository.DrawRepository,
	rules lottery.Rules,
	accounts *lock.AccountLock,
	maxAttempts int,
	retryBackoff time.Duration,
	lockTimeout time.Duration,
) *PurchaseService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &PurchaseService{
		pool:         pool,
		users:        users,
		tickets:      tickets,
		draws:        draws,
		rules:        rules,
		accounts:     accounts,
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
		lockTimeout:  lockTimeout,
	}
}

// Purchase debits the account and mints one ticket per number set.
// Validation happens before any store interaction; a failed purchase
// performs no writes. Concurrent purchases for the same account are
// linearized by the per-account lock and by the row lock inside the
// transaction; different accounts proceed in parallel.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	if len(in.NumberSets) == 0 {
		return nil, ErrNoTickets
	}
	if in.UnitPrice <= 0 {
		return nil, ErrInvalidPrice
	}
	for _, numbers := range in.NumberSets {
		if err := s.rules.ValidateTicket(numbers); err != nil {
			return nil, fmt.Errorf("invalid ticket: %w", err)
		}
	}

	drawCount, err := s.draws.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check pause state: %w", err)
	}
	if drawCount > 0 {
		return nil, ErrPurchasesPaused
	}

	var result *PurchaseResult
	err = s.accounts.WithLockContext(ctx, in.UserID, s.lockTimeout, func() error {
		var attemptErr error
		for attempt := 0; attempt < s.maxAttempts; attempt++ {
			if attempt > 0 {
				select {
				case <-time.After(s.retryBackoff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			result, attemptErr = s.purchaseOnce(ctx, in)
			if attemptErr == nil || !isRetryableTxError(attemptErr) {
				return attemptErr
			}
		}
		return fmt.Errorf("%w: %v", ErrTransientConflict, attemptErr)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PurchaseService) purchaseOnce(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	// Once the transaction starts, caller cancellation must not be able
	// to split the debit from the ticket inserts; the commit decides.
	txCtx := context.WithoutCancel(ctx)

	tx, err := s.pool.Begin(txCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(txCtx)

	users := s.users.WithTx(tx)
	tickets := s.tickets.WithTx(tx)

	balance, err := users.GetBalanceForUpdate(txCtx, in.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	totalCost := int64(len(in.NumberSets)) * in.UnitPrice
	if balance < totalCost {
		return nil, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, balance, totalCost)
	}

	if in.RequestID != "" {
		if err := tickets.RecordPurchaseRequest(txCtx, in.RequestID, in.UserID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrDuplicateRequest
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	created := make([]model.Ticket, 0, len(in.NumberSets))
	for _, numbers := range in.NumberSets {
		buyerID := in.UserID
		t := model.Ticket{
			ID:         uuid.NewString(),
			Numbers:    lottery.Canonical(numbers),
			Status:     model.StatusActive,
			CreatedAt:  now,
			BuyerName:  in.BuyerName,
			BuyerPhone: in.BuyerPhone,
			BuyerID:    &buyerID,
		}
		if err := tickets.Insert(txCtx, &t); err != nil {
			return nil, err
		}
		created = append(created, t)
	}

	newBalance := balance - totalCost
	if err := users.SetBalance(txCtx, in.UserID, newBalance); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return &PurchaseResult{Tickets: created, NewBalance: newBalance}, nil
}

// isRetryableTxError reports whether the error is write contention the
// caller can retry: serialization failure or deadlock.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
