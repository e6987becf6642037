package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/model"
)

const ticketColumns = "id, numbers, status, created_at, buyer_name, buyer_phone, buyer_id, seller_id, seller_username"

// TicketRepository handles ticket persistence. Numbers are stored as a
// BIGINT[] column in canonical ascending order.
type TicketRepository struct {
	db Querier
}

// NewTicketRepository creates a new TicketRepository instance.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TicketRepository) WithTx(tx pgx.Tx) *TicketRepository {
	return &TicketRepository{db: tx}
}

func toInt64s(numbers []int) []int64 {
	out := make([]int64, len(numbers))
	for i, n := range numbers {
		out[i] = int64(n)
	}
	return out
}

func toInts(numbers []int64) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = int(n)
	}
	return out
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var (
		t       model.Ticket
		numbers []int64
	)
	err := row.Scan(&t.ID, &numbers, &t.Status, &t.CreatedAt,
		&t.BuyerName, &t.BuyerPhone, &t.BuyerID, &t.SellerID, &t.SellerUsername)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	t.Numbers = toInts(numbers)
	return &t, nil
}

// Insert creates a ticket record.
func (r *TicketRepository) Insert(ctx context.Context, t *model.Ticket) error {
	const query = `
		INSERT INTO tickets (id, numbers, status, created_at, buyer_name, buyer_phone, buyer_id, seller_id, seller_username)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID, toInt64s(t.Numbers), t.Status, t.CreatedAt,
		t.BuyerName, t.BuyerPhone, t.BuyerID, t.SellerID, t.SellerUsername)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by id.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	t, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) list(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var (
			t       model.Ticket
			numbers []int64
		)
		err := rows.Scan(&t.ID, &numbers, &t.Status, &t.CreatedAt,
			&t.BuyerName, &t.BuyerPhone, &t.BuyerID, &t.SellerID, &t.SellerUsername)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		t.Numbers = toInts(numbers)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}
	return tickets, nil
}

// ListAll retrieves every active-cycle ticket in creation order.
func (r *TicketRepository) ListAll(ctx context.Context) ([]model.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at, id`
	return r.list(ctx, query)
}

// ListByBuyer retrieves a client's own tickets, newest first.
func (r *TicketRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE buyer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, buyerID)
}

// ListBySeller retrieves the sales a reseller recorded, newest first.
func (r *TicketRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, sellerID)
}

// UpdateStatus writes a ticket's stored status. Reserved for payment
// events on reseller sales; derived statuses are never written back.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	const query = `UPDATE tickets SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// CountByBuyer reports how many tickets an account purchased.
func (r *TicketRepository) CountByBuyer(ctx context.Context, buyerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE buyer_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, buyerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// DeleteAll clears the active ticket set. Only the cycle reset calls
// this, inside the archival transaction.
func (r *TicketRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tickets`); err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}
	return nil
}

// RecordPurchaseRequest stores a caller-generated purchase request id.
// A replayed id fails with ErrDuplicate, which aborts the surrounding
// transaction before any debit.
func (r *TicketRepository) RecordPurchaseRequest(ctx context.Context, requestID, userID string) error {
	const query = `
		INSERT INTO purchase_requests (request_id, user_id, created_at)
		VALUES ($1, $2, NOW())
	`

	if _, err := r.db.Exec(ctx, query, requestID, userID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: purchase request %q", ErrDuplicate, requestID)
		}
		return fmt.Errorf("failed to record purchase request: %w", err)
	}
	return nil
}
