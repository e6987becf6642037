package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/model"
)

const historyColumns = "seller_id, seller_username, start_date, end_date, sales_count, gross, seller_commission, owner_commission"

// HistoryRepository handles seller cycle-history archival. Entries are
// write-once per (seller, cycle end) and read-many on report screens.
type HistoryRepository struct {
	db Querier
}

// NewHistoryRepository creates a new HistoryRepository instance.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *HistoryRepository) WithTx(tx pgx.Tx) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// InsertEntries archives the given cycle results.
func (r *HistoryRepository) InsertEntries(ctx context.Context, entries []model.SellerHistoryEntry) error {
	const query = `
		INSERT INTO seller_history (seller_id, seller_username, start_date, end_date, sales_count, gross, seller_commission, owner_commission)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, e := range entries {
		_, err := r.db.Exec(ctx, query,
			e.SellerID, e.SellerUsername, e.StartDate, e.EndDate,
			e.SalesCount, e.Gross, e.SellerCommission, e.OwnerCommission)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: history for seller %s", ErrDuplicate, e.SellerID)
			}
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}
	return nil
}

// ListBySeller retrieves a seller's archived cycles, newest first.
func (r *HistoryRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.SellerHistoryEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM seller_history WHERE seller_id = $1 ORDER BY end_date DESC`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller history: %w", err)
	}
	defer rows.Close()

	var entries []model.SellerHistoryEntry
	for rows.Next() {
		var e model.SellerHistoryEntry
		err := rows.Scan(&e.SellerID, &e.SellerUsername, &e.StartDate, &e.EndDate,
			&e.SalesCount, &e.Gross, &e.SellerCommission, &e.OwnerCommission)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller history: %w", err)
	}
	return entries, nil
}
