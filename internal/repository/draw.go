package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/model"
)

// DrawRepository handles draw persistence. Draws are append-only within
// a cycle; only the cycle reset removes them.
type DrawRepository struct {
	db Querier
}

// NewDrawRepository creates a new DrawRepository instance.
func NewDrawRepository(pool *pgxpool.Pool) *DrawRepository {
	return &DrawRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *DrawRepository) WithTx(tx pgx.Tx) *DrawRepository {
	return &DrawRepository{db: tx}
}

// Insert creates a draw record.
func (r *DrawRepository) Insert(ctx context.Context, d *model.Draw) error {
	const query = `
		INSERT INTO draws (id, name, numbers, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, d.ID, d.Name, toInt64s(d.Numbers), d.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}
	return nil
}

// ListAll retrieves every draw of the active cycle in publication order.
func (r *DrawRepository) ListAll(ctx context.Context) ([]model.Draw, error) {
	const query = `SELECT id, name, numbers, created_at FROM draws ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	var draws []model.Draw
	for rows.Next() {
		var (
			d       model.Draw
			numbers []int64
		)
		if err := rows.Scan(&d.ID, &d.Name, &numbers, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		d.Numbers = toInts(numbers)
		draws = append(draws, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}
	return draws, nil
}

// Count reports how many draws the active cycle has. The purchase pause
// predicate reads this.
func (r *DrawRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM draws`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// DeleteAll clears the active draw set. Only the cycle reset calls
// this, inside the archival transaction.
func (r *DrawRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM draws`); err != nil {
		return fmt.Errorf("failed to clear draws: %w", err)
	}
	return nil
}
