// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrDuplicate      = errors.New("duplicate record")
)

// Querier is the subset of pgx operations the repositories need. It is
// satisfied by *pgxpool.Pool and by pgx.Tx, so every repository method
// can run standalone or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = "id, username, role, balance, created_at"

// UserRepository handles ledger account persistence.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Role, &user.Balance, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new account with the given role and starting balance.
func (r *UserRepository) Create(ctx context.Context, id, username string, role model.Role, balance int64) (*model.User, error) {
	const query = `
		INSERT INTO users (id, username, role, balance, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, username, role, balance))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username %q", ErrDuplicate, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves an account by id.
// Returns ErrUserNotFound if the account does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves an account by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetBalanceForUpdate reads an account's balance under a row lock. Must
// run inside a transaction; the lock is held until commit or rollback.
func (r *UserRepository) GetBalanceForUpdate(ctx context.Context, id string) (int64, error) {
	const query = `SELECT balance FROM users WHERE id = $1 FOR UPDATE`

	var balance int64
	err := r.db.QueryRow(ctx, query, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to lock account: %w", err)
	}
	return balance, nil
}

// SetBalance writes an exact balance value.
func (r *UserRepository) SetBalance(ctx context.Context, id string, balance int64) error {
	const query = `UPDATE users SET balance = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Credit adds amount to an account's balance and returns the updated
// account. Used by the admin top-up flow.
func (r *UserRepository) Credit(ctx context.Context, id string, amount int64) (*model.User, error) {
	const query = `
		UPDATE users SET balance = balance + $2
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to credit account: %w", err)
	}
	return user, nil
}

// ListByRole retrieves all accounts with the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &user.Balance, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
