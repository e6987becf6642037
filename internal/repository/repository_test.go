// Package repository tests use testcontainers-go to spin up a
// PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"bolao-pool/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			role VARCHAR(20) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tickets (
			id TEXT PRIMARY KEY,
			numbers BIGINT[] NOT NULL,
			status VARCHAR(30) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			buyer_name VARCHAR(255) NOT NULL DEFAULT '',
			buyer_phone VARCHAR(50) NOT NULL DEFAULT '',
			buyer_id TEXT REFERENCES users(id),
			seller_id TEXT REFERENCES users(id),
			seller_username VARCHAR(255) NOT NULL DEFAULT '',
			CHECK ((buyer_id IS NULL) <> (seller_id IS NULL))
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS draws (
			id TEXT PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			numbers BIGINT[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seller_history (
			id BIGSERIAL PRIMARY KEY,
			seller_id TEXT NOT NULL REFERENCES users(id),
			seller_username VARCHAR(255) NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			sales_count INT NOT NULL,
			gross BIGINT NOT NULL,
			seller_commission BIGINT NOT NULL,
			owner_commission BIGINT NOT NULL,
			UNIQUE (seller_id, end_date)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS purchase_requests (
			request_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func strPtr(s string) *string { return &s }

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "u1", "alice", model.RoleClient, 100)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleClient, user.Role)
	assert.Equal(t, int64(100), user.Balance)
	assert.False(t, user.CreatedAt.IsZero())

	// Duplicate username
	_, err = repo.Create(ctx, "u2", "alice", model.RoleClient, 0)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "u1", "alice", model.RoleSeller, 0)
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleSeller, user.Role)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Credit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "u1", "alice", model.RoleClient, 10)
	require.NoError(t, err)

	user, err := repo.Credit(ctx, "u1", 40)
	require.NoError(t, err)
	assert.Equal(t, int64(50), user.Balance)

	_, err = repo.Credit(ctx, "missing", 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_SetBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "u1", "alice", model.RoleClient, 10)
	require.NoError(t, err)

	require.NoError(t, repo.SetBalance(ctx, "u1", 4))

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.Balance)

	err = repo.SetBalance(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetBalanceForUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "u1", "alice", model.RoleClient, 25)
	require.NoError(t, err)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	balance, err := repo.WithTx(tx).GetBalanceForUpdate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	_, err = repo.WithTx(tx).GetBalanceForUpdate(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_ListByRole(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, _ = repo.Create(ctx, "s1", "seller1", model.RoleSeller, 0)
	_, _ = repo.Create(ctx, "c1", "client1", model.RoleClient, 0)
	_, _ = repo.Create(ctx, "s2", "seller2", model.RoleSeller, 0)

	sellers, err := repo.ListByRole(ctx, model.RoleSeller)
	require.NoError(t, err)
	require.Len(t, sellers, 2)
	assert.Equal(t, "s1", sellers[0].ID)
	assert.Equal(t, "s2", sellers[1].ID)
}

// ============================================================================
// TicketRepository Tests
// ============================================================================

func TestTicketRepository_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "u1", "alice", model.RoleClient, 0)
	require.NoError(t, err)

	ticket := model.Ticket{
		ID:         uuid.NewString(),
		Numbers:    []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Status:     model.StatusActive,
		CreatedAt:  time.Now().UTC(),
		BuyerName:  "Alice",
		BuyerPhone: "555-0101",
		BuyerID:    strPtr("u1"),
	}
	require.NoError(t, ticketRepo.Insert(ctx, &ticket))

	got, err := ticketRepo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Numbers, got.Numbers)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, "Alice", got.BuyerName)
	require.NotNil(t, got.BuyerID)
	assert.Equal(t, "u1", *got.BuyerID)
	assert.Nil(t, got.SellerID)

	_, err = ticketRepo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketRepository_ListByBuyerAndSeller(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "u1", "alice", model.RoleClient, 0)
	_, _ = userRepo.Create(ctx, "s1", "bob", model.RoleSeller, 0)

	numbers := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	buyerTicket := model.Ticket{
		ID: uuid.NewString(), Numbers: numbers, Status: model.StatusActive,
		CreatedAt: time.Now().UTC(), BuyerID: strPtr("u1"),
	}
	sellerTicket := model.Ticket{
		ID: uuid.NewString(), Numbers: numbers, Status: model.StatusAwaitingPayment,
		CreatedAt: time.Now().UTC(), BuyerName: "Walk-in",
		SellerID: strPtr("s1"), SellerUsername: "bob",
	}
	require.NoError(t, ticketRepo.Insert(ctx, &buyerTicket))
	require.NoError(t, ticketRepo.Insert(ctx, &sellerTicket))

	byBuyer, err := ticketRepo.ListByBuyer(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, buyerTicket.ID, byBuyer[0].ID)

	bySeller, err := ticketRepo.ListBySeller(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, sellerTicket.ID, bySeller[0].ID)
	assert.Equal(t, "bob", bySeller[0].SellerUsername)

	all, err := ticketRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTicketRepository_UpdateStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "s1", "bob", model.RoleSeller, 0)

	ticket := model.Ticket{
		ID: uuid.NewString(), Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Status: model.StatusAwaitingPayment, CreatedAt: time.Now().UTC(),
		SellerID: strPtr("s1"), SellerUsername: "bob",
	}
	require.NoError(t, ticketRepo.Insert(ctx, &ticket))

	require.NoError(t, ticketRepo.UpdateStatus(ctx, ticket.ID, model.StatusActive))

	got, err := ticketRepo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	err = ticketRepo.UpdateStatus(ctx, "missing", model.StatusActive)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketRepository_RecordPurchaseRequest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "u1", "alice", model.RoleClient, 0)

	err := ticketRepo.RecordPurchaseRequest(ctx, "req-1", "u1")
	require.NoError(t, err)

	// Same request id again is rejected
	err = ticketRepo.RecordPurchaseRequest(ctx, "req-1", "u1")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTicketRepository_DeleteAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	ticketRepo := NewTicketRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "u1", "alice", model.RoleClient, 0)
	ticket := model.Ticket{
		ID: uuid.NewString(), Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Status: model.StatusActive, CreatedAt: time.Now().UTC(), BuyerID: strPtr("u1"),
	}
	require.NoError(t, ticketRepo.Insert(ctx, &ticket))

	require.NoError(t, ticketRepo.DeleteAll(ctx))

	all, err := ticketRepo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ============================================================================
// DrawRepository Tests
// ============================================================================

func TestDrawRepository_InsertListCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDrawRepository(pool)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	first := model.Draw{
		ID: uuid.NewString(), Name: "draw 1",
		Numbers: []int{1, 2, 3, 4, 5}, CreatedAt: time.Now().UTC(),
	}
	second := model.Draw{
		ID: uuid.NewString(), Name: "draw 2",
		Numbers: []int{6, 7, 8, 9, 10}, CreatedAt: time.Now().UTC().Add(time.Second),
	}
	require.NoError(t, repo.Insert(ctx, &first))
	require.NoError(t, repo.Insert(ctx, &second))

	draws, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, first.ID, draws[0].ID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, draws[0].Numbers)
	assert.Equal(t, second.ID, draws[1].ID)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteAll(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// ============================================================================
// HistoryRepository Tests
// ============================================================================

func TestHistoryRepository_InsertAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	repo := NewHistoryRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "s1", "bob", model.RoleSeller, 0)

	start := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)
	end := time.Now().UTC().Truncate(time.Second)
	entries := []model.SellerHistoryEntry{
		{
			SellerID: "s1", SellerUsername: "bob",
			StartDate: start, EndDate: end,
			SalesCount: 50, Gross: 100, SellerCommission: 10, OwnerCommission: 5,
		},
	}
	require.NoError(t, repo.InsertEntries(ctx, entries))

	got, err := repo.ListBySeller(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].SalesCount)
	assert.Equal(t, int64(100), got[0].Gross)
	assert.Equal(t, int64(10), got[0].SellerCommission)
	assert.Equal(t, int64(5), got[0].OwnerCommission)

	// Same cycle archived twice is rejected
	err = repo.InsertEntries(ctx, entries)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestHistoryRepository_ListOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	repo := NewHistoryRepository(pool)
	ctx := context.Background()

	_, _ = userRepo.Create(ctx, "s1", "bob", model.RoleSeller, 0)

	base := time.Now().UTC().Truncate(time.Second)
	older := model.SellerHistoryEntry{
		SellerID: "s1", SellerUsername: "bob",
		StartDate: base.Add(-48 * time.Hour), EndDate: base.Add(-24 * time.Hour),
		SalesCount: 10, Gross: 20, SellerCommission: 2, OwnerCommission: 1,
	}
	newer := model.SellerHistoryEntry{
		SellerID: "s1", SellerUsername: "bob",
		StartDate: base.Add(-24 * time.Hour), EndDate: base,
		SalesCount: 30, Gross: 60, SellerCommission: 6, OwnerCommission: 3,
	}
	require.NoError(t, repo.InsertEntries(ctx, []model.SellerHistoryEntry{older}))
	require.NoError(t, repo.InsertEntries(ctx, []model.SellerHistoryEntry{newer}))

	got, err := repo.ListBySeller(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest cycle first
	assert.Equal(t, 30, got[0].SalesCount)
	assert.Equal(t, 10, got[1].SalesCount)
}
