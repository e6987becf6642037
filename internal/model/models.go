// Package model defines the data models for the lottery pool system.
package model

import "time"

// Status is a ticket status. The stored status is written only at
// creation, by payment events on reseller sales, and by the cycle reset;
// the status shown to users is recomputed from the draw history on every
// read (see internal/lottery).
type Status string

const (
	StatusActive          Status = "active"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusUnpaid          Status = "unpaid"
	StatusWinning         Status = "winning"
	StatusExpired         Status = "expired"
)

// Role identifies the kind of account.
type Role string

const (
	RoleClient Role = "client"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User is a ledger account. Balance is mutated only by the purchase
// transaction and by admin credit operations.
type User struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Role      Role      `db:"role"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}

// Ticket is a purchased or reseller-recorded number ticket.
// Exactly one of BuyerID and SellerID is set: BuyerID for a client
// self-purchase that went through the ledger, SellerID for a cash sale
// recorded by a reseller.
type Ticket struct {
	ID             string    `db:"id"`
	Numbers        []int     `db:"numbers"`
	Status         Status    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	BuyerName      string    `db:"buyer_name"`
	BuyerPhone     string    `db:"buyer_phone"`
	BuyerID        *string   `db:"buyer_id"`
	SellerID       *string   `db:"seller_id"`
	SellerUsername string    `db:"seller_username"`
}

// Draw is an admin-published set of winning numbers. Draws accumulate
// within a cycle and are immutable once created.
type Draw struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Numbers   []int     `db:"numbers"`
	CreatedAt time.Time `db:"created_at"`
}

// RankedTicket is a ticket scored against the cycle's draw history.
// Derived on demand, never persisted.
type RankedTicket struct {
	Ticket
	Matches int
}

// SellerHistoryEntry archives one seller's results for one closed cycle.
// Write-once per (seller, cycle end), read-many.
type SellerHistoryEntry struct {
	SellerID         string    `db:"seller_id"`
	SellerUsername   string    `db:"seller_username"`
	StartDate        time.Time `db:"start_date"`
	EndDate          time.Time `db:"end_date"`
	SalesCount       int       `db:"sales_count"`
	Gross            int64     `db:"gross"`
	SellerCommission int64     `db:"seller_commission"`
	OwnerCommission  int64     `db:"owner_commission"`
}
