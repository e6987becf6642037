package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
)

// Commissions holds the percentages applied when a cycle closes.
type Commissions struct {
	SellerPercent           int
	OwnerPercent            int
	ClientSalesOwnerPercent int
}

// CycleReport is the outcome of closing a cycle: the archived per-seller
// entries plus the owner's figures over direct client sales.
type CycleReport struct {
	Entries                    []model.SellerHistoryEntry
	ClientSalesCount           int
	ClientGross                int64
	OwnerClientSalesCommission int64
}

// CycleService closes a cycle: archives each seller's results and
// clears the active ticket and draw sets, all in one transaction.
type CycleService struct {
	pool        *pgxpool.Pool
	users       *repository.UserRepository
	tickets     *repository.TicketRepository
	draws       *repository.DrawRepository
	history     *repository.HistoryRepository
	ticketPrice int64
	commissions Commissions
}

// NewCycleService creates a new CycleService instance.
func NewCycleService(
	pool *pgxpool.Pool,
	users *repository.UserRepository,
	tickets *repository.TicketRepository,
	draws *repository.DrawRepository,
	history *repository.HistoryRepository,
	ticketPrice int64,
	commissions Commissions,
) *CycleService {
	return &CycleService{
		pool:        pool,
		users:       users,
		tickets:     tickets,
		draws:       draws,
		history:     history,
		ticketPrice: ticketPrice,
		commissions: commissions,
	}
}

// CloseCycle archives the cycle and clears active state. The archival
// inserts and the ticket/draw deletes commit together; a failed close
// leaves the cycle untouched.
func (s *CycleService) CloseCycle(ctx context.Context) (*CycleReport, error) {
	txCtx := context.WithoutCancel(ctx)

	tx, err := s.pool.Begin(txCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(txCtx)

	tickets := s.tickets.WithTx(tx)
	draws := s.draws.WithTx(tx)
	history := s.history.WithTx(tx)
	users := s.users.WithTx(tx)

	cycleTickets, err := tickets.ListAll(txCtx)
	if err != nil {
		return nil, err
	}
	sellers, err := users.ListByRole(txCtx, model.RoleSeller)
	if err != nil {
		return nil, err
	}

	endDate := time.Now().UTC()
	report := buildCycleReport(cycleTickets, sellers, s.ticketPrice, s.commissions, endDate)

	if len(report.Entries) > 0 {
		if err := history.InsertEntries(txCtx, report.Entries); err != nil {
			return nil, err
		}
	}
	if err := tickets.DeleteAll(txCtx); err != nil {
		return nil, err
	}
	if err := draws.DeleteAll(txCtx); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit cycle close: %w", err)
	}
	return report, nil
}

// HistoryForSeller lists a seller's archived cycles, newest first.
func (s *CycleService) HistoryForSeller(ctx context.Context, sellerID string) ([]model.SellerHistoryEntry, error) {
	return s.history.ListBySeller(ctx, sellerID)
}

// buildCycleReport aggregates the cycle's tickets into per-seller
// archival entries and the owner's client-sales figures. Deterministic:
// a plain sum over exactly the tickets attributed to each party.
func buildCycleReport(tickets []model.Ticket, sellers []*model.User, ticketPrice int64, c Commissions, endDate time.Time) *CycleReport {
	startDate := endDate
	for _, t := range tickets {
		if t.CreatedAt.Before(startDate) {
			startDate = t.CreatedAt
		}
	}

	salesBySeller := make(map[string]int, len(sellers))
	clientSales := 0
	for _, t := range tickets {
		switch {
		case t.SellerID != nil:
			salesBySeller[*t.SellerID]++
		case t.BuyerID != nil:
			clientSales++
		}
	}

	report := &CycleReport{
		ClientSalesCount:           clientSales,
		ClientGross:                int64(clientSales) * ticketPrice,
		OwnerClientSalesCommission: int64(clientSales) * ticketPrice * int64(c.ClientSalesOwnerPercent) / 100,
	}

	for _, seller := range sellers {
		count := salesBySeller[seller.ID]
		if count == 0 {
			continue
		}
		gross := int64(count) * ticketPrice
		report.Entries = append(report.Entries, model.SellerHistoryEntry{
			SellerID:         seller.ID,
			SellerUsername:   seller.Username,
			StartDate:        startDate,
			EndDate:          endDate,
			SalesCount:       count,
			Gross:            gross,
			SellerCommission: gross * int64(c.SellerPercent) / 100,
			OwnerCommission:  gross * int64(c.OwnerPercent) / 100,
		})
	}
	return report
}
