package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"bolao-pool/internal/model"
	"bolao-pool/internal/repository"
)

// Account-related errors.
var (
	ErrInvalidAmount = errors.New("invalid amount: must be positive")
	ErrInvalidRole   = errors.New("invalid role")
)

// AccountService handles account administration: creating client and
// seller accounts and crediting balances. Credits are the only balance
// write outside the purchase transaction.
type AccountService struct {
	users *repository.UserRepository
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(users *repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// CreateAccount creates a new account with a starting balance.
func (s *AccountService) CreateAccount(ctx context.Context, username string, role model.Role, balance int64) (*model.User, error) {
	switch role {
	case model.RoleClient, model.RoleSeller, model.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	if balance < 0 {
		return nil, ErrInvalidAmount
	}
	return s.users.Create(ctx, uuid.NewString(), username, role, balance)
}

// Credit adds credits to an account, returning the updated account.
func (s *AccountService) Credit(ctx context.Context, userID string, amount int64) (*model.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	user, err := s.users.Credit(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetAccount retrieves an account by id.
func (s *AccountService) GetAccount(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}
