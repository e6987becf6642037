// Package lock provides per-account locking so concurrent purchases
// against the same ledger account are linearized in-process before they
// reach the database row lock.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a lock cannot be acquired within the
// timeout period.
var ErrLockTimeout = errors.New("lock acquisition timeout")

// AccountLock hands out one mutex per account ID. Different accounts
// never contend with each other.
type AccountLock struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewAccountLock creates a new AccountLock instance.
func NewAccountLock() *AccountLock {
	return &AccountLock{}
}

func (al *AccountLock) get(accountID string) *sync.Mutex {
	if v, ok := al.locks.Load(accountID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := al.locks.LoadOrStore(accountID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the lock for an account.
func (al *AccountLock) Lock(accountID string) {
	al.get(accountID).Lock()
}

// Unlock releases the lock for an account.
func (al *AccountLock) Unlock(accountID string) {
	al.get(accountID).Unlock()
}

// TryLock attempts to acquire the lock without blocking.
func (al *AccountLock) TryLock(accountID string) bool {
	return al.get(accountID).TryLock()
}

// WithLock executes fn while holding the account's lock.
func (al *AccountLock) WithLock(accountID string, fn func() error) error {
	al.Lock(accountID)
	defer al.Unlock(accountID)
	return fn()
}

// WithLockContext executes fn while holding the account's lock, giving
// up with ErrLockTimeout if the lock is not acquired in time. Once fn
// has started it runs to completion; cancellation only applies while
// waiting for the lock.
func (al *AccountLock) WithLockContext(ctx context.Context, accountID string, timeout time.Duration, fn func() error) error {
	mu := al.get(accountID)

	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-acquired:
		defer mu.Unlock()
		return fn()
	case <-timeoutCtx.Done():
		// The waiting goroutine will eventually acquire; release then.
		go func() {
			<-acquired
			mu.Unlock()
		}()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}
}
