// Package memory provides an in-memory treasury.DataSource for tests
// and development. Reads return copies so a loaded snapshot stays
// stable even if the store is mutated afterwards.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ledgerline/treasury-engine/treasury"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu          sync.RWMutex
	accounts    map[treasury.AccountID]treasury.Account
	receivables map[treasury.AccountID][]treasury.Receivable
	payables    map[treasury.AccountID][]treasury.Payable
}

func New() *Store {
	return &Store{
		accounts:    make(map[treasury.AccountID]treasury.Account),
		receivables: make(map[treasury.AccountID][]treasury.Receivable),
		payables:    make(map[treasury.AccountID][]treasury.Payable),
	}
}

// =============================================================================
// WRITES - Seeding the snapshot
// =============================================================================

func (s *Store) PutAccount(account treasury.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
}

func (s *Store) PutReceivable(rec treasury.Receivable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receivables[rec.AccountID] = append(s.receivables[rec.AccountID], rec)
}

func (s *Store) PutPayable(pay treasury.Payable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payables[pay.AccountID] = append(s.payables[pay.AccountID], pay)
}

// Reset drops all records.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[treasury.AccountID]treasury.Account)
	s.receivables = make(map[treasury.AccountID][]treasury.Receivable)
	s.payables = make(map[treasury.AccountID][]treasury.Payable)
}

// =============================================================================
// DATA SOURCE - treasury.DataSource implementation
// =============================================================================

var _ treasury.DataSource = (*Store)(nil)

func (s *Store) Account(_ context.Context, id treasury.AccountID) (*treasury.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := account
	return &copied, nil
}

func (s *Store) Accounts(_ context.Context) ([]treasury.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]treasury.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) Receivables(_ context.Context, accountID treasury.AccountID) ([]treasury.Receivable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]treasury.Receivable, len(s.receivables[accountID]))
	copy(result, s.receivables[accountID])
	return result, nil
}

func (s *Store) Payables(_ context.Context, accountID treasury.AccountID) ([]treasury.Payable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]treasury.Payable, len(s.payables[accountID]))
	copy(result, s.payables[accountID])
	return result, nil
}
