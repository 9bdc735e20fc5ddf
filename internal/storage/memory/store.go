// Package memory is the in-process Store: the default backend for a
// fresh checkout and the double the service tests run against.
package memory

import (
	"context"
	"sort"
	"sync"

	"dompet/internal/core"
)

type ownerState struct {
	wallets      map[string]core.Wallet
	transactions map[string]core.Transaction
	debts        map[string]core.Debt
	budgets      map[string]core.Budget // keyed by category
}

type Store struct {
	mu     sync.Mutex
	owners map[string]*ownerState
}

func New() *Store {
	return &Store{owners: make(map[string]*ownerState)}
}

func (s *Store) state(ownerID string) *ownerState {
	st, ok := s.owners[ownerID]
	if !ok {
		st = &ownerState{
			wallets:      make(map[string]core.Wallet),
			transactions: make(map[string]core.Transaction),
			debts:        make(map[string]core.Debt),
			budgets:      make(map[string]core.Budget),
		}
		s.owners[ownerID] = st
	}
	return st
}

func (s *Store) Wallets(_ context.Context, ownerID string) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	out := make([]core.Wallet, 0, len(st.wallets))
	for _, w := range st.wallets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Wallet(_ context.Context, ownerID, id string) (core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.state(ownerID).wallets[id]
	if !ok {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	return w, nil
}

func (s *Store) SaveWallet(_ context.Context, w core.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(w.OwnerID).wallets[w.ID] = w
	return nil
}

func (s *Store) Transactions(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	out := make([]core.Transaction, 0, len(st.transactions))
	for _, t := range st.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Transaction(_ context.Context, ownerID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.state(ownerID).transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return t, nil
}

func (s *Store) Debts(_ context.Context, ownerID string) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	out := make([]core.Debt, 0, len(st.debts))
	for _, d := range st.debts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Debt(_ context.Context, ownerID, id string) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state(ownerID).debts[id]
	if !ok {
		return core.Debt{}, core.ErrDebtNotFound
	}
	return d, nil
}

func (s *Store) Budgets(_ context.Context, ownerID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(ownerID)
	out := make([]core.Budget, 0, len(st.budgets))
	for _, b := range st.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) SaveBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(b.OwnerID).budgets[b.Category] = b
	return nil
}

func (s *Store) Owners(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.owners))
	for id := range s.owners {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Apply validates every step against current state before mutating
// anything, so the whole set lands or none of it does.
func (s *Store) Apply(_ context.Context, cs core.ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(cs.OwnerID)

	for _, id := range cs.DeleteTransactionIDs {
		if _, ok := st.transactions[id]; !ok {
			return core.ErrTransactionNotFound
		}
	}
	for _, id := range cs.DeleteDebtIDs {
		if _, ok := st.debts[id]; !ok {
			return core.ErrDebtNotFound
		}
	}
	for _, id := range cs.DeleteWalletIDs {
		if _, ok := st.wallets[id]; !ok {
			return core.ErrWalletNotFound
		}
	}
	deleted := make(map[string]bool, len(cs.DeleteWalletIDs))
	for _, id := range cs.DeleteWalletIDs {
		deleted[id] = true
	}
	for _, d := range cs.Deltas {
		if _, ok := st.wallets[d.WalletID]; !ok || deleted[d.WalletID] {
			return core.ErrWalletNotFound
		}
	}

	for _, t := range cs.PutTransactions {
		st.transactions[t.ID] = t
	}
	for _, id := range cs.DeleteTransactionIDs {
		delete(st.transactions, id)
	}
	for _, d := range cs.PutDebts {
		st.debts[d.ID] = d
	}
	for _, id := range cs.DeleteDebtIDs {
		delete(st.debts, id)
	}
	for _, id := range cs.DeleteWalletIDs {
		delete(st.wallets, id)
	}
	for _, d := range cs.Deltas {
		w := st.wallets[d.WalletID]
		w.Balance.Cents += d.Cents
		st.wallets[d.WalletID] = w
	}
	return nil
}

func (s *Store) Close() error { return nil }
