package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/ledger"
	"dompet/internal/storage"
)

// LedgerService posts and deletes transactions and composes the
// two-leg transfer. Validation happens before any mutation; the store
// applies each operation as one atomic change set.
type LedgerService struct {
	store  storage.Store
	events Publisher
	now    func() time.Time
}

func NewLedgerService(store storage.Store, events Publisher) *LedgerService {
	return &LedgerService{store: store, events: events, now: time.Now}
}

// CreateTransaction validates and posts one ledger entry, moving its
// wallet by the signed amount.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	if t.OccurredAt.IsZero() {
		t.OccurredAt = s.now()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.store.Wallet(ctx, t.OwnerID, t.WalletID); err != nil {
		return core.Transaction{}, err
	}

	delta, err := ledger.Delta(t)
	if err != nil {
		return core.Transaction{}, err
	}

	cs := core.ChangeSet{
		OwnerID:         t.OwnerID,
		PutTransactions: []core.Transaction{t},
		Deltas:          []core.BalanceDelta{{WalletID: t.WalletID, Cents: delta}},
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		return core.Transaction{}, fmt.Errorf("apply transaction: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventTransactionPosted, t.OwnerID, t.ID, t.WalletID, t.Amount.Cents))
	return t, nil
}

// TopUp posts external funds entering a wallet: a plain INCOME entry
// under the reserved Top Up category.
func (s *LedgerService) TopUp(ctx context.Context, ownerID, walletID string, amount core.Money, note string) (core.Transaction, error) {
	return s.CreateTransaction(ctx, core.Transaction{
		OwnerID:     ownerID,
		WalletID:    walletID,
		Type:        core.Income,
		Category:    core.CategoryTopUp,
		Amount:      amount,
		Description: note,
	})
}

// DeleteTransaction reverts the entry's balance effect and removes it
// in the same change set. There is no in-place edit: correcting an
// entry is delete plus recreate.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	t, err := s.store.Transaction(ctx, ownerID, id)
	if err != nil {
		return err
	}

	delta, err := ledger.Delta(t)
	if err != nil {
		return err
	}

	cs := core.ChangeSet{
		OwnerID:              ownerID,
		DeleteTransactionIDs: []string{id},
		Deltas:               []core.BalanceDelta{{WalletID: t.WalletID, Cents: -delta}},
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		return fmt.Errorf("revert transaction: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventTransactionDeleted, ownerID, id, t.WalletID, t.Amount.Cents))
	return nil
}

// Transfer moves funds between two wallets of the same owner: an
// EXPENSE leg on the source and an INCOME leg on the destination, both
// dated identically, debit leg ordered first. Overdraft is allowed.
// Net system-wide balance is unchanged when the set lands.
func (s *LedgerService) Transfer(ctx context.Context, ownerID, fromID, toID string, amount core.Money, note string) (core.Transaction, core.Transaction, error) {
	if fromID == toID {
		return core.Transaction{}, core.Transaction{}, core.ErrSameWallet
	}
	if err := amount.Validate(); err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}

	from, err := s.store.Wallet(ctx, ownerID, fromID)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	to, err := s.store.Wallet(ctx, ownerID, toID)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}

	at := s.now()
	outDesc := "Transfer ke " + to.Name
	inDesc := "Transfer dari " + from.Name
	if strings.TrimSpace(note) != "" {
		outDesc += ": " + note
		inDesc += ": " + note
	}

	outgoing := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		WalletID:    from.ID,
		Type:        core.Expense,
		Category:    core.CategoryTransfer,
		Amount:      amount,
		Description: outDesc,
		OccurredAt:  at,
	}
	incoming := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		WalletID:    to.ID,
		Type:        core.Income,
		Category:    core.CategoryTransfer,
		Amount:      amount,
		Description: inDesc,
		OccurredAt:  at,
	}

	cs := core.ChangeSet{
		OwnerID:         ownerID,
		PutTransactions: []core.Transaction{outgoing, incoming},
		Deltas: []core.BalanceDelta{
			{WalletID: from.ID, Cents: -amount.Cents},
			{WalletID: to.ID, Cents: amount.Cents},
		},
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("apply transfer: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventTransactionPosted, ownerID, outgoing.ID, from.ID, amount.Cents))
	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventTransactionPosted, ownerID, incoming.ID, to.ID, amount.Cents))
	return outgoing, incoming, nil
}

func (s *LedgerService) Transactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	return s.store.Transactions(ctx, ownerID)
}
