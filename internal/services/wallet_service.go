package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/storage"
)

// WalletService owns wallet lifecycle: creation with an opening
// balance and deletion with a full cascade of everything referencing
// the wallet, so no orphan entries survive.
type WalletService struct {
	store  storage.Store
	events Publisher
	now    func() time.Time
}

func NewWalletService(store storage.Store, events Publisher) *WalletService {
	return &WalletService{store: store, events: events, now: time.Now}
}

// CreateWallet stores a new wallet whose balance starts at the opening
// amount. Opening may be zero or negative; only the engine moves it
// afterwards.
func (s *WalletService) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	w.ID = uuid.NewString()
	w.CreatedAt = s.now()
	w.Balance = w.Opening
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	if err := s.store.SaveWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("save wallet: %w", err)
	}
	return w, nil
}

func (s *WalletService) Wallets(ctx context.Context, ownerID string) ([]core.Wallet, error) {
	return s.store.Wallets(ctx, ownerID)
}

// DeleteWallet removes the wallet together with every transaction and
// debt referencing it, in one change set. No balance reversal is
// involved: the balance goes away with the wallet row.
func (s *WalletService) DeleteWallet(ctx context.Context, ownerID, walletID string) error {
	if _, err := s.store.Wallet(ctx, ownerID, walletID); err != nil {
		return err
	}

	txs, err := s.store.Transactions(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	debts, err := s.store.Debts(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load debts: %w", err)
	}

	cs := core.ChangeSet{OwnerID: ownerID, DeleteWalletIDs: []string{walletID}}
	for _, t := range txs {
		if t.WalletID == walletID {
			cs.DeleteTransactionIDs = append(cs.DeleteTransactionIDs, t.ID)
		}
	}
	for _, d := range debts {
		if d.WalletID == walletID {
			cs.DeleteDebtIDs = append(cs.DeleteDebtIDs, d.ID)
		}
	}

	if err := s.store.Apply(ctx, cs); err != nil {
		return fmt.Errorf("apply wallet cascade: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventWalletDeleted, ownerID, walletID, walletID, 0))
	return nil
}
