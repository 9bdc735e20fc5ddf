package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/ledger"
	"dompet/internal/storage"
)

// DebtService runs the debt/receivable lifecycle. Creation pairs the
// position with an originating ledger entry; repayments post plain
// INCOME/EXPENSE entries linked back to the position; deletion unwinds
// the creation entry and every linked repayment, restoring the
// settlement wallet exactly.
type DebtService struct {
	store  storage.Store
	events Publisher
	now    func() time.Time
}

func NewDebtService(store storage.Store, events Publisher) *DebtService {
	return &DebtService{store: store, events: events, now: time.Now}
}

// entryFor maps a debt position to the type and category of its
// originating entry: borrowing puts cash in, lending takes cash out.
func entryFor(t core.DebtType) (core.TransactionType, string) {
	if t == core.DebtPayable {
		return core.DebtIn, core.CategoryHutang
	}
	return core.Receivable, core.CategoryPiutang
}

// repaymentFor maps a debt position to its repayment entry type:
// paying down what you owe is an EXPENSE, collecting what is owed to
// you is an INCOME. Repayments never carry the DEBT/RECEIVABLE tag.
func repaymentFor(t core.DebtType) (core.TransactionType, string) {
	if t == core.DebtPayable {
		return core.Expense, core.CategoryHutang
	}
	return core.Income, core.CategoryPiutang
}

// Create opens a new position in state OPEN and posts the originating
// entry against the settlement wallet in the same change set.
func (s *DebtService) Create(ctx context.Context, d core.Debt) (core.Debt, core.Transaction, error) {
	d.ID = uuid.NewString()
	d.CreatedAt = s.now()
	d.Remaining = d.Initial
	d.IsPaid = false
	if err := d.Validate(); err != nil {
		return core.Debt{}, core.Transaction{}, err
	}
	if _, err := s.store.Wallet(ctx, d.OwnerID, d.WalletID); err != nil {
		return core.Debt{}, core.Transaction{}, err
	}

	txType, category := entryFor(d.Type)
	origin := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     d.OwnerID,
		WalletID:    d.WalletID,
		DebtID:      d.ID,
		Type:        txType,
		Category:    category,
		Amount:      d.Initial,
		Description: d.Title,
		OccurredAt:  d.CreatedAt,
	}

	delta, err := ledger.Delta(origin)
	if err != nil {
		return core.Debt{}, core.Transaction{}, err
	}

	cs := core.ChangeSet{
		OwnerID:         d.OwnerID,
		PutDebts:        []core.Debt{d},
		PutTransactions: []core.Transaction{origin},
		Deltas:          []core.BalanceDelta{{WalletID: d.WalletID, Cents: delta}},
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		return core.Debt{}, core.Transaction{}, fmt.Errorf("apply debt creation: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventDebtCreated, d.OwnerID, d.ID, d.WalletID, d.Initial.Cents))
	return d, origin, nil
}

// Repay settles part or all of a position. Overpayment is clamped to
// the remaining amount, never rejected; the offsetting entry is posted
// for the effective payment only. Repaying a closed position is
// core.ErrAlreadySettled.
func (s *DebtService) Repay(ctx context.Context, ownerID, debtID string, payment core.Money) (core.Debt, core.Transaction, error) {
	if err := payment.Validate(); err != nil {
		return core.Debt{}, core.Transaction{}, err
	}

	d, err := s.store.Debt(ctx, ownerID, debtID)
	if err != nil {
		return core.Debt{}, core.Transaction{}, err
	}
	if d.IsPaid {
		return core.Debt{}, core.Transaction{}, core.ErrAlreadySettled
	}

	effective := payment.Cents
	if effective > d.Remaining.Cents {
		effective = d.Remaining.Cents
	}

	txType, category := repaymentFor(d.Type)
	repayment := core.Transaction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		WalletID:    d.WalletID,
		DebtID:      d.ID,
		Type:        txType,
		Category:    category,
		Amount:      core.Money{Cents: effective},
		Description: "Pembayaran " + d.Title,
		OccurredAt:  s.now(),
	}

	delta, err := ledger.Delta(repayment)
	if err != nil {
		return core.Debt{}, core.Transaction{}, err
	}

	d.Remaining.Cents -= effective
	d.IsPaid = d.Remaining.Cents == 0

	cs := core.ChangeSet{
		OwnerID:         ownerID,
		PutDebts:        []core.Debt{d},
		PutTransactions: []core.Transaction{repayment},
		Deltas:          []core.BalanceDelta{{WalletID: d.WalletID, Cents: delta}},
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		return core.Debt{}, core.Transaction{}, fmt.Errorf("apply repayment: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventDebtRepaid, ownerID, d.ID, d.WalletID, effective))
	return d, repayment, nil
}

// Delete removes the position and every ledger entry linked to it,
// reverting each entry's balance effect. After the set lands the
// settlement wallet sits exactly where it would had the debt never
// existed.
func (s *DebtService) Delete(ctx context.Context, ownerID, debtID string) error {
	d, err := s.store.Debt(ctx, ownerID, debtID)
	if err != nil {
		return err
	}

	txs, err := s.store.Transactions(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	cs := core.ChangeSet{OwnerID: ownerID, DeleteDebtIDs: []string{debtID}}
	reverted := make(map[string]int64)
	for _, t := range txs {
		if t.DebtID != debtID {
			continue
		}
		delta, err := ledger.Delta(t)
		if err != nil {
			return err
		}
		cs.DeleteTransactionIDs = append(cs.DeleteTransactionIDs, t.ID)
		reverted[t.WalletID] -= delta
	}
	walletIDs := make([]string, 0, len(reverted))
	for walletID := range reverted {
		walletIDs = append(walletIDs, walletID)
	}
	sort.Strings(walletIDs) // deterministic delta order
	for _, walletID := range walletIDs {
		if cents := reverted[walletID]; cents != 0 {
			cs.Deltas = append(cs.Deltas, core.BalanceDelta{WalletID: walletID, Cents: cents})
		}
	}

	if err := s.store.Apply(ctx, cs); err != nil {
		return fmt.Errorf("apply debt deletion: %w", err)
	}

	publish(ctx, s.events, amqp.NewLedgerEvent(amqp.EventDebtDeleted, ownerID, debtID, d.WalletID, d.Initial.Cents))
	return nil
}

func (s *DebtService) Debts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	return s.store.Debts(ctx, ownerID)
}
