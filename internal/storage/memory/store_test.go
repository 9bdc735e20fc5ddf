package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dompet/internal/core"
)

func seedWallet(t *testing.T, s *Store, id string, balance int64) core.Wallet {
	t.Helper()
	w := core.Wallet{
		ID:        id,
		OwnerID:   "o1",
		Name:      "Wallet " + id,
		Type:      core.WalletCash,
		Opening:   core.Money{Cents: balance},
		Balance:   core.Money{Cents: balance},
		CreatedAt: time.Now(),
	}
	if err := s.SaveWallet(context.Background(), w); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Wallet(ctx, "o1", "missing"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("wallet: got %v", err)
	}
	if _, err := s.Transaction(ctx, "o1", "missing"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("transaction: got %v", err)
	}
	if _, err := s.Debt(ctx, "o1", "missing"); !errors.Is(err, core.ErrDebtNotFound) {
		t.Fatalf("debt: got %v", err)
	}
}

func TestApplyPutAndDelta(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedWallet(t, s, "w1", 100000)

	tx := core.Transaction{
		ID: "t1", OwnerID: "o1", WalletID: "w1",
		Type: core.Expense, Category: "Makanan",
		Amount: core.Money{Cents: 30000}, OccurredAt: time.Now(),
	}
	err := s.Apply(ctx, core.ChangeSet{
		OwnerID:         "o1",
		PutTransactions: []core.Transaction{tx},
		Deltas:          []core.BalanceDelta{{WalletID: "w1", Cents: -30000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	w, err := s.Wallet(ctx, "o1", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Balance.Cents != 70000 {
		t.Fatalf("balance %d, want 70000", w.Balance.Cents)
	}
	if _, err := s.Transaction(ctx, "o1", "t1"); err != nil {
		t.Fatalf("transaction not stored: %v", err)
	}
}

func TestApplyAllOrNothing(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedWallet(t, s, "w1", 100000)

	// The second delta targets a wallet that does not exist, so even
	// the put and the first delta must not land.
	err := s.Apply(ctx, core.ChangeSet{
		OwnerID: "o1",
		PutTransactions: []core.Transaction{{
			ID: "t1", OwnerID: "o1", WalletID: "w1",
			Type: core.Expense, Category: "Makanan",
			Amount: core.Money{Cents: 10000}, OccurredAt: time.Now(),
		}},
		Deltas: []core.BalanceDelta{
			{WalletID: "w1", Cents: -10000},
			{WalletID: "ghost", Cents: 10000},
		},
	})
	if !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("got %v, want ErrWalletNotFound", err)
	}

	w, _ := s.Wallet(ctx, "o1", "w1")
	if w.Balance.Cents != 100000 {
		t.Fatalf("partial apply leaked: balance %d", w.Balance.Cents)
	}
	if _, err := s.Transaction(ctx, "o1", "t1"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("partial apply leaked: transaction stored, err %v", err)
	}
}

func TestApplyWalletCascade(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedWallet(t, s, "w1", 50000)
	seedWallet(t, s, "w2", 0)

	tx := core.Transaction{
		ID: "t1", OwnerID: "o1", WalletID: "w1",
		Type: core.Income, Category: "Gaji",
		Amount: core.Money{Cents: 50000}, OccurredAt: time.Now(),
	}
	debt := core.Debt{
		ID: "d1", OwnerID: "o1", WalletID: "w1", Title: "Pinjam",
		Type: core.DebtPayable, Initial: core.Money{Cents: 10000},
		Remaining: core.Money{Cents: 10000}, CreatedAt: time.Now(),
	}
	if err := s.Apply(ctx, core.ChangeSet{
		OwnerID:         "o1",
		PutTransactions: []core.Transaction{tx},
		PutDebts:        []core.Debt{debt},
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Apply(ctx, core.ChangeSet{
		OwnerID:              "o1",
		DeleteWalletIDs:      []string{"w1"},
		DeleteTransactionIDs: []string{"t1"},
		DeleteDebtIDs:        []string{"d1"},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Wallet(ctx, "o1", "w1"); !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("wallet survived: %v", err)
	}
	if _, err := s.Transaction(ctx, "o1", "t1"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("transaction survived: %v", err)
	}
	if _, err := s.Debt(ctx, "o1", "d1"); !errors.Is(err, core.ErrDebtNotFound) {
		t.Fatalf("debt survived: %v", err)
	}
	if _, err := s.Wallet(ctx, "o1", "w2"); err != nil {
		t.Fatalf("unrelated wallet lost: %v", err)
	}
}

func TestApplyRejectsDeltaOnDeletedWallet(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedWallet(t, s, "w1", 50000)

	err := s.Apply(ctx, core.ChangeSet{
		OwnerID:         "o1",
		DeleteWalletIDs: []string{"w1"},
		Deltas:          []core.BalanceDelta{{WalletID: "w1", Cents: 1000}},
	})
	if !errors.Is(err, core.ErrWalletNotFound) {
		t.Fatalf("got %v, want ErrWalletNotFound", err)
	}
}

func TestOwnersAndBudgets(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveBudget(ctx, core.Budget{OwnerID: "o2", Category: "Makanan", MonthlyLimit: core.Money{Cents: 100000}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveWallet(ctx, core.Wallet{ID: "w1", OwnerID: "o1", Name: "Cash", Type: core.WalletCash}); err != nil {
		t.Fatal(err)
	}

	owners, err := s.Owners(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(owners) != 2 || owners[0] != "o1" || owners[1] != "o2" {
		t.Fatalf("unexpected owners %v", owners)
	}

	budgets, err := s.Budgets(ctx, "o2")
	if err != nil {
		t.Fatal(err)
	}
	if len(budgets) != 1 || budgets[0].MonthlyLimit.Cents != 100000 {
		t.Fatalf("unexpected budgets %+v", budgets)
	}
}
