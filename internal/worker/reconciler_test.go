package worker

import (
	"context"
	"testing"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/storage/memory"
)

// driftedStore seeds one owner whose stored balance disagrees with the
// transaction log by +5,000.
func driftedStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	ctx := context.Background()

	if err := s.SaveWallet(ctx, core.Wallet{
		ID:        "w1",
		OwnerID:   "o1",
		Name:      "Bank",
		Type:      core.WalletBank,
		Opening:   core.Money{Cents: 100000},
		Balance:   core.Money{Cents: 155000},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ctx, core.ChangeSet{
		OwnerID: "o1",
		PutTransactions: []core.Transaction{{
			ID: "t1", OwnerID: "o1", WalletID: "w1",
			Type: core.Income, Category: "Gaji",
			Amount: core.Money{Cents: 50000}, OccurredAt: time.Now(),
		}},
	}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestReconcileOwnerReportOnly(t *testing.T) {
	s := driftedStore(t)
	r := NewReconciler(s, false)

	drifts, err := r.ReconcileOwner(context.Background(), "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 || drifts[0].WalletID != "w1" {
		t.Fatalf("unexpected drifts %+v", drifts)
	}

	// Report-only mode leaves the stored balance alone.
	w, err := s.Wallet(context.Background(), "o1", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Balance.Cents != 155000 {
		t.Fatalf("balance changed in report mode: %d", w.Balance.Cents)
	}
}

func TestReconcileOwnerRepairs(t *testing.T) {
	s := driftedStore(t)
	r := NewReconciler(s, true)

	drifts, err := r.ReconcileOwner(context.Background(), "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 {
		t.Fatalf("expected one drift, got %d", len(drifts))
	}

	w, err := s.Wallet(context.Background(), "o1", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Balance.Cents != 150000 {
		t.Fatalf("balance %d, want repaired 150000", w.Balance.Cents)
	}

	// A second pass finds nothing.
	drifts, err = r.ReconcileOwner(context.Background(), "o1")
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drift survived repair: %+v", drifts)
	}
}

func TestHandleEvent(t *testing.T) {
	s := driftedStore(t)
	r := NewReconciler(s, true)

	ev := amqp.NewLedgerEvent(amqp.EventTransactionPosted, "o1", "t1", "w1", 50000)
	if err := r.HandleEvent(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	w, err := s.Wallet(context.Background(), "o1", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Balance.Cents != 150000 {
		t.Fatalf("balance %d, want 150000", w.Balance.Cents)
	}
}

func TestSweepCoversAllOwners(t *testing.T) {
	s := driftedStore(t)
	ctx := context.Background()

	// Second owner, no drift.
	if err := s.SaveWallet(ctx, core.Wallet{
		ID: "w2", OwnerID: "o2", Name: "Cash", Type: core.WalletCash,
		Opening: core.Money{Cents: 10000}, Balance: core.Money{Cents: 10000},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	r := NewReconciler(s, true)
	if err := r.Sweep(ctx); err != nil {
		t.Fatal(err)
	}

	w, err := s.Wallet(ctx, "o1", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Balance.Cents != 150000 {
		t.Fatalf("sweep did not repair: %d", w.Balance.Cents)
	}
	w2, err := s.Wallet(ctx, "o2", "w2")
	if err != nil {
		t.Fatal(err)
	}
	if w2.Balance.Cents != 10000 {
		t.Fatalf("sweep moved a clean wallet: %d", w2.Balance.Cents)
	}
}
