package ledger

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func TestReconcileClean(t *testing.T) {
	w := core.Wallet{
		ID:      "w1",
		OwnerID: "o1",
		Name:    "Bank",
		Type:    core.WalletBank,
		Opening: core.Money{Cents: 100000},
		Balance: core.Money{Cents: 130000},
	}
	txs := []core.Transaction{
		{ID: "t1", OwnerID: "o1", WalletID: "w1", Type: core.Income, Category: "Gaji", Amount: core.Money{Cents: 50000}, OccurredAt: time.Now()},
		{ID: "t2", OwnerID: "o1", WalletID: "w1", Type: core.Expense, Category: "Makanan", Amount: core.Money{Cents: 20000}, OccurredAt: time.Now()},
	}

	drifts, err := Reconcile([]core.Wallet{w}, txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Fatalf("expected no drift, got %+v", drifts)
	}
}

func TestReconcileDriftAndRepair(t *testing.T) {
	// Stored balance was moved outside the engine by 5,000.
	w := core.Wallet{
		ID:      "w1",
		OwnerID: "o1",
		Name:    "Bank",
		Type:    core.WalletBank,
		Opening: core.Money{Cents: 100000},
		Balance: core.Money{Cents: 155000},
	}
	txs := []core.Transaction{
		{ID: "t1", OwnerID: "o1", WalletID: "w1", Type: core.Income, Category: "Gaji", Amount: core.Money{Cents: 50000}, OccurredAt: time.Now()},
	}

	drifts, err := Reconcile([]core.Wallet{w}, txs)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 {
		t.Fatalf("expected one drift, got %d", len(drifts))
	}
	d := drifts[0]
	if d.WalletID != "w1" || d.Stored.Cents != 155000 || d.Expected.Cents != 150000 {
		t.Fatalf("unexpected drift %+v", d)
	}

	cs := RepairSet("o1", drifts)
	if cs.OwnerID != "o1" || len(cs.Deltas) != 1 {
		t.Fatalf("unexpected repair set %+v", cs)
	}
	if cs.Deltas[0].WalletID != "w1" || cs.Deltas[0].Cents != -5000 {
		t.Fatalf("unexpected repair delta %+v", cs.Deltas[0])
	}
}
