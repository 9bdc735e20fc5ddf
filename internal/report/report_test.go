package report

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestRunningBalance(t *testing.T) {
	wallets := []core.Wallet{
		{ID: "w1", OwnerID: "o1", Name: "Cash", Type: core.WalletCash, Opening: core.Money{Cents: 100000}},
		{ID: "w2", OwnerID: "o1", Name: "Bank", Type: core.WalletBank, Opening: core.Money{Cents: 50000}},
	}
	// Out of order on purpose: the series must sort by date.
	txs := []core.Transaction{
		{ID: "t2", WalletID: "w2", Type: core.Expense, Amount: core.Money{Cents: 20000}, OccurredAt: day(2)},
		{ID: "t1", WalletID: "w1", Type: core.Income, Amount: core.Money{Cents: 40000}, OccurredAt: day(1)},
		{ID: "t3", WalletID: "w1", Type: core.Receivable, Amount: core.Money{Cents: 10000}, OccurredAt: day(3)},
	}

	points, err := RunningBalance(wallets, txs)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{190000, 170000, 160000}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if p.Balance.Cents != want[i] {
			t.Fatalf("point %d: got %d, want %d", i, p.Balance.Cents, want[i])
		}
	}
	if !points[0].Date.Equal(day(1)) {
		t.Fatalf("series not sorted by date: first point %v", points[0].Date)
	}
}

func TestNetWorth(t *testing.T) {
	wallets := []core.Wallet{
		{ID: "w1", Balance: core.Money{Cents: 500000}},
		{ID: "w2", Balance: core.Money{Cents: 250000}},
	}
	debts := []core.Debt{
		{ID: "d1", Type: core.DebtPayable, Remaining: core.Money{Cents: 100000}},
		{ID: "d2", Type: core.DebtReceivable, Remaining: core.Money{Cents: 40000}},
		{ID: "d3", Type: core.DebtPayable, Remaining: core.Money{Cents: 0}, IsPaid: true},
	}

	got := NetWorth(wallets, debts)
	if got.Cents != 690000 {
		t.Fatalf("got %d, want 690000", got.Cents)
	}
}

func TestNetWorthUnchangedByTransfer(t *testing.T) {
	before := NetWorth([]core.Wallet{
		{ID: "w1", Balance: core.Money{Cents: 500000}},
		{ID: "w2", Balance: core.Money{Cents: 0}},
	}, nil)

	// Same owner after moving 200,000 from w1 to w2.
	after := NetWorth([]core.Wallet{
		{ID: "w1", Balance: core.Money{Cents: 300000}},
		{ID: "w2", Balance: core.Money{Cents: 200000}},
	}, nil)

	if before.Cents != after.Cents {
		t.Fatalf("net worth moved across a transfer: %d -> %d", before.Cents, after.Cents)
	}
}

func TestProfitLoss(t *testing.T) {
	w := core.Wallet{
		ID:      "inv",
		Name:    "Saham",
		Type:    core.WalletInvestment,
		Opening: core.Money{Cents: 1000000},
		Balance: core.Money{Cents: 1350000},
	}
	txs := []core.Transaction{
		// Top-up of 200,000 is capital, not gain.
		{ID: "t1", WalletID: "inv", Type: core.Income, Category: core.CategoryTopUp, Amount: core.Money{Cents: 200000}, OccurredAt: day(1)},
		// Organic income counts toward gain.
		{ID: "t2", WalletID: "inv", Type: core.Income, Category: "Dividen", Amount: core.Money{Cents: 50000}, OccurredAt: day(2)},
		// Entries on other wallets are ignored.
		{ID: "t3", WalletID: "other", Type: core.Income, Category: core.CategoryTopUp, Amount: core.Money{Cents: 99999}, OccurredAt: day(3)},
	}

	got, err := ProfitLoss(w, txs)
	if err != nil {
		t.Fatal(err)
	}
	// Basis 1,000,000 + 200,000 = 1,200,000; balance 1,350,000.
	if got.Cents != 150000 {
		t.Fatalf("got %d, want 150000", got.Cents)
	}
}

func TestProfitLossDebtEntriesAreCapital(t *testing.T) {
	w := core.Wallet{
		ID:      "w1",
		Opening: core.Money{Cents: 0},
		Balance: core.Money{Cents: 200000},
	}
	txs := []core.Transaction{
		{ID: "t1", WalletID: "w1", Type: core.DebtIn, Category: core.CategoryHutang, Amount: core.Money{Cents: 200000}, OccurredAt: day(1)},
	}

	got, err := ProfitLoss(w, txs)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cents != 0 {
		t.Fatalf("borrowed money reported as gain: %d", got.Cents)
	}
}
