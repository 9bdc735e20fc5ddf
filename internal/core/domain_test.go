package core

import (
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		OwnerID:     "owner-1",
		WalletID:    "wallet-1",
		Type:        Expense,
		Category:    "Makanan",
		Amount:      Money{Cents: 1500},
		Description: "warung",
		OccurredAt:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestWalletValidate(t *testing.T) {
	good := Wallet{OwnerID: "owner-1", Name: "Dompet Utama", Type: WalletCash}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Wallet{
		{OwnerID: "", Name: "a", Type: WalletCash},
		{OwnerID: "owner-1", Name: "  ", Type: WalletBank},
		{OwnerID: "owner-1", Name: "a", Type: "CRYPTO"},
	}
	for i, w := range bads {
		if err := w.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"empty owner", func(tx *Transaction) { tx.OwnerID = "" }},
		{"missing wallet", func(tx *Transaction) { tx.WalletID = "" }},
		{"bad type", func(tx *Transaction) { tx.Type = "REFUND" }},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }},
		{"empty category", func(tx *Transaction) { tx.Category = " " }},
		{"zero date", func(tx *Transaction) { tx.OccurredAt = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDebtValidateAndState(t *testing.T) {
	d := Debt{
		OwnerID:  "owner-1",
		WalletID: "wallet-1",
		Title:    "Pinjam Teman",
		Type:     DebtPayable,
		Initial:  Money{Cents: 200000_00},
		Remaining: Money{
			Cents: 200000_00,
		},
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got := d.State(); got != DebtOpen {
		t.Fatalf("expected OPEN, got %s", got)
	}

	d.Remaining.Cents = 150000_00
	if got := d.State(); got != DebtPartial {
		t.Fatalf("expected PARTIAL, got %s", got)
	}

	d.Remaining.Cents = 0
	if got := d.State(); got != DebtClosed {
		t.Fatalf("expected CLOSED, got %s", got)
	}

	// Remaining above the principal is never valid.
	d.Remaining.Cents = d.Initial.Cents + 1
	if err := d.Validate(); err == nil {
		t.Fatalf("expected error for remaining > initial")
	}
}

func TestTransactionTypeValid(t *testing.T) {
	for _, ty := range []TransactionType{Income, Expense, DebtIn, Receivable} {
		if !ty.Valid() {
			t.Fatalf("%s should be valid", ty)
		}
	}
	if TransactionType("TRANSFER").Valid() {
		t.Fatalf("TRANSFER is not a transaction type")
	}
}
