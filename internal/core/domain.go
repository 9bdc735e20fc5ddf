package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income     TransactionType = "INCOME"
	Expense    TransactionType = "EXPENSE"
	DebtIn     TransactionType = "DEBT"       // loan-creation entry, cash received
	Receivable TransactionType = "RECEIVABLE" // loan-creation entry, cash given out
)

const (
	WalletCash       WalletType = "CASH"
	WalletBank       WalletType = "BANK"
	WalletEwallet    WalletType = "EWALLET"
	WalletInvestment WalletType = "INVESTMENT"
)

const (
	DebtPayable    DebtType = "DEBT"       // hutang: the user owes someone
	DebtReceivable DebtType = "RECEIVABLE" // piutang: someone owes the user
)

// Reserved categories used by the transfer and debt engines. Any other
// category is free text; DefaultCategories is only the seed set offered
// to the UI layer.
const (
	CategoryTransfer = "Transfer"
	CategoryTopUp    = "Top Up"
	CategoryHutang   = "Hutang"
	CategoryPiutang  = "Piutang"
)

var DefaultCategories = []string{
	"Makanan", "Transportasi", "Belanja", "Tagihan", "Hiburan",
	"Kesehatan", "Pendidikan", "Gaji", "Bonus", "Investasi", "Lainnya",
	CategoryTransfer, CategoryTopUp, CategoryHutang, CategoryPiutang,
}

type (
	TransactionType string
	WalletType      string
	DebtType        string
	DebtState       string

	// Wallet is a named pool of money. Balance always equals Opening
	// plus the signed sum of all non-deleted transactions referencing
	// the wallet; only ledger change sets may move it.
	Wallet struct {
		ID        string
		OwnerID   string
		Name      string
		Code      string // optional short label shown in listings
		Type      WalletType
		Opening   Money
		Balance   Money
		CreatedAt time.Time
	}

	// Transaction is one immutable ledger entry. There is no update
	// operation: correcting an entry means delete and recreate.
	Transaction struct {
		ID          string
		OwnerID     string
		WalletID    string
		DebtID      string // set on debt-creation and repayment entries
		Type        TransactionType
		Category    string
		Amount      Money // positive magnitude; polarity comes from Type
		Description string
		OccurredAt  time.Time
	}

	// Debt covers both payable (hutang) and receivable (piutang)
	// positions. Remaining is monotonically non-increasing while the
	// position is open; Initial never changes after creation.
	Debt struct {
		ID        string
		OwnerID   string
		WalletID  string // settlement wallet
		Title     string
		Type      DebtType
		Initial   Money
		Remaining Money
		DueDate   time.Time
		IsPaid    bool
		CreatedAt time.Time
	}

	// Budget is a per-category monthly limit, a comparison baseline
	// for reporting only. Nothing enforces it.
	Budget struct {
		OwnerID      string
		Category     string
		MonthlyLimit Money
	}
)

const (
	DebtOpen    DebtState = "OPEN"
	DebtPartial DebtState = "PARTIAL"
	DebtClosed  DebtState = "CLOSED"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidWallet   = errors.New("invalid wallet type")
	ErrInvalidDebtType = errors.New("invalid debt type")
	ErrEmptyName       = errors.New("empty wallet name")
	ErrEmptyTitle      = errors.New("empty debt title")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyOwner      = errors.New("empty owner id")
	ErrMissingWallet   = errors.New("missing wallet reference")
	ErrZeroDate        = errors.New("date cannot be zero")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, DebtIn, Receivable:
		return true
	}
	return false
}

func (t WalletType) Valid() bool {
	switch t {
	case WalletCash, WalletBank, WalletEwallet, WalletInvestment:
		return true
	}
	return false
}

func (t DebtType) Valid() bool {
	switch t {
	case DebtPayable, DebtReceivable:
		return true
	}
	return false
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if !w.Type.Valid() {
		return ErrInvalidWallet
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(t.WalletID) == "" {
		return ErrMissingWallet
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(d.WalletID) == "" {
		return ErrMissingWallet
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if !d.Type.Valid() {
		return ErrInvalidDebtType
	}
	if err := d.Initial.Validate(); err != nil {
		return err
	}
	if d.Remaining.Cents < 0 || d.Remaining.Cents > d.Initial.Cents {
		return ErrInvalidAmount
	}
	return nil
}

// State derives the lifecycle state from the remaining amount.
// IsPaid is stored alongside it for querying but must always agree
// with Remaining == 0.
func (d Debt) State() DebtState {
	switch {
	case d.Remaining.Cents == 0:
		return DebtClosed
	case d.Remaining.Cents < d.Initial.Cents:
		return DebtPartial
	default:
		return DebtOpen
	}
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return b.MonthlyLimit.Validate()
}
