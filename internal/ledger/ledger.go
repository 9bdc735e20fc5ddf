// Package ledger is the balance mutation engine: the single place that
// maps a transaction's type to a signed balance delta and applies or
// reverts it against a wallet.
//
// Polarity convention, used by every caller including reporting: the
// type tag describes the cash-flow direction of that specific entry.
// DEBT and RECEIVABLE appear only on loan-creation entries (borrowing
// puts cash in, lending takes cash out); repayment entries are posted
// as plain EXPENSE or INCOME by the debt engine.
package ledger

import "dompet/internal/core"

// Sign returns +1 or -1 for the balance effect of an entry type.
func Sign(t core.TransactionType) (int64, error) {
	switch t {
	case core.Income, core.DebtIn:
		return 1, nil
	case core.Expense, core.Receivable:
		return -1, nil
	}
	return 0, core.ErrInvalidType
}

// Delta returns the signed cent amount a transaction moves its wallet by.
func Delta(t core.Transaction) (int64, error) {
	if t.Amount.Cents <= 0 {
		return 0, core.ErrInvalidAmount
	}
	sign, err := Sign(t.Type)
	if err != nil {
		return 0, err
	}
	return sign * t.Amount.Cents, nil
}

// Apply computes the wallet balance after the transaction. It touches
// nothing but the balance field and is pure: the caller persists the
// result through a change set.
func Apply(w core.Wallet, t core.Transaction) (core.Money, error) {
	if t.WalletID != w.ID {
		return core.Money{}, core.ErrWalletNotFound
	}
	d, err := Delta(t)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: w.Balance.Cents + d}, nil
}

// Revert is the exact inverse of Apply. Applying then reverting the
// same transaction returns the wallet to its prior balance.
func Revert(w core.Wallet, t core.Transaction) (core.Money, error) {
	if t.WalletID != w.ID {
		return core.Money{}, core.ErrWalletNotFound
	}
	d, err := Delta(t)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: w.Balance.Cents - d}, nil
}
