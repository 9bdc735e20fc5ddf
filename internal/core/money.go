// Package core defines the domain entities of the ledger: wallets,
// transactions, debts and budgets, plus the Money value type they share.
//
// This file contains money parsing and formatting. Amounts are stored
// as int64 cents everywhere; decimals exist only at the parse/display
// boundary.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in smallest-unit integer cents.
// Transaction amounts are always positive magnitudes; wallet balances
// may go negative (overdraft is allowed, this is a tracker not a bank).
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String renders the amount with two decimal places, e.g. "1234.50".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma
// (12,34) separators are accepted. Only strictly positive amounts are
// valid.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseSignedDecimalToCents is ParseDecimalToCents without the
// positivity check, for opening balances which may start negative.
func ParseSignedDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
