// Package report derives read-only views by replaying the transaction
// log. Every function is deterministic over its snapshot arguments and
// mutates nothing; at personal-finance volumes O(n) per view is fine.
package report

import (
	"sort"
	"time"

	"dompet/internal/core"
	"dompet/internal/ledger"
)

// BalancePoint is one step of the running total-balance series.
type BalancePoint struct {
	Date    time.Time
	Balance core.Money
}

// RunningBalance folds the transaction log forward from the sum of all
// opening balances, producing one point per entry in chronological
// order. The anchor is always the opening side; mixing forward and
// backward anchors is what produces drift between views.
func RunningBalance(wallets []core.Wallet, txs []core.Transaction) ([]BalancePoint, error) {
	var total int64
	for _, w := range wallets {
		total += w.Opening.Cents
	}

	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	points := make([]BalancePoint, 0, len(sorted))
	for _, t := range sorted {
		d, err := ledger.Delta(t)
		if err != nil {
			return nil, err
		}
		total += d
		points = append(points, BalancePoint{Date: t.OccurredAt, Balance: core.Money{Cents: total}})
	}
	return points, nil
}

// NetWorth is total wallet balances minus what the user still owes
// plus what is still owed to the user.
func NetWorth(wallets []core.Wallet, debts []core.Debt) core.Money {
	var total int64
	for _, w := range wallets {
		total += w.Balance.Cents
	}
	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		switch d.Type {
		case core.DebtPayable:
			total -= d.Remaining.Cents
		case core.DebtReceivable:
			total += d.Remaining.Cents
		}
	}
	return core.Money{Cents: total}
}

// isCapital reports whether an entry moves capital rather than organic
// income or spending: transfers, top-ups and anything in a debt
// lifecycle (creation and repayments both carry the debt reference).
func isCapital(t core.Transaction) bool {
	if t.DebtID != "" || t.Type == core.DebtIn || t.Type == core.Receivable {
		return true
	}
	return t.Category == core.CategoryTransfer || t.Category == core.CategoryTopUp
}

// ProfitLoss separates "you deposited more money" from "the asset
// grew": current balance minus the capital basis, where the basis is
// the opening balance plus the net of capital-tagged entries.
func ProfitLoss(w core.Wallet, txs []core.Transaction) (core.Money, error) {
	basis := w.Opening.Cents
	for _, t := range txs {
		if t.WalletID != w.ID || !isCapital(t) {
			continue
		}
		d, err := ledger.Delta(t)
		if err != nil {
			return core.Money{}, err
		}
		basis += d
	}
	return core.Money{Cents: w.Balance.Cents - basis}, nil
}
