package report

import (
	"sort"
	"time"

	"dompet/internal/core"
)

type BudgetStatus string

const (
	BudgetOK   BudgetStatus = "OK"
	BudgetNear BudgetStatus = "NEAR" // above 80% of the monthly limit
	BudgetOver BudgetStatus = "OVER"
)

// CategoryTotal is spending for one category within a window.
type CategoryTotal struct {
	Category string
	Spent    core.Money
}

// BudgetLine is a category total compared against its monthly limit.
// Categories without a budget carry a zero limit and stay OK.
type BudgetLine struct {
	Category string
	Spent    core.Money
	Limit    core.Money
	Status   BudgetStatus
}

// CategoryTotals groups EXPENSE entries by category within [from, to).
// Transfers are excluded: moving money between own wallets is not
// spending.
func CategoryTotals(txs []core.Transaction, from, to time.Time) []CategoryTotal {
	sums := make(map[string]int64)
	for _, t := range txs {
		if t.Type != core.Expense || t.Category == core.CategoryTransfer {
			continue
		}
		if t.OccurredAt.Before(from) || !t.OccurredAt.Before(to) {
			continue
		}
		sums[t.Category] += t.Amount.Cents
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for cat, cents := range sums {
		totals = append(totals, CategoryTotal{Category: cat, Spent: core.Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals
}

// CompareBudget classifies each category total against its budget:
// OVER when spending exceeds the limit, NEAR above 80% of it, OK
// otherwise.
func CompareBudget(totals []CategoryTotal, budgets []core.Budget) []BudgetLine {
	limits := make(map[string]int64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.MonthlyLimit.Cents
	}

	lines := make([]BudgetLine, 0, len(totals))
	for _, t := range totals {
		line := BudgetLine{
			Category: t.Category,
			Spent:    t.Spent,
			Limit:    core.Money{Cents: limits[t.Category]},
			Status:   BudgetOK,
		}
		if limit := limits[t.Category]; limit > 0 {
			switch {
			case t.Spent.Cents > limit:
				line.Status = BudgetOver
			case t.Spent.Cents*5 > limit*4: // spent/limit > 0.8 without floats
				line.Status = BudgetNear
			}
		}
		lines = append(lines, line)
	}
	return lines
}
