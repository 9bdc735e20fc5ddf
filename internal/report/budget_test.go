package report

import (
	"testing"
	"time"

	"dompet/internal/core"
)

func expense(category string, cents int64, at time.Time) core.Transaction {
	return core.Transaction{
		WalletID:   "w1",
		Type:       core.Expense,
		Category:   category,
		Amount:     core.Money{Cents: cents},
		OccurredAt: at,
	}
}

func TestCategoryTotals(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	txs := []core.Transaction{
		expense("Makanan", 30000, day(5)),
		expense("Makanan", 20000, day(10)),
		expense("Transportasi", 15000, day(7)),
		// Excluded: transfer between own wallets.
		expense(core.CategoryTransfer, 100000, day(8)),
		// Excluded: income is not spending.
		{WalletID: "w1", Type: core.Income, Category: "Makanan", Amount: core.Money{Cents: 5000}, OccurredAt: day(9)},
		// Excluded: outside the window. The end is exclusive.
		expense("Makanan", 7000, to),
		expense("Makanan", 7000, from.AddDate(0, 0, -1)),
	}

	totals := CategoryTotals(txs, from, to)
	if len(totals) != 2 {
		t.Fatalf("got %d categories, want 2: %+v", len(totals), totals)
	}
	if totals[0].Category != "Makanan" || totals[0].Spent.Cents != 50000 {
		t.Fatalf("unexpected total %+v", totals[0])
	}
	if totals[1].Category != "Transportasi" || totals[1].Spent.Cents != 15000 {
		t.Fatalf("unexpected total %+v", totals[1])
	}
}

func TestCompareBudget(t *testing.T) {
	budgets := []core.Budget{
		{OwnerID: "o1", Category: "Makanan", MonthlyLimit: core.Money{Cents: 100000}},
	}

	cases := []struct {
		name  string
		spent int64
		want  BudgetStatus
	}{
		{"well under", 50000, BudgetOK},
		{"exactly 80 percent", 80000, BudgetOK},
		{"just above 80 percent", 80001, BudgetNear},
		{"exactly at limit", 100000, BudgetNear},
		{"over limit", 100001, BudgetOver},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := CompareBudget([]CategoryTotal{{Category: "Makanan", Spent: core.Money{Cents: tc.spent}}}, budgets)
			if len(lines) != 1 {
				t.Fatalf("got %d lines", len(lines))
			}
			if lines[0].Status != tc.want {
				t.Fatalf("spent %d: got %s, want %s", tc.spent, lines[0].Status, tc.want)
			}
		})
	}
}

func TestCompareBudgetUnbudgetedCategory(t *testing.T) {
	lines := CompareBudget([]CategoryTotal{{Category: "Hiburan", Spent: core.Money{Cents: 999999}}}, nil)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0].Status != BudgetOK || lines[0].Limit.Cents != 0 {
		t.Fatalf("unexpected line %+v", lines[0])
	}
}
