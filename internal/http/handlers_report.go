package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dompet/internal/core"
	"dompet/internal/report"
)

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request, ownerID string) {
	cacheKey := ownerID + ":networth"
	if cached, ok := s.reports.get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	wallets, err := s.store.Wallets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	debts, err := s.store.Debts(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]string{"net_worth": report.NetWorth(wallets, debts).String()}
	s.reports.set(ownerID, cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalanceSeries(w http.ResponseWriter, r *http.Request, ownerID string) {
	cacheKey := ownerID + ":series"
	if cached, ok := s.reports.get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	wallets, err := s.store.Wallets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	txs, err := s.store.Transactions(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	points, err := report.RunningBalance(wallets, txs)
	if err != nil {
		writeError(w, err)
		return
	}

	type point struct {
		Date    string `json:"date"`
		Balance string `json:"balance"`
	}
	resp := make([]point, 0, len(points))
	for _, p := range points {
		resp = append(resp, point{Date: p.Date.Format(time.RFC3339), Balance: p.Balance.String()})
	}
	s.reports.set(ownerID, cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWalletPerformance(w http.ResponseWriter, r *http.Request, ownerID string) {
	wallets, err := s.store.Wallets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	txs, err := s.store.Transactions(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	type line struct {
		WalletID   string `json:"wallet_id"`
		Name       string `json:"name"`
		Balance    string `json:"balance"`
		ProfitLoss string `json:"profit_loss"`
	}
	resp := make([]line, 0, len(wallets))
	for _, wl := range wallets {
		pl, err := report.ProfitLoss(wl, txs)
		if err != nil {
			writeError(w, err)
			return
		}
		resp = append(resp, line{WalletID: wl.ID, Name: wl.Name, Balance: wl.Balance.String(), ProfitLoss: pl.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBudgetReport compares the month's category spending against
// budgets. Defaults to the current month.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request, ownerID string) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	txs, err := s.store.Transactions(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	budgets, err := s.store.Budgets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	lines := report.CompareBudget(report.CategoryTotals(txs, from, to), budgets)

	type line struct {
		Category string `json:"category"`
		Spent    string `json:"spent"`
		Limit    string `json:"limit"`
		Status   string `json:"status"`
	}
	resp := make([]line, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, line{Category: l.Category, Spent: l.Spent.String(), Limit: l.Limit.String(), Status: string(l.Status)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, ownerID string) {
	budgets, err := s.store.Budgets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	type line struct {
		Category     string `json:"category"`
		MonthlyLimit string `json:"monthly_limit"`
	}
	resp := make([]line, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, line{Category: b.Category, MonthlyLimit: b.MonthlyLimit.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		Category     string `json:"category"`
		MonthlyLimit string `json:"monthly_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cents, err := core.ParseDecimalToCents(req.MonthlyLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	b := core.Budget{OwnerID: ownerID, Category: req.Category, MonthlyLimit: core.Money{Cents: cents}}
	if err := b.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SaveBudget(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusOK, map[string]string{"category": b.Category, "monthly_limit": b.MonthlyLimit.String()})
}
