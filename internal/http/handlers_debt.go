package http

import (
	"encoding/json"
	"net/http"
	"time"

	"dompet/internal/core"
)

type debtResponse struct {
	ID        string `json:"id"`
	WalletID  string `json:"wallet_id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Initial   string `json:"initial"`
	Remaining string `json:"remaining"`
	DueDate   string `json:"due_date"`
	State     string `json:"state"`
	IsPaid    bool   `json:"is_paid"`
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:        d.ID,
		WalletID:  d.WalletID,
		Title:     d.Title,
		Type:      string(d.Type),
		Initial:   d.Initial.String(),
		Remaining: d.Remaining.String(),
		DueDate:   d.DueDate.Format("2006-01-02"),
		State:     string(d.State()),
		IsPaid:    d.IsPaid,
	}
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request, ownerID string) {
	debts, err := s.debts.Debts(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		WalletID string `json:"wallet_id"`
		Title    string `json:"title"`
		Type     string `json:"type"`
		Amount   string `json:"amount"`
		DueDate  string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	var due time.Time
	if req.DueDate != "" {
		due, err = parseDate(req.DueDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid due date"})
			return
		}
	}

	debt, origin, err := s.debts.Create(r.Context(), core.Debt{
		OwnerID:  ownerID,
		WalletID: req.WalletID,
		Title:    req.Title,
		Type:     core.DebtType(req.Type),
		Initial:  core.Money{Cents: cents},
		DueDate:  due,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"debt":        toDebtResponse(debt),
		"transaction": toTransactionResponse(origin),
	})
}

func (s *Server) handleRepayDebt(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	debt, repayment, err := s.debts.Repay(r.Context(), ownerID, r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusOK, map[string]any{
		"debt":        toDebtResponse(debt),
		"transaction": toTransactionResponse(repayment),
	})
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.debts.Delete(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusNoContent, nil)
}
