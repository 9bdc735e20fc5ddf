package http

import (
	"encoding/json"
	"net/http"
	"time"

	"dompet/internal/core"
)

type transactionResponse struct {
	ID          string `json:"id"`
	WalletID    string `json:"wallet_id"`
	DebtID      string `json:"debt_id,omitempty"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		WalletID:    t.WalletID,
		DebtID:      t.DebtID,
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      t.Amount.String(),
		Description: t.Description,
		OccurredAt:  t.OccurredAt.Format(time.RFC3339),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, ownerID string) {
	txs, err := s.ledger.Transactions(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		WalletID    string `json:"wallet_id"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date"`
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

	var occurredAt time.Time
	if req.Date != "" {
		occurredAt, err = parseDate(req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date"})
			return
		}
	}

	tx, err := s.ledger.CreateTransaction(r.Context(), core.Transaction{
		OwnerID:     ownerID,
		WalletID:    req.WalletID,
		Type:        core.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.ledger.DeleteTransaction(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		FromWalletID string `json:"from_wallet_id"`
		ToWalletID   string `json:"to_wallet_id"`
		Amount       string `json:"amount"`
		Note         string `json:"note"`
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

	outgoing, incoming, err := s.ledger.Transfer(r.Context(), ownerID,
		req.FromWalletID, req.ToWalletID, core.Money{Cents: cents}, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusCreated, map[string]transactionResponse{
		"outgoing": toTransactionResponse(outgoing),
		"incoming": toTransactionResponse(incoming),
	})
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		WalletID string `json:"wallet_id"`
		Amount   string `json:"amount"`
		Note     string `json:"note"`
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

	tx, err := s.ledger.TopUp(r.Context(), ownerID, req.WalletID, core.Money{Cents: cents}, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}
