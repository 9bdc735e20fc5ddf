package http

import (
	"encoding/json"
	"net/http"
	"time"

	"dompet/internal/core"
)

type walletResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Type    string `json:"type"`
	Opening string `json:"opening"`
	Balance string `json:"balance"`
}

func toWalletResponse(w core.Wallet) walletResponse {
	return walletResponse{
		ID:      w.ID,
		Name:    w.Name,
		Code:    w.Code,
		Type:    string(w.Type),
		Opening: w.Opening.String(),
		Balance: w.Balance.String(),
	}
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request, ownerID string) {
	wallets, err := s.wallets.Wallets(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, wl := range wallets {
		out = append(out, toWalletResponse(wl))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req struct {
		Name    string `json:"name"`
		Code    string `json:"code"`
		Type    string `json:"type"`
		Opening string `json:"opening"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Opening is optional and may legitimately be zero or negative, so
	// it does not go through the positive-amount parser.
	var opening core.Money
	if req.Opening != "" {
		d, err := core.ParseSignedDecimalToCents(req.Opening)
		if err != nil {
			writeError(w, err)
			return
		}
		opening = core.Money{Cents: d}
	}

	wallet, err := s.wallets.CreateWallet(r.Context(), core.Wallet{
		OwnerID: ownerID,
		Name:    req.Name,
		Code:    req.Code,
		Type:    core.WalletType(req.Type),
		Opening: opening,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusCreated, toWalletResponse(wallet))
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.wallets.DeleteWallet(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.reports.invalidateOwner(ownerID)
	writeJSON(w, http.StatusNoContent, nil)
}

// parseDate accepts RFC 3339 or plain YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
