package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dompet/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the core error taxonomy onto HTTP statuses:
// validation 400, lookups 404, lifecycle conflicts 409, partial
// application 502 (the caller must decide whether to retry), anything
// else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var partial *core.PartialApplyError
	switch {
	case errors.Is(err, core.ErrWalletNotFound),
		errors.Is(err, core.ErrTransactionNotFound),
		errors.Is(err, core.ErrDebtNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrAlreadySettled):
		status = http.StatusConflict
	case errors.As(err, &partial):
		status = http.StatusBadGateway
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidWallet),
		errors.Is(err, core.ErrInvalidDebtType),
		errors.Is(err, core.ErrSameWallet),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyOwner),
		errors.Is(err, core.ErrMissingWallet),
		errors.Is(err, core.ErrZeroDate):
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}
