package core

import (
	"errors"
	"fmt"
)

// Operational error taxonomy. Validation errors live next to the
// entities in domain.go; these cover lookups and lifecycle conflicts.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDebtNotFound        = errors.New("debt not found")
	ErrSameWallet          = errors.New("transfer source and destination are the same wallet")
	ErrAlreadySettled      = errors.New("debt already settled")
	ErrInconsistentState   = errors.New("wallet balance inconsistent with transaction log")
)

// PartialApplyError reports a change set that failed after some of its
// steps were already applied. Stores with a real transaction primitive
// never return it; a store that cannot roll back wraps the failing
// step's error so the caller can retry the remainder or compensate.
type PartialApplyError struct {
	Applied int // steps already applied
	Total   int // steps in the change set
	Err     error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("change set partially applied (%d of %d steps): %v", e.Applied, e.Total, e.Err)
}

func (e *PartialApplyError) Unwrap() error { return e.Err }
