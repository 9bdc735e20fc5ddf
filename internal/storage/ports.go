// Package storage defines the port to the durable state collaborator.
// Backends live in the subpackages memory, sqlite and postgres.
package storage

import (
	"context"

	"dompet/internal/core"
)

// Store is the storage collaborator. All reads are scoped by the
// opaque owner identifier supplied by the identity layer; the ledger
// is otherwise identity-agnostic.
//
// Every mutation that touches a balance goes through Apply as one
// change set: the store applies all of it or none of it, with deltas
// executed as storage-level increments in listed order. A store that
// cannot guarantee atomicity must report a mid-set failure as
// *core.PartialApplyError.
type Store interface {
	Wallets(ctx context.Context, ownerID string) ([]core.Wallet, error)
	Wallet(ctx context.Context, ownerID, id string) (core.Wallet, error)
	SaveWallet(ctx context.Context, w core.Wallet) error

	Transactions(ctx context.Context, ownerID string) ([]core.Transaction, error)
	Transaction(ctx context.Context, ownerID, id string) (core.Transaction, error)

	Debts(ctx context.Context, ownerID string) ([]core.Debt, error)
	Debt(ctx context.Context, ownerID, id string) (core.Debt, error)

	Budgets(ctx context.Context, ownerID string) ([]core.Budget, error)
	SaveBudget(ctx context.Context, b core.Budget) error

	// Owners lists every owner with stored state, for reconciliation
	// sweeps.
	Owners(ctx context.Context) ([]string, error)

	Apply(ctx context.Context, cs core.ChangeSet) error

	Close() error
}
