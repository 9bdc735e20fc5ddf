// Package worker hosts the reconciliation worker: the second line of
// defense behind atomic change sets. It replays each owner's ledger
// and heals any wallet whose stored balance drifted from the log.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/ledger"
	"dompet/internal/storage"
)

type Reconciler struct {
	store  storage.Store
	repair bool
}

// NewReconciler builds a reconciler. With repair off it only reports
// drift; with repair on it also applies the correcting deltas.
func NewReconciler(store storage.Store, repair bool) *Reconciler {
	return &Reconciler{store: store, repair: repair}
}

// HandleEvent is the AMQP consumer hook: any ledger event triggers a
// reconciliation pass for that owner.
func (r *Reconciler) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	_, err := r.ReconcileOwner(ctx, ev.OwnerID)
	return err
}

// ReconcileOwner recomputes every wallet balance for one owner from
// opening amount plus transaction log and diffs against stored state.
// Detected drift is logged as core.ErrInconsistentState and, in repair
// mode, healed in a single change set.
func (r *Reconciler) ReconcileOwner(ctx context.Context, ownerID string) ([]ledger.Drift, error) {
	wallets, err := r.store.Wallets(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}
	txs, err := r.store.Transactions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	drifts, err := ledger.Reconcile(wallets, txs)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	if len(drifts) == 0 {
		return nil, nil
	}

	for _, d := range drifts {
		slog.WarnContext(ctx, "Wallet balance drift detected",
			"owner_id", ownerID,
			"wallet_id", d.WalletID,
			"stored_cents", d.Stored.Cents,
			"expected_cents", d.Expected.Cents,
			"error", core.ErrInconsistentState)
	}

	if !r.repair {
		return drifts, nil
	}

	if err := r.store.Apply(ctx, ledger.RepairSet(ownerID, drifts)); err != nil {
		return drifts, fmt.Errorf("repair drift: %w", err)
	}
	slog.InfoContext(ctx, "Wallet balance drift repaired",
		"owner_id", ownerID,
		"wallets", len(drifts))
	return drifts, nil
}

// Sweep reconciles every known owner, used by the periodic pass that
// catches drift whose event was lost.
func (r *Reconciler) Sweep(ctx context.Context) error {
	owners, err := r.store.Owners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}
	for _, ownerID := range owners {
		if _, err := r.ReconcileOwner(ctx, ownerID); err != nil {
			slog.ErrorContext(ctx, "Sweep failed for owner",
				"owner_id", ownerID,
				"error", err)
		}
	}
	return nil
}
