// Package services holds the orchestrators that compose change sets
// from user-level operations and hand them to the store, publishing a
// ledger event once the set has landed.
package services

import (
	"context"
	"log/slog"

	"dompet/internal/amqp"
)

// Publisher emits ledger events after a change set lands. The AMQP
// client satisfies it; tests pass a recording fake or nil.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// publish is best-effort everywhere: local state already changed, a
// failed event only delays the reconciliation worker.
func publish(ctx context.Context, p Publisher, ev *amqp.LedgerEvent) {
	if p == nil {
		return
	}
	if err := p.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", ev.Kind,
			"owner_id", ev.OwnerID,
			"entity_id", ev.EntityID,
			"error", err)
	}
}
