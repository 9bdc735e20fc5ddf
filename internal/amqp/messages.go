package amqp

import (
	"encoding/json"
	"time"
)

type EventKind string

const (
	EventTransactionPosted  EventKind = "transaction.posted"
	EventTransactionDeleted EventKind = "transaction.deleted"
	EventDebtCreated        EventKind = "debt.created"
	EventDebtRepaid         EventKind = "debt.repaid"
	EventDebtDeleted        EventKind = "debt.deleted"
	EventWalletDeleted      EventKind = "wallet.deleted"
)

// LedgerEvent is the lightweight message emitted after a change set
// lands. Consumers fetch whatever state they need from the store; the
// event only says whose ledger moved and roughly why.
type LedgerEvent struct {
	Kind        EventKind `json:"kind"`
	OwnerID     string    `json:"owner_id"`
	EntityID    string    `json:"entity_id"`
	WalletID    string    `json:"wallet_id,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind EventKind, ownerID, entityID, walletID string, amountCents int64) *LedgerEvent {
	return &LedgerEvent{
		Kind:        kind,
		OwnerID:     ownerID,
		EntityID:    entityID,
		WalletID:    walletID,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
