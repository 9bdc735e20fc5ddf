package log

// Shared field names so log lines stay greppable across components.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldOwnerID     = "owner_id"
	FieldWalletID    = "wallet_id"
	FieldTxID        = "transaction_id"
	FieldDebtID      = "debt_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldTxType      = "transaction_type"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentDebt      = "debt"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackend   = "backend"
	ComponentReconcile = "reconcile"
)

// Standard operation names.
const (
	OpCreate    = "create"
	OpDelete    = "delete"
	OpTransfer  = "transfer"
	OpRepay     = "repay"
	OpList      = "list"
	OpReport    = "report"
	OpReconcile = "reconcile"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
