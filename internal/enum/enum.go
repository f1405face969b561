package enum

// ── Quantity mirror sync state ──

const (
	SyncStatusPending   = "pending"
	SyncStatusConfirmed = "confirmed"
	SyncStatusFailed    = "failed"
)

// ── Catalog loader image policy ──

const (
	ImagePolicyFailFast    = "fail_fast"
	ImagePolicyPlaceholder = "placeholder"
)

// ── Order submitter modes ──

const (
	SubmitModeSequential    = "sequential"
	SubmitModeCompensate    = "compensate"
	SubmitModeTransactional = "transactional"
)

// ── WebSocket event types ──

const (
	EventMenuLoaded      = "menu.loaded"
	EventQuantityUpdated = "quantity.updated"
	EventOrderCreated    = "order.created"
	EventOrderFailed     = "order.failed"
)
