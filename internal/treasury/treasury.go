package treasury

import "context"

// Transfer kinds.
const (
	KindPayout = "payout"
	KindRefund = "refund"
)

// TransferInput describes a fund movement to execute outside the ledger.
// Reference carries the originating event id so the treasury can deduplicate
// redelivered requests.
type TransferInput struct {
	ServiceID int64  `json:"service_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
}

// TransferResult is the treasury's acknowledgment of a transfer.
type TransferResult struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// Treasury executes external fund transfers. The ledger calls it only after
// the local state transition has been committed.
type Treasury interface {
	Transfer(ctx context.Context, input TransferInput) (*TransferResult, error)
}
