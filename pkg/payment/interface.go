package payment

import "context"

// Gateway abstracts the upstream payment processor for a booking's fare.
// The marketplace only needs the escrow-style primitive set: hold funds when
// a booking is accepted online, capture on completion, refund on rejection or
// cancellation. Processing itself happens at the provider; the domain layer
// records outcomes.
type Gateway interface {
	Name() string
	Hold(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
	Capture(ctx context.Context, transactionID string) (*ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount float64, reason string) (*ChargeResult, error)
}

type ChargeRequest struct {
	Amount      float64                `json:"amount"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Reference   string                 `json:"reference"` // booking id
	Metadata    map[string]interface{} `json:"metadata"`
}

type ChargeResult struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CreatedAt     int64   `json:"created_at"`
}
