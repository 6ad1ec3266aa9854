package payment

import (
	"context"
	"encoding/json"
)

// SaleRequest is a sale submission. Amount is pre-formatted to two
// fraction digits, the format the gateway requires.
type SaleRequest struct {
	Amount             string `json:"amount"`
	PaymentMethodNonce string `json:"paymentMethodNonce"`
}

// SaleResult is the gateway's answer to a sale submission. Raw holds
// the response payload verbatim; it is stored inside the order for
// audit once the sale is accepted. Success=false means the payment
// was declined business-wise, distinct from a transport error.
type SaleResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Gateway is the external payment-processing collaborator. It exposes
// exactly two operations: client token issuance and sale submission.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, req SaleRequest) (*SaleResult, error)
}
