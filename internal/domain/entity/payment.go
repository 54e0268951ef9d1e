package entity

import "time"

// PaymentEvent records a provider-verified payment notification. The
// unique (order_id, transaction_status) pair makes webhook replays
// at-most-once: re-delivered notifications collapse onto the same row.
type PaymentEvent struct {
	ID                string
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
	RawPayload        []byte
	CreatedAt         time.Time
}

// PaymentOutcome is the normalized, provider-verified tuple handed to
// the order layer. It is derived from the provider's status API, never
// from the raw webhook payload.
type PaymentOutcome struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}
