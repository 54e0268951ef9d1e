package repository

import (
	"context"

	"digicommerce/internal/domain/entity"
)

// PaymentEventRepository is the durable idempotency store for webhook
// reconciliation. Record must be a no-op (inserted=false) when an event
// with the same (orderID, transactionStatus) already exists.
type PaymentEventRepository interface {
	Record(ctx context.Context, ev *entity.PaymentEvent) (inserted bool, err error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.PaymentEvent, error)
}
