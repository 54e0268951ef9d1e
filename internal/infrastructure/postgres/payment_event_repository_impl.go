package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
)

type PaymentEventRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentEventRepository(pool *pgxpool.Pool) *PaymentEventRepository {
	return &PaymentEventRepository{pool: pool}
}

// Record inserts a verified notification once per (order_id,
// transaction_status). ON CONFLICT DO NOTHING makes replays collapse
// onto the existing row; inserted reports whether this call won.
func (r *PaymentEventRepository) Record(ctx context.Context, ev *entity.PaymentEvent) (bool, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payment_events (order_id, transaction_status, fraud_status, payment_type, gross_amount, raw_payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id, transaction_status) DO NOTHING
		RETURNING id, created_at
	`, ev.OrderID, ev.TransactionStatus, ev.FraudStatus, ev.PaymentType, ev.GrossAmount, ev.RawPayload)

	if err := row.Scan(&ev.ID, &ev.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *PaymentEventRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.PaymentEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, transaction_status, fraud_status, payment_type, gross_amount, raw_payload, created_at
		FROM payment_events
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.PaymentEvent
	for rows.Next() {
		ev := &entity.PaymentEvent{}
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.TransactionStatus, &ev.FraudStatus,
			&ev.PaymentType, &ev.GrossAmount, &ev.RawPayload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

var _ repository.PaymentEventRepository = (*PaymentEventRepository)(nil)
