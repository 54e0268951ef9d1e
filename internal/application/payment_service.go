package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	"digicommerce/internal/infrastructure/midtrans"
	"digicommerce/pkg/helpers"
)

// PaymentGateway is the provider boundary. The midtrans client is the
// production implementation; tests substitute a fake.
type PaymentGateway interface {
	CreateSnapTransaction(ctx context.Context, order midtrans.TransactionDetails, customer midtrans.CustomerDetails, items []midtrans.ItemDetail) (*midtrans.SnapTransaction, error)
	Charge(ctx context.Context, order midtrans.TransactionDetails, customer midtrans.CustomerDetails, items []midtrans.ItemDetail, paymentType string) (*midtrans.TransactionResponse, error)
	TransactionStatus(ctx context.Context, orderID string) (*midtrans.TransactionResponse, error)
	Cancel(ctx context.Context, orderID string) (*midtrans.TransactionResponse, error)
	Refund(ctx context.Context, orderID string, amount int64, reason string) (*midtrans.TransactionResponse, error)
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
	PaymentMethods() []midtrans.PaymentMethod
}

// PaymentService fronts the gateway for checkout operations and owns
// webhook reconciliation. It persists no order state; payment_events is
// an idempotency ledger, not an order model.
type PaymentService struct {
	Gateway   PaymentGateway
	Events    repository.PaymentEventRepository
	Redis     *redis.Client
	Logger    *logrus.Logger
	VerifySig bool
	DedupTTL  time.Duration
}

func NewPaymentService(gw PaymentGateway, events repository.PaymentEventRepository, rdb *redis.Client, logger *logrus.Logger, verifySig bool, dedupTTL time.Duration) *PaymentService {
	if dedupTTL <= 0 {
		dedupTTL = 72 * time.Hour
	}
	return &PaymentService{Gateway: gw, Events: events, Redis: rdb, Logger: logger, VerifySig: verifySig, DedupTTL: dedupTTL}
}

type CheckoutInput struct {
	OrderID  string
	Amount   int64
	Customer midtrans.CustomerDetails
	Items    []midtrans.ItemDetail
}

// CreateCheckoutToken requests a hosted-checkout token. Provider error
// detail is logged, never surfaced.
func (s *PaymentService) CreateCheckoutToken(ctx context.Context, in CheckoutInput) (*midtrans.SnapTransaction, error) {
	order := midtrans.TransactionDetails{OrderID: in.OrderID, GrossAmount: in.Amount}
	snap, err := s.Gateway.CreateSnapTransaction(ctx, order, in.Customer, in.Items)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", in.OrderID).Error("snap transaction failed")
		return nil, ErrPaymentFailed
	}
	return snap, nil
}

// CreateCharge performs a direct server-to-server charge.
func (s *PaymentService) CreateCharge(ctx context.Context, in CheckoutInput, paymentType string) (*midtrans.TransactionResponse, error) {
	order := midtrans.TransactionDetails{OrderID: in.OrderID, GrossAmount: in.Amount}
	resp, err := s.Gateway.Charge(ctx, order, in.Customer, in.Items, paymentType)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", in.OrderID).Error("charge failed")
		return nil, ErrPaymentFailed
	}
	return resp, nil
}

func (s *PaymentService) Status(ctx context.Context, orderID string) (*midtrans.TransactionResponse, error) {
	resp, err := s.Gateway.TransactionStatus(ctx, orderID)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", orderID).Error("status query failed")
		return nil, ErrPaymentFailed
	}
	return resp, nil
}

func (s *PaymentService) Cancel(ctx context.Context, orderID string) (*midtrans.TransactionResponse, error) {
	resp, err := s.Gateway.Cancel(ctx, orderID)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", orderID).Error("cancel failed")
		return nil, ErrPaymentFailed
	}
	return resp, nil
}

func (s *PaymentService) Refund(ctx context.Context, orderID string, amount int64, reason string) (*midtrans.TransactionResponse, error) {
	resp, err := s.Gateway.Refund(ctx, orderID, amount, reason)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", orderID).Error("refund failed")
		return nil, ErrPaymentFailed
	}
	return resp, nil
}

func (s *PaymentService) PaymentMethods() []midtrans.PaymentMethod {
	return s.Gateway.PaymentMethods()
}

// NotificationPayload is the untrusted webhook body. Its status fields
// are never applied directly; only the provider's status API is
// authoritative.
type NotificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// VerifyNotificationOrigin rejects payloads whose signature_key does
// not match. Disabled setups (sandbox tooling) skip the check.
func (s *PaymentService) VerifyNotificationOrigin(p NotificationPayload) bool {
	if !s.VerifySig {
		return true
	}
	return s.Gateway.VerifySignature(p.OrderID, p.StatusCode, p.GrossAmount, p.SignatureKey)
}

func notifKey(orderID, status string) string {
	return "payment:notif:" + orderID + ":" + status
}

// HandleNotification reconciles a webhook notification: re-verify the
// transaction against the provider's status API, then record the
// verified outcome once. Replaying the same notification returns the
// same normalized outcome and inserts no second event row.
func (s *PaymentService) HandleNotification(ctx context.Context, p NotificationPayload, raw []byte) (*entity.PaymentOutcome, error) {
	// Fast path: a previously reconciled outcome short-circuits the
	// provider round trip on replays.
	if s.Redis != nil {
		var cached entity.PaymentOutcome
		key := notifKey(p.OrderID, p.TransactionStatus)
		if found, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	st, err := s.Gateway.TransactionStatus(ctx, p.OrderID)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", p.OrderID).Error("notification re-verification failed")
		return nil, ErrNotificationFailed
	}

	outcome := &entity.PaymentOutcome{
		OrderID:           st.OrderID,
		TransactionStatus: st.TransactionStatus,
		FraudStatus:       st.FraudStatus,
	}

	ev := &entity.PaymentEvent{
		OrderID:           outcome.OrderID,
		TransactionStatus: outcome.TransactionStatus,
		FraudStatus:       outcome.FraudStatus,
		PaymentType:       st.PaymentType,
		GrossAmount:       st.GrossAmount,
		RawPayload:        raw,
	}
	inserted, err := s.Events.Record(ctx, ev)
	if err != nil {
		s.Logger.WithError(err).WithField("order_id", outcome.OrderID).Error("record payment event failed")
		return nil, ErrNotificationFailed
	}
	if !inserted {
		s.Logger.WithFields(logrus.Fields{
			"order_id": outcome.OrderID,
			"status":   outcome.TransactionStatus,
		}).Info("duplicate notification, event already recorded")
	}

	if s.Redis != nil {
		key := notifKey(outcome.OrderID, outcome.TransactionStatus)
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, outcome, s.DedupTTL); err != nil {
			s.Logger.WithError(err).Warn("cache payment outcome failed")
		}
	}

	s.Logger.WithFields(logrus.Fields{
		"order_id":     outcome.OrderID,
		"status":       outcome.TransactionStatus,
		"fraud_status": outcome.FraudStatus,
	}).Info("payment notification reconciled")

	return outcome, nil
}
