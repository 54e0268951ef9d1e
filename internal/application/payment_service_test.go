package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/infrastructure/midtrans"
)

// fakeGateway answers status queries from a canned response and counts
// provider round trips.
type fakeGateway struct {
	statusResp  *midtrans.TransactionResponse
	statusErr   error
	statusCalls int
	sigValid    bool
}

func (f *fakeGateway) CreateSnapTransaction(_ context.Context, order midtrans.TransactionDetails, _ midtrans.CustomerDetails, _ []midtrans.ItemDetail) (*midtrans.SnapTransaction, error) {
	return &midtrans.SnapTransaction{Token: "snap-" + order.OrderID, RedirectURL: "https://app.example/redirect"}, nil
}

func (f *fakeGateway) Charge(_ context.Context, order midtrans.TransactionDetails, _ midtrans.CustomerDetails, _ []midtrans.ItemDetail, paymentType string) (*midtrans.TransactionResponse, error) {
	return &midtrans.TransactionResponse{OrderID: order.OrderID, TransactionStatus: "pending", PaymentType: paymentType}, nil
}

func (f *fakeGateway) TransactionStatus(_ context.Context, _ string) (*midtrans.TransactionResponse, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResp, nil
}

func (f *fakeGateway) Cancel(_ context.Context, orderID string) (*midtrans.TransactionResponse, error) {
	return &midtrans.TransactionResponse{OrderID: orderID, TransactionStatus: "cancel"}, nil
}

func (f *fakeGateway) Refund(_ context.Context, orderID string, _ int64, _ string) (*midtrans.TransactionResponse, error) {
	return &midtrans.TransactionResponse{OrderID: orderID, TransactionStatus: "refund"}, nil
}

func (f *fakeGateway) VerifySignature(_, _, _, _ string) bool { return f.sigValid }

func (f *fakeGateway) PaymentMethods() []midtrans.PaymentMethod {
	return []midtrans.PaymentMethod{{ID: "gopay", Name: "GoPay", Type: "ewallet", Enabled: true}}
}

// fakeEventRepo emulates the unique (order_id, transaction_status)
// constraint.
type fakeEventRepo struct {
	events    []*entity.PaymentEvent
	recordErr error
}

func (f *fakeEventRepo) Record(_ context.Context, ev *entity.PaymentEvent) (bool, error) {
	if f.recordErr != nil {
		return false, f.recordErr
	}
	for _, e := range f.events {
		if e.OrderID == ev.OrderID && e.TransactionStatus == ev.TransactionStatus {
			return false, nil
		}
	}
	cp := *ev
	f.events = append(f.events, &cp)
	return true, nil
}

func (f *fakeEventRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.PaymentEvent, error) {
	var out []*entity.PaymentEvent
	for _, e := range f.events {
		if e.OrderID == orderID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func newTestPaymentService(gw *fakeGateway, events *fakeEventRepo, verifySig bool) *PaymentService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewPaymentService(gw, events, nil, logger, verifySig, time.Hour)
}

func settlementStatus(orderID string) *midtrans.TransactionResponse {
	return &midtrans.TransactionResponse{
		OrderID:           orderID,
		TransactionStatus: "settlement",
		FraudStatus:       "accept",
		PaymentType:       "gopay",
		GrossAmount:       "150000.00",
	}
}

func TestHandleNotification_UsesProviderStatusNotPayload(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{statusResp: settlementStatus("ORD-1"), sigValid: true}
	events := &fakeEventRepo{}
	svc := newTestPaymentService(gw, events, true)

	// Payload claims a different status than the provider reports.
	payload := NotificationPayload{
		OrderID:           "ORD-1",
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: "refund",
	}

	outcome, err := svc.HandleNotification(context.Background(), payload, []byte(`{"order_id":"ORD-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "settlement", outcome.TransactionStatus)
	assert.Equal(t, "accept", outcome.FraudStatus)
	assert.Equal(t, 1, gw.statusCalls)

	require.Len(t, events.events, 1)
	assert.Equal(t, "ORD-1", events.events[0].OrderID)
	assert.Equal(t, "gopay", events.events[0].PaymentType)
}

func TestHandleNotification_ReplayIsIdempotent(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{statusResp: settlementStatus("ORD-2"), sigValid: true}
	events := &fakeEventRepo{}
	svc := newTestPaymentService(gw, events, true)

	payload := NotificationPayload{OrderID: "ORD-2", TransactionStatus: "settlement"}
	raw := []byte(`{"order_id":"ORD-2"}`)

	first, err := svc.HandleNotification(context.Background(), payload, raw)
	require.NoError(t, err)
	second, err := svc.HandleNotification(context.Background(), payload, raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, events.events, 1)
}

func TestHandleNotification_ReverificationFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{statusErr: assert.AnError, sigValid: true}
	events := &fakeEventRepo{}
	svc := newTestPaymentService(gw, events, true)

	_, err := svc.HandleNotification(context.Background(), NotificationPayload{OrderID: "ORD-3"}, nil)
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.Empty(t, events.events)
}

func TestHandleNotification_RecordFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{statusResp: settlementStatus("ORD-4"), sigValid: true}
	events := &fakeEventRepo{recordErr: assert.AnError}
	svc := newTestPaymentService(gw, events, true)

	_, err := svc.HandleNotification(context.Background(), NotificationPayload{OrderID: "ORD-4"}, nil)
	assert.ErrorIs(t, err, ErrNotificationFailed)
}

func TestVerifyNotificationOrigin(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{sigValid: false}
	svc := newTestPaymentService(gw, &fakeEventRepo{}, true)
	assert.False(t, svc.VerifyNotificationOrigin(NotificationPayload{OrderID: "ORD-5"}))

	// Signature checking disabled lets everything through.
	relaxed := newTestPaymentService(gw, &fakeEventRepo{}, false)
	assert.True(t, relaxed.VerifyNotificationOrigin(NotificationPayload{OrderID: "ORD-5"}))
}

func TestCreateCheckoutToken_MapsProviderError(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{statusErr: assert.AnError}
	svc := newTestPaymentService(gw, &fakeEventRepo{}, true)

	snap, err := svc.CreateCheckoutToken(context.Background(), CheckoutInput{OrderID: "ORD-6", Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, "snap-ORD-6", snap.Token)

	// Status goes through the gateway and surfaces the generic error.
	_, err = svc.Status(context.Background(), "ORD-6")
	assert.ErrorIs(t, err, ErrPaymentFailed)
}
