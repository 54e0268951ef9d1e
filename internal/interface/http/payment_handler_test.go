package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"digicommerce/internal/application"
	"digicommerce/internal/domain/entity"
	"digicommerce/internal/infrastructure/midtrans"
)

type webhookGateway struct {
	statusResp *midtrans.TransactionResponse
	statusErr  error
	sigValid   bool
}

func (g *webhookGateway) CreateSnapTransaction(context.Context, midtrans.TransactionDetails, midtrans.CustomerDetails, []midtrans.ItemDetail) (*midtrans.SnapTransaction, error) {
	return &midtrans.SnapTransaction{Token: "tok"}, nil
}
func (g *webhookGateway) Charge(context.Context, midtrans.TransactionDetails, midtrans.CustomerDetails, []midtrans.ItemDetail, string) (*midtrans.TransactionResponse, error) {
	return nil, nil
}
func (g *webhookGateway) TransactionStatus(context.Context, string) (*midtrans.TransactionResponse, error) {
	return g.statusResp, g.statusErr
}
func (g *webhookGateway) Cancel(context.Context, string) (*midtrans.TransactionResponse, error) {
	return nil, nil
}
func (g *webhookGateway) Refund(context.Context, string, int64, string) (*midtrans.TransactionResponse, error) {
	return nil, nil
}
func (g *webhookGateway) VerifySignature(string, string, string, string) bool { return g.sigValid }
func (g *webhookGateway) PaymentMethods() []midtrans.PaymentMethod           { return nil }

type memEventRepo struct {
	events []*entity.PaymentEvent
}

func (m *memEventRepo) Record(_ context.Context, ev *entity.PaymentEvent) (bool, error) {
	for _, e := range m.events {
		if e.OrderID == ev.OrderID && e.TransactionStatus == ev.TransactionStatus {
			return false, nil
		}
	}
	cp := *ev
	m.events = append(m.events, &cp)
	return true, nil
}

func (m *memEventRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.PaymentEvent, error) {
	return nil, nil
}

func newWebhookRouter(gw *webhookGateway, events *memEventRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := application.NewPaymentService(gw, events, nil, logger, true, time.Hour)
	h := NewPaymentHandler(svc, logger)

	r := gin.New()
	r.POST("/api/payments/notifications", h.Notification)
	return r
}

func postNotification(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notifications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNotification_MalformedBody(t *testing.T) {
	r := newWebhookRouter(&webhookGateway{sigValid: true}, &memEventRepo{})

	assert.Equal(t, http.StatusBadRequest, postNotification(r, "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, postNotification(r, `{"status_code":"200"}`).Code)
}

func TestNotification_BadSignature(t *testing.T) {
	events := &memEventRepo{}
	r := newWebhookRouter(&webhookGateway{sigValid: false}, events)

	w := postNotification(r, `{"order_id":"ORD-1","signature_key":"bogus","transaction_status":"settlement"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, events.events)
}

func TestNotification_RecordsVerifiedOutcome(t *testing.T) {
	events := &memEventRepo{}
	gw := &webhookGateway{
		sigValid: true,
		statusResp: &midtrans.TransactionResponse{
			OrderID:           "ORD-2",
			TransactionStatus: "settlement",
			FraudStatus:       "accept",
			PaymentType:       "gopay",
			GrossAmount:       "75000.00",
		},
	}
	r := newWebhookRouter(gw, events)

	// The payload lies about the status; the response carries the
	// provider-verified status instead.
	w := postNotification(r, `{"order_id":"ORD-2","transaction_status":"refund","signature_key":"ok"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transaction_status":"settlement"`)
	assert.Len(t, events.events, 1)

	// Replay acks again without a second event row.
	w = postNotification(r, `{"order_id":"ORD-2","transaction_status":"refund","signature_key":"ok"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, events.events, 1)
}

func TestNotification_ReverificationFailure(t *testing.T) {
	events := &memEventRepo{}
	r := newWebhookRouter(&webhookGateway{sigValid: true, statusErr: assert.AnError}, events)

	w := postNotification(r, `{"order_id":"ORD-3","transaction_status":"settlement","signature_key":"ok"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, events.events)
}
