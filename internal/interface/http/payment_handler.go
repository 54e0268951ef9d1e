package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"digicommerce/internal/application"
	"digicommerce/internal/infrastructure/midtrans"
	"digicommerce/pkg/response"
	"digicommerce/pkg/validation"
)

type PaymentHandler struct {
	Svc    *application.PaymentService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Logger: logger}
}

type checkoutItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"required,gt=0"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type checkoutRequest struct {
	OrderID   string                `json:"order_id" binding:"required"`
	Amount    int64                 `json:"amount" binding:"required,gt=0"`
	FirstName string                `json:"first_name"`
	LastName  string                `json:"last_name"`
	Email     string                `json:"email" binding:"omitempty,email"`
	Phone     string                `json:"phone"`
	Items     []checkoutItemRequest `json:"items"`
}

type chargeRequest struct {
	checkoutRequest
	PaymentType string `json:"payment_type"`
}

type refundRequest struct {
	Amount int64  `json:"amount" binding:"omitempty,gt=0"`
	Reason string `json:"reason"`
}

func toCheckoutInput(req checkoutRequest) application.CheckoutInput {
	items := make([]midtrans.ItemDetail, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, midtrans.ItemDetail{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	return application.CheckoutInput{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Customer: midtrans.CustomerDetails{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
		},
		Items: items,
	}
}

// CreateToken requests a hosted-checkout token for the order.
func (h *PaymentHandler) CreateToken(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	snap, err := h.Svc.CreateCheckoutToken(c.Request.Context(), toCheckoutInput(req))
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "payment initialization failed", nil)
		return
	}
	response.Success(c, http.StatusOK, snap, "checkout token created", nil)
}

// Create performs a direct charge against the payment provider.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req chargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	resp, err := h.Svc.CreateCharge(c.Request.Context(), toCheckoutInput(req.checkoutRequest), req.PaymentType)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "payment failed", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "charge created", nil)
}

func (h *PaymentHandler) Status(c *gin.Context) {
	resp, err := h.Svc.Status(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "status check failed", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "transaction status", nil)
}

func (h *PaymentHandler) Cancel(c *gin.Context) {
	resp, err := h.Svc.Cancel(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "cancel failed", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "transaction cancelled", nil)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	resp, err := h.Svc.Refund(c.Request.Context(), c.Param("orderId"), req.Amount, req.Reason)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "refund failed", nil)
		return
	}
	response.Success(c, http.StatusOK, resp, "refund issued", nil)
}

func (h *PaymentHandler) Methods(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Svc.PaymentMethods(), "payment methods", nil)
}

// Notification receives provider webhooks. Malformed bodies and bad
// signatures get 400; reconciliation failures get a non-2xx status so
// the provider retries. A success response means the verified outcome
// is durably recorded.
func (h *PaymentHandler) Notification(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read notification body", nil)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var payload application.NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.OrderID == "" {
		response.Error[any](c, http.StatusBadRequest, "malformed notification", nil)
		return
	}

	if !h.Svc.VerifyNotificationOrigin(payload) {
		h.Logger.WithField("order_id", payload.OrderID).Warn("notification signature mismatch")
		response.Error[any](c, http.StatusBadRequest, "invalid signature", nil)
		return
	}

	outcome, err := h.Svc.HandleNotification(c.Request.Context(), payload, raw)
	if err != nil {
		if errors.Is(err, application.ErrNotificationFailed) {
			response.Error[any](c, http.StatusBadGateway, "notification processing failed", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "notification processing failed", nil)
		return
	}
	response.Success(c, http.StatusOK, outcome, "notification processed", nil)
}
