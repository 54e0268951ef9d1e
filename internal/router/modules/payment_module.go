package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"digicommerce/internal/container"
	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	handlers "digicommerce/internal/interface/http"
	"digicommerce/internal/interface/middleware"
	"digicommerce/pkg/helpers"
)

// PaymentModule wires checkout, transaction management and the
// provider webhook.
// Public: POST /api/payments/notifications, GET /api/payments/methods
// Buyer (verified): create-token, create, status, cancel
// Admin: refund
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewPaymentModule(h *handlers.PaymentHandler, users repository.UserRepository, jwt *helpers.JWTManager) *PaymentModule {
	return &PaymentModule{Handler: h, Users: users, JWT: jwt}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	// Webhook authenticates by signature, not by token. Rate limited
	// per IP to absorb floods without dropping legitimate retries.
	notifLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.POST("/payments/notifications", notifLimiter, m.Handler.Notification)
	rg.GET("/payments/methods", m.Handler.Methods)

	auth := rg.Group("/payments")
	auth.Use(middleware.Authenticate(m.Users, m.JWT))
	auth.Use(middleware.RequireVerified())
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/create-token", m.Handler.CreateToken)
		auth.POST("/create", m.Handler.Create)
		auth.GET("/status/:orderId", m.Handler.Status)
		auth.POST("/cancel/:orderId", m.Handler.Cancel)
		auth.POST("/refund/:orderId", middleware.RequireRole(entity.RoleAdmin), m.Handler.Refund)
	}
}
