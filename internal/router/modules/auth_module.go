package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"digicommerce/internal/container"
	"digicommerce/internal/domain/repository"
	handlers "digicommerce/internal/interface/http"
	"digicommerce/internal/interface/middleware"
	"digicommerce/pkg/helpers"
)

// AuthModule wires registration, login and token endpoints.
// Public: POST /api/auth/register, POST /api/auth/login
// Protected: GET /api/auth/me, POST /api/auth/verify-email, POST /api/auth/refresh
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Authenticate(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.POST("/auth/verify-email", m.Handler.VerifyEmail)
		auth.POST("/auth/refresh", m.Handler.Refresh)
	}
}
