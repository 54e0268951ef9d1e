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

// UserModule wires profile management and the admin user listing.
// Protected: GET/PUT /api/users/profile, POST /api/users/avatar
// Admin: GET /api/users
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repository.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Authenticate(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/avatar", m.Handler.UploadAvatar)

		auth.GET("", middleware.RequireRole(entity.RoleAdmin), m.Handler.ListUsers)
	}
}
