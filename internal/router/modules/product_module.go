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

// ProductModule wires the marketplace catalog.
// Public: GET /api/products, GET /api/products/search, GET /api/products/:id
// Seller (verified): POST/PUT/DELETE /api/products, seller listing and uploads
type ProductModule struct {
	Handler *handlers.ProductHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, users repository.UserRepository, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	browseLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/products", browseLimiter, m.Handler.List)
	rg.GET("/products/search", browseLimiter, m.Handler.Search)
	rg.GET("/products/:id", browseLimiter, m.Handler.Get)

	seller := rg.Group("/products")
	seller.Use(middleware.Authenticate(m.Users, m.JWT))
	seller.Use(middleware.RequireVerified())
	seller.Use(middleware.RequireRole(entity.RoleSeller, entity.RoleAdmin))
	seller.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		seller.POST("", m.Handler.Create)
		seller.GET("/mine", m.Handler.ListMine)
		seller.PUT("/:id", m.Handler.Update)
		seller.DELETE("/:id", m.Handler.Delete)
		seller.POST("/upload", m.Handler.UploadFile)
	}
}
