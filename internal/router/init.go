package router

import (
	"digicommerce/internal/application"
	"digicommerce/internal/container"
	"digicommerce/internal/domain/repository"
	"digicommerce/internal/infrastructure/postgres"
	handlers "digicommerce/internal/interface/http"
	"digicommerce/internal/router/modules"
)

type appDeps struct {
	UserRepo repository.UserRepository

	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	PaymentHandler *handlers.PaymentHandler
}

func buildDeps() appDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	eventRepo := postgres.NewPaymentEventRepository(pool)

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		logger,
		container.GetRabbitPub(),
		cfg.BcryptCost,
		cfg.AppName,
	)

	productSvc := application.NewProductService(
		productRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESProductsIndex,
		logger,
	)

	paymentSvc := application.NewPaymentService(
		container.GetPaymentClient(),
		eventRepo,
		container.GetRedis(),
		logger,
		cfg.MidtransVerifySig,
		cfg.WebhookDedupTTL,
	)

	return appDeps{
		UserRepo:       userRepo,
		AuthHandler:    handlers.NewAuthHandler(authSvc, logger),
		UserHandler:    handlers.NewUserHandler(authSvc, container.GetGCS(), cfg.GCSBucket, logger),
		ProductHandler: handlers.NewProductHandler(productSvc, logger),
		PaymentHandler: handlers.NewPaymentHandler(paymentSvc, logger),
	}
}

// InitModules wires all application modules into the router registry.
// Call once during startup, after the container singletons are set.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.UserRepo, jwt))
	r.Add(modules.NewUserModule(deps.UserHandler, deps.UserRepo, jwt))
	r.Add(modules.NewProductModule(deps.ProductHandler, deps.UserRepo, jwt))
	r.Add(modules.NewPaymentModule(deps.PaymentHandler, deps.UserRepo, jwt))
	r.Add(modules.NewDebugModule())
}
