package router

import (
	"github.com/novamart/storefront-api/internal/application"
	"github.com/novamart/storefront-api/internal/container"
	"github.com/novamart/storefront-api/internal/infrastructure/mongodb"
	handlers "github.com/novamart/storefront-api/internal/interface/http"
	"github.com/novamart/storefront-api/internal/router/modules"
	"github.com/novamart/storefront-api/pkg/helpers"
)

type Deps struct {
	Catalog  *application.CatalogService
	Reviews  *application.ReviewService
	Orders   *application.OrderService
	Users    *application.UserService
	Payments *application.PaymentService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	db := container.GetMongo()

	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	images := helpers.NewGCSImageStore(container.GetGCS(), cfg.GCSBucket)

	return Deps{
		Catalog: application.NewCatalogService(
			productRepo,
			images,
			container.GetLogger(),
			container.GetES(),
			cfg.ESProductsIndex,
			cfg.ResultPerPage,
		),
		Reviews: application.NewReviewService(productRepo),
		Orders:  application.NewOrderService(orderRepo, productRepo, container.GetLogger()),
		Users: application.NewUserService(
			userRepo,
			container.GetJWT(),
			images,
			container.GetRedis(),
			container.GetLogger(),
		),
		Payments: application.NewPaymentService(),
	}
}

// InitModules builds every feature module and registers it with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildDeps()

	productHandler := handlers.NewProductHandler(deps.Catalog, container.GetLogger())
	reviewHandler := handlers.NewReviewHandler(deps.Reviews)
	orderHandler := handlers.NewOrderHandler(deps.Orders, cfg, container.GetRabbitPub(), container.GetLogger())
	userHandler := handlers.NewUserHandler(deps.Users, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(deps.Users, container.GetRedis(), cfg, container.GetRabbitPub(), container.GetLogger())
	paymentHandler := handlers.NewPaymentHandler(deps.Payments)

	jwt := container.GetJWT()
	r.Add(modules.NewCatalogModule(productHandler, reviewHandler, jwt))
	r.Add(modules.NewOrderModule(orderHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewPaymentModule(paymentHandler, jwt))
}
