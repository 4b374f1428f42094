package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockyardhq/stockyard-backend/api/controllers"
	"github.com/stockyardhq/stockyard-backend/api/middleware"
	"github.com/stockyardhq/stockyard-backend/internal/auth"
	"github.com/stockyardhq/stockyard-backend/internal/dashboard"
	"github.com/stockyardhq/stockyard-backend/internal/products"
	"github.com/stockyardhq/stockyard-backend/internal/suppliers"
	"github.com/stockyardhq/stockyard-backend/internal/transactions"
	"github.com/stockyardhq/stockyard-backend/internal/uploads"
	"github.com/stockyardhq/stockyard-backend/internal/users"
	"github.com/stockyardhq/stockyard-backend/internal/warehouses"
	pkgAuth "github.com/stockyardhq/stockyard-backend/pkg/auth"
	"github.com/stockyardhq/stockyard-backend/pkg/auth/session"
	"github.com/stockyardhq/stockyard-backend/pkg/config"
	"github.com/stockyardhq/stockyard-backend/pkg/db"
	"github.com/stockyardhq/stockyard-backend/pkg/enums"
	"github.com/stockyardhq/stockyard-backend/pkg/logger"
	"github.com/stockyardhq/stockyard-backend/pkg/metrics"
	"github.com/stockyardhq/stockyard-backend/pkg/redis"
)

// Deps bundles everything the router mounts. The struct keeps main's
// wiring readable; every field is required unless noted.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Issuer   *pkgAuth.TokenIssuer
	Sessions session.AccessSessionChecker

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Auth         auth.Service
	Avatars      *uploads.AvatarService
	Users        users.Service
	Products     products.Service
	Suppliers    suppliers.Service
	Warehouses   warehouses.Service
	Transactions transactions.Service
	Dashboard    dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(d.Issuer, d.Sessions, logg))

		r.Route("/v1/auth", func(r chi.Router) {
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
			r.Get("/me", controllers.AuthMe(d.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(d.Auth, logg))
		})

		r.Post("/v1/uploads/avatar", controllers.AuthUploadAvatar(d.Avatars, logg))

		r.Route("/v1/users", func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapUsersManage, logg))
			r.Get("/", controllers.UsersList(d.Users, logg))
			r.Post("/", controllers.UsersCreate(d.Users, logg))
			r.Get("/{userId}", controllers.UsersGet(d.Users, logg))
			r.Put("/{userId}", controllers.UsersUpdate(d.Users, logg))
			r.Delete("/{userId}", controllers.UsersDelete(d.Users, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(d.Products, logg))
			r.Get("/categories", controllers.ProductsCategories(d.Products, logg))
			r.Get("/{productId}", controllers.ProductsGet(d.Products, logg))
			r.With(middleware.RequireCapability(enums.CapProductsWrite, logg)).Group(func(r chi.Router) {
				r.Post("/", controllers.ProductsCreate(d.Products, logg))
				r.Put("/{productId}", controllers.ProductsUpdate(d.Products, logg))
				r.Delete("/{productId}", controllers.ProductsDelete(d.Products, logg))
			})
			r.With(middleware.RequireCapability(enums.CapStockAdjust, logg)).
				Post("/{productId}/stock", controllers.ProductsAdjustStock(d.Products, logg))
		})

		r.Route("/v1/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SuppliersList(d.Suppliers, logg))
			r.Get("/{supplierId}", controllers.SuppliersGet(d.Suppliers, logg))
			r.With(middleware.RequireCapability(enums.CapSuppliersWrite, logg)).Group(func(r chi.Router) {
				r.Post("/", controllers.SuppliersCreate(d.Suppliers, logg))
				r.Put("/{supplierId}", controllers.SuppliersUpdate(d.Suppliers, logg))
				r.Delete("/{supplierId}", controllers.SuppliersDelete(d.Suppliers, logg))
			})
		})

		r.Route("/v1/warehouses", func(r chi.Router) {
			r.Get("/", controllers.WarehousesList(d.Warehouses, logg))
			r.Get("/{warehouseId}", controllers.WarehousesGet(d.Warehouses, logg))
			r.Get("/{warehouseId}/inventory", controllers.WarehousesInventory(d.Warehouses, logg))
			r.Get("/{warehouseId}/stats", controllers.WarehousesStats(d.Warehouses, logg))
			r.With(middleware.RequireCapability(enums.CapWarehousesWrite, logg)).Group(func(r chi.Router) {
				r.Post("/", controllers.WarehousesCreate(d.Warehouses, logg))
				r.Put("/{warehouseId}", controllers.WarehousesUpdate(d.Warehouses, logg))
				r.Delete("/{warehouseId}", controllers.WarehousesDelete(d.Warehouses, logg))
			})
			r.With(middleware.RequireCapability(enums.CapStockTransfer, logg)).
				Post("/transfer", controllers.WarehousesTransfer(d.Warehouses, logg))
		})

		r.Route("/v1/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionsList(d.Transactions, logg))
			r.Get("/{transactionId}", controllers.TransactionsGet(d.Transactions, logg))
			r.With(middleware.RequireCapability(enums.CapTransactionsWrite, logg)).
				Post("/", controllers.TransactionsCreate(d.Transactions, logg))
			r.With(middleware.RequireCapability(enums.CapTransactionsDelete, logg)).
				Delete("/{transactionId}", controllers.TransactionsDelete(d.Transactions, logg))
		})

		r.Route("/v1/dashboard", func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapDashboardView, logg))
			r.Get("/stats", controllers.DashboardStats(d.Dashboard, logg))
			r.Get("/trends", controllers.DashboardTrends(d.Dashboard, logg))
			r.Get("/report", controllers.DashboardReport(d.Dashboard, logg))
		})

		r.Route("/v1/user-dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.DashboardUserStats(d.Dashboard, logg))
			r.Get("/trends", controllers.DashboardUserTrends(d.Dashboard, logg))
		})
	})

	return r
}
