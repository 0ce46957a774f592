package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eagl/fieldops-api/docs"
	"github.com/eagl/fieldops-api/internal/api/handler"
	"github.com/eagl/fieldops-api/internal/api/middleware"
	"github.com/eagl/fieldops-api/internal/core/domain"
	"github.com/eagl/fieldops-api/internal/core/ports"
)

// Dependencies bundles everything the router needs: the wired services, the
// worker pool, and the raw connections used by the readiness probe.
type Dependencies struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Clients    ports.ClientService
	Assets     ports.AssetService
	WorkOrders ports.WorkOrderService
	Bulk       ports.BulkService
	Dispatcher handler.JobEnqueuer

	DB        *sql.DB
	Redis     *redis.Client
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("fieldops"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	clientHandler := handler.NewClientHandler(deps.Clients)
	assetHandler := handler.NewAssetHandler(deps.Assets)
	workOrderHandler := handler.NewWorkOrderHandler(deps.WorkOrders)
	bulkHandler := handler.NewBulkHandler(deps.Bulk, deps.Dispatcher)

	auth := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleUser)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API v1 ---
	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/me", authHandler.Me, auth)

	users := v1.Group("/users", auth, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	clients := v1.Group("/clients", auth, anyRole)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create, staff)
	clients.GET("/:id", clientHandler.Get)
	clients.PATCH("/:id", clientHandler.Update, staff)
	clients.DELETE("/:id", clientHandler.Delete, staff)
	clients.GET("/:id/assets", assetHandler.ListByClient)
	clients.POST("/:id/assets", assetHandler.Create, staff)

	assets := v1.Group("/assets", auth, anyRole)
	assets.GET("/:id", assetHandler.Get)
	assets.PATCH("/:id", assetHandler.Update, staff)
	assets.DELETE("/:id", assetHandler.Delete, staff)

	workOrders := v1.Group("/work-orders", auth, anyRole)
	workOrders.GET("", workOrderHandler.List)
	workOrders.POST("", workOrderHandler.Create)
	workOrders.GET("/:id", workOrderHandler.Get)
	workOrders.PATCH("/:id", workOrderHandler.Update)
	workOrders.POST("/:id/close", workOrderHandler.Close)

	bulkGroup := v1.Group("/bulk", auth, staff)
	bulkGroup.GET("/:entity/template", bulkHandler.Template)
	bulkGroup.POST("/:entity/import", bulkHandler.Upload)
	bulkGroup.POST("/:entity/export", bulkHandler.Export)
	bulkGroup.GET("/imports", bulkHandler.ListImports)
	bulkGroup.GET("/imports/:id", bulkHandler.GetImport)
	bulkGroup.POST("/imports/:id/validate", bulkHandler.Validate)
	bulkGroup.POST("/imports/:id/confirm", bulkHandler.Confirm)
	bulkGroup.GET("/imports/:id/errors", bulkHandler.ListImportErrors)
	bulkGroup.GET("/exports", bulkHandler.ListExports)
	bulkGroup.GET("/exports/:id", bulkHandler.GetExport)

	return e
}
