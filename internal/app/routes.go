package app

import (
	"log"

	"github.com/hello-jai/banking-management-system/internal/auth"
	"github.com/hello-jai/banking-management-system/internal/config"
	"github.com/hello-jai/banking-management-system/internal/handlers"
	"github.com/hello-jai/banking-management-system/internal/idem"
	"github.com/hello-jai/banking-management-system/internal/ratelimit"
	"github.com/hello-jai/banking-management-system/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, bank *service.BankService, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")
	api.Use(ratelimit.Middleware(ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))

	customerHandler := handlers.NewCustomerHandler(bank)
	registerCustomerRoutes(api, customerHandler)

	var idemStore *idem.Store
	if rdb != nil {
		idemStore = idem.NewStore(rdb, cfg.Redis.IdempotencyTTL.Duration())
	}
	accountHandler := handlers.NewAccountHandler(bank)
	registerAccountRoutes(api, accountHandler, idemStore)

	if cfg.Admin.PasswordHash != "" {
		admin := api.Group("", auth.RequireAdmin(cfg.Admin.PasswordHash))
		registerAdminRoutes(admin, accountHandler)
	} else {
		log.Printf("ADMIN_PASSWORD_HASH not set, admin endpoints disabled")
	}
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Banking Management API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerCustomerRoutes(api *gin.RouterGroup, h *handlers.CustomerHandler) {
	api.POST("/customers", h.Create)
	api.GET("/customers", h.List)
	api.GET("/customers/:id", h.GetByID)
	api.GET("/customers/:id/accounts", h.Accounts)
	api.DELETE("/customers/:id", h.Delete)
}

func registerAccountRoutes(api *gin.RouterGroup, h *handlers.AccountHandler, idemStore *idem.Store) {
	api.POST("/accounts", h.Create)
	api.GET("/accounts", h.List)
	api.GET("/accounts/:number", h.GetByNumber)
	api.POST("/accounts/:number/authenticate", h.Authenticate)

	// Money movers get idempotent replay so a retried request cannot move
	// the same money twice.
	money := api.Group("", idem.Middleware(idemStore))
	money.POST("/accounts/:number/deposit", h.Deposit)
	money.POST("/accounts/:number/withdraw", h.Withdraw)
	money.POST("/transfer", h.Transfer)
}

func registerAdminRoutes(api *gin.RouterGroup, h *handlers.AccountHandler) {
	api.POST("/accounts/:number/unlock", h.Unlock)
	api.POST("/interest/apply", h.ApplyInterest)
}
