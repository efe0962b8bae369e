// internal/router/router.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bytemart/bytemart-backend/internal/config"
	"github.com/bytemart/bytemart-backend/internal/docstore"
	"github.com/bytemart/bytemart-backend/internal/handlers"
	"github.com/bytemart/bytemart-backend/internal/middleware"
	"github.com/bytemart/bytemart-backend/internal/services"
	"github.com/bytemart/bytemart-backend/internal/session"
	"github.com/bytemart/bytemart-backend/internal/throttle"
)

// Initialize wires services, middleware and routes onto a gin engine. The
// returned limiter owns a sweeper goroutine; callers close it on shutdown.
func Initialize(db *docstore.DB, cfg *config.Config) (*gin.Engine, *throttle.Limiter, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions, err := session.NewManager(cfg)
	if err != nil {
		return nil, nil, err
	}

	limiter := throttle.New(throttle.Options{
		RequestLimit:  cfg.Throttle.RequestLimit,
		RequestWindow: time.Duration(cfg.Throttle.RequestWindow) * time.Minute,
		MaxFailures:   cfg.Throttle.AuthFailures,
		FailureWindow: time.Duration(cfg.Throttle.AuthWindow) * time.Minute,
		SweepInterval: 5 * time.Minute,
	})

	blocklist, err := middleware.NewBlocklist(db)
	if err != nil {
		limiter.Close()
		return nil, nil, err
	}

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		limiter.Close()
		return nil, nil, err
	}

	authService := services.NewAuthService(db)
	storeService := services.NewStoreService(db)
	productService := services.NewProductService(db, storage)
	saleService := services.NewSaleService(db)

	authHandler := handlers.NewAuthHandler(authService, sessions, limiter)
	storeHandler := handlers.NewStoreHandler(storeService)
	productHandler := handlers.NewProductHandler(productService, authService, saleService, storage)
	saleHandler := handlers.NewSaleHandler(saleService, productService, cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(blocklist.Middleware())
	r.Use(middleware.RateLimit(limiter))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/me", middleware.OptionalAuth(sessions), authHandler.Me)

		api.POST("/create-store", middleware.AuthRequired(sessions), storeHandler.CreateStore)
		api.GET("/my-store", middleware.AuthRequired(sessions), storeHandler.MyStore)

		api.GET("/products", productHandler.List)
		api.GET("/search", productHandler.Search)
		api.GET("/products/store/:storeId", productHandler.ByStore)
		api.GET("/products/:id", productHandler.Get)
		api.POST("/products", middleware.AuthRequired(sessions), productHandler.Create)
		api.PUT("/products/:id", middleware.AuthRequired(sessions), productHandler.Update)
		api.DELETE("/products/:id", middleware.AuthRequired(sessions), productHandler.Delete)

		api.GET("/download/:productId/:fileId", middleware.OptionalAuth(sessions), productHandler.Download)

		api.POST("/purchase", middleware.OptionalAuth(sessions), saleHandler.Purchase)
		api.GET("/stats", saleHandler.Stats)
		api.GET("/user/:wallet/stats", saleHandler.UserStats)
		api.POST("/create-manual-payment", saleHandler.CreateManualPayment)
	}

	return r, limiter, nil
}
