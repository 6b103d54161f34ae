package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/banksampah/internal/metrics"
	"github.com/polkiloo/banksampah/internal/server/http/handlers"
	"github.com/polkiloo/banksampah/internal/server/http/middleware"
)

const metricsPath = "/metrics"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LedgerFacade, recorder *metrics.Recorder, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// Route on the escaped path so account names may contain "/".
	engine.UseRawPath = true
	engine.UnescapePathValues = true

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(recorder))
	engine.Use(middleware.DecompressRequest())
	// promhttp negotiates its own compression.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))

	accountHandler := handlers.NewAccountHandler(facade)
	transactionHandler := handlers.NewTransactionHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Health)
	api.GET("/materials", catalogHandler.Materials)
	api.GET("/rewards", catalogHandler.Rewards)

	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.GET("/:name/balance", accountHandler.Balance)
	accounts.GET("/:name/history", accountHandler.History)
	accounts.POST("/:name/deposits", transactionHandler.Deposit)
	accounts.POST("/:name/redemptions", transactionHandler.Redeem)

	engine.GET(metricsPath, gin.WrapH(recorder.Handler()))

	return engine
}
