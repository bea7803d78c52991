package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(herdHandler *handlers.HerdHandler, valuationHandler *handlers.ValuationHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/herds", herdHandler.Create)
	r.GET("/herds", herdHandler.List)
	r.GET("/herds/:id", herdHandler.Get)
	r.PUT("/herds/:id", herdHandler.Update)
	r.DELETE("/herds/:id", herdHandler.Delete)
	r.POST("/herds/:id/sold", herdHandler.MarkSold)

	r.GET("/herds/:id/valuation", valuationHandler.ValuateHerd)
	r.GET("/portfolio/valuation", valuationHandler.ValuatePortfolio)

	r.GET("/preferences", valuationHandler.GetPreferences)
	r.PUT("/preferences", valuationHandler.PutPreferences)

	r.POST("/prices/refresh", valuationHandler.RefreshPrices)
	r.GET("/prices/status", valuationHandler.PriceStatus)
	r.DELETE("/prices/cache", valuationHandler.ClearPriceCache)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
