package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	ledgerH *LedgerHandler,
	insightH *InsightHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.POST("/habits/check", ledgerH.CheckHabit)

	goals := r.Group("/goals")
	goals.POST("", ledgerH.CreateGoal)
	goals.POST("/:id/notes", ledgerH.AddGoalNote)

	users := r.Group("/users")
	users.GET("/:id/streak", insightH.GetStreak)
	users.GET("/:id/burnout", insightH.GetBurnout)
	users.GET("/:id/snapshot", insightH.GetBehaviorSnapshot)
	users.GET("/:id/forecast", insightH.Forecast)
	users.GET("/:id/scenarios", insightH.Scenarios)

	r.POST("/effectiveness", insightH.Effectiveness)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
