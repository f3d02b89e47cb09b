package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter is implemented by *priority.Service; readiness lists each
// candidate source's breaker state when the service provides it.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	priorityHandler *PriorityHandler,
	jwtSecret string,
	db Pinger,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), MetricsMiddleware(), LoggerMiddleware(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		body := gin.H{"status": "ready"}
		// 熔断打开只代表降级，不影响就绪
		if br, ok := priorityHandler.svc.(BreakerReporter); ok {
			body["sources"] = br.BreakerStates()
		}
		c.JSON(http.StatusOK, body)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/priorities", priorityHandler.GetPriorities)
		auth.POST("/priorities/:id/dismiss", priorityHandler.Dismiss)
		auth.DELETE("/priorities/:id/dismiss", priorityHandler.Restore)
	}

	return &Router{Engine: r}
}
