package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/noxven/gestion-ie/internal/interface/middleware"
)

// MetricsModule exposes the Prometheus handler at /metrics, rate-limited
// per IP.
type MetricsModule struct {
	Handler http.Handler
	Redis   redis.Cmdable
}

func NewMetricsModule(h http.Handler, rdb redis.Cmdable) *MetricsModule {
	return &MetricsModule{Handler: h, Redis: rdb}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Handler))
}
