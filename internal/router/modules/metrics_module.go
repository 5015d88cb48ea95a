package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/pratsy91/todo-backend/pkg/metrics"
)

// MetricsModule exposes the Prometheus registry at /metrics.
type MetricsModule struct {
	Metrics *metrics.Metrics
}

func NewMetricsModule(m *metrics.Metrics) *MetricsModule { return &MetricsModule{Metrics: m} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
}
