package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/netinv-backend/internal/http/handlers"
	httpMW "github.com/yungbote/netinv-backend/internal/http/middleware"
	"github.com/yungbote/netinv-backend/internal/observability"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	ImportHandler *httpH.ImportHandler
	AuditHandler  *httpH.AuditHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachActor())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.ImportHandler != nil {
			api.POST("/imports/:entity", cfg.ImportHandler.StartImport)
			api.GET("/imports/:id", cfg.ImportHandler.GetStatus)
			api.GET("/imports/:id/report", cfg.ImportHandler.GetReport)
			api.GET("/reports/latest/:entity", cfg.ImportHandler.GetLatestReport)
		}
		if cfg.AuditHandler != nil {
			api.GET("/audit", cfg.AuditHandler.ListAudit)
		}
	}

	return r
}
