package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/gin-graphql/config"
	_ "github.com/d60-Lab/gin-graphql/docs"
	"github.com/d60-Lab/gin-graphql/internal/api/handler"
	"github.com/d60-Lab/gin-graphql/internal/api/middleware"
	"github.com/d60-Lab/gin-graphql/internal/loader"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Handler  *handler.Handler
	Registry *loader.Registry
	Limiter  *middleware.RateLimiter
	Gatherer prometheus.Gatherer
}

// NewRouter 组装中间件与路由
func NewRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		middleware.Sentry(),
		middleware.SentryHub(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
	)

	r.GET("/healthz", deps.Handler.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	gql := r.Group("/graphql",
		middleware.RateLimit(deps.Limiter),
		middleware.JWTAuth(cfg.Auth.JWTSecret),
		middleware.Loaders(deps.Registry),
	)
	gql.POST("", deps.Handler.GraphQL)
	gql.GET("", deps.Handler.GraphQLGet)

	return r
}
