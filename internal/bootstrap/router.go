package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/wxllspace/wxllspace-backend/internal/api/http"
	apimw "github.com/wxllspace/wxllspace-backend/internal/api/http/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/api/http/routes"
	"github.com/wxllspace/wxllspace-backend/internal/auth/middleware"
	"github.com/wxllspace/wxllspace-backend/internal/site"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	AuthRateLimit  float64
	AuthRateBurst  int
	DB             httpapi.Pinger
	Redis          redis.UniversalClient
	API            routes.V1Deps
	Site           *site.Handler
}

// BuildRouter assembles the engine: global middleware, operational
// endpoints, the v1 API and the site pages.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), apimw.RequestID(), apimw.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", apimw.HeaderRequestID},
		ExposeHeaders:    []string{apimw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Authenticate(dep.API.Sessions))

	api := dep.API
	if api.AuthLimit == nil {
		api.AuthLimit = apimw.NewIPRateLimiter(dep.AuthRateLimit, dep.AuthRateBurst).Handler()
	}
	routes.RegisterV1(r, api)
	dep.Site.Register(r)

	return r
}
