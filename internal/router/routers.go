package router

import (
	"time"

	"github.com/devhub-platform/portal/config"
	"github.com/devhub-platform/portal/internal/handler"
	"github.com/devhub-platform/portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	serviceHandler *handler.ServiceHandler
	toolHandler    *handler.ToolHandler
	healthHandler  *handler.HealthHandler

	authGate *middleware.AuthenticationGate
	config   *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	svc *handler.ServiceHandler,
	tool *handler.ToolHandler,
	health *handler.HealthHandler,
	authGate *middleware.AuthenticationGate,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		serviceHandler: svc,
		toolHandler:    tool,
		healthHandler:  health,
		authGate:       authGate,
		config:         cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestContext(r.config.App.Timeout))

	api := router.Group("/api")
	{
		api.GET("", r.healthHandler.Info)
		api.GET("/health", r.healthHandler.Health)

		api.Use(middleware.RateLimit(r.config.RateLimit.Request, time.Duration(r.config.RateLimit.Duration)*time.Second))

		r.authRoutes(api)
		r.userRoutes(api)
		r.serviceRoutes(api)
		r.toolRoutes(api)
	}

	return router
}
