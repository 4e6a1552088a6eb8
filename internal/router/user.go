package router

import (
	"github.com/devhub-platform/portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) userRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.Use(r.authGate.RequireAuth(), middleware.RequireAdmin())
	{
		users.GET("", r.userHandler.List)
		users.GET("/:id", r.userHandler.Get)
		users.PATCH("/:id/role", r.userHandler.UpdateRole)
		users.PATCH("/:id/status", r.userHandler.UpdateStatus)
		users.DELETE("/:id", r.userHandler.Delete)
	}
}
