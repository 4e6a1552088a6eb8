package router

import (
	"github.com/devhub-platform/portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) toolRoutes(api *gin.RouterGroup) {
	tools := api.Group("/tools")
	tools.Use(r.authGate.RequireAuth())
	{
		tools.GET("", r.toolHandler.List)
		tools.GET("/:id", r.toolHandler.Get)

		// Registry writes are admin only
		admin := tools.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", r.toolHandler.Create)
			admin.PUT("/:id", r.toolHandler.Update)
			admin.DELETE("/:id", r.toolHandler.Delete)
		}
	}
}
