package router

import "github.com/gin-gonic/gin"

func (r *Router) serviceRoutes(api *gin.RouterGroup) {
	services := api.Group("/services")
	services.Use(r.authGate.RequireAuth())
	{
		services.GET("", r.serviceHandler.List)
		services.GET("/:id", r.serviceHandler.Get)
		services.POST("", r.serviceHandler.Create)

		// Ownership is enforced in the service layer: owner or admin
		services.PUT("/:id", r.serviceHandler.Update)
		services.DELETE("/:id", r.serviceHandler.Delete)
	}
}
