package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		// Public routes
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.Refresh)
		auth.POST("/forgot-password", r.authHandler.ForgotPassword)
		auth.POST("/reset-password", r.authHandler.ResetPassword)

		// Protected routes
		protected := auth.Group("")
		protected.Use(r.authGate.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.GET("/me", r.authHandler.Me)
			protected.PATCH("/profile", r.authHandler.UpdateProfile)
			protected.POST("/change-password", r.authHandler.ChangePassword)
		}
	}
}
