package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes mounts the public auth endpoints on router and the
// profile endpoints on protected, which must already require authentication.
func RegisterAuthRoutes(router, protected *gin.RouterGroup, authController *AuthController) {
	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/refresh-token", authController.RefreshToken)
	}

	authProtected := protected.Group("/auth")
	{
		authProtected.GET("/me", authController.GetProfile)
		authProtected.POST("/logout", authController.Logout)
	}
}
