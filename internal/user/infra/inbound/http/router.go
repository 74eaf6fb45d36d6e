package http

import "github.com/gin-gonic/gin"

func RegisterUserRoutes(r gin.IRouter, handler *UserHandler, requireAuth gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register/email", handler.Register)
		auth.POST("/login/email", handler.Login)
		auth.POST("/token/access", handler.RotateAccessToken)
		auth.POST("/token/refresh", handler.RotateRefreshToken)
	}

	users := r.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.GET("/me", requireAuth, handler.Me)
	}
}

func RegisterFollowRoutes(r gin.IRouter, handler *FollowHandler, requireAuth gin.HandlerFunc) {
	follow := r.Group("/users/follow", requireAuth)
	{
		follow.GET("/me", handler.ListMyFollowers)
		follow.POST("/:id", handler.Follow)
		follow.PATCH("/:id/confirm", handler.ConfirmFollow)
		follow.DELETE("/:id", handler.Unfollow)
	}
}
