package http

import "github.com/gin-gonic/gin"

// RegisterPostRoutes registra las rutas de Post. requireAuth protege las escrituras.
func RegisterPostRoutes(r gin.IRouter, handler *PostHandler, requireAuth gin.HandlerFunc) {
	posts := r.Group("/posts")
	{
		posts.GET("", handler.ListPosts)
		posts.GET("/analytics/trend", handler.GetDailyTrend)
		posts.GET("/:id", handler.GetPost)
		posts.POST("", requireAuth, handler.CreatePost)
		posts.POST("/random", requireAuth, handler.GenerateRandomPosts)
		posts.PATCH("/:id", requireAuth, handler.UpdatePost)
		posts.DELETE("/:id", requireAuth, handler.DeletePost)
	}
}
