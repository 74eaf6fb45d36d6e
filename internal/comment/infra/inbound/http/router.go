package http

import "github.com/gin-gonic/gin"

// RegisterCommentRoutes cuelga los comentarios de /posts/:id; gin exige el mismo
// nombre de parámetro que en las rutas de posts.
func RegisterCommentRoutes(r gin.IRouter, handler *CommentHandler, requireAuth gin.HandlerFunc) {
	comments := r.Group("/posts/:id/comments")
	{
		comments.GET("", handler.ListComments)
		comments.GET("/:commentId", handler.GetComment)
		comments.POST("", requireAuth, handler.CreateComment)
		comments.PATCH("/:commentId", requireAuth, handler.UpdateComment)
		comments.DELETE("/:commentId", requireAuth, handler.DeleteComment)
	}
}
