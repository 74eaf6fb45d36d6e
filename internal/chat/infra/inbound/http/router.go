package http

import "github.com/gin-gonic/gin"

// RegisterChatRoutes registra listados y gateway; todo /chats requiere access token.
func RegisterChatRoutes(r gin.IRouter, handler *ChatHandler, gateway gin.HandlerFunc, requireAuth gin.HandlerFunc) {
	chats := r.Group("/chats", requireAuth)
	{
		chats.GET("", handler.ListChats)
		chats.GET("/ws", gateway)
		chats.GET("/:chatId/messages", handler.ListMessages)
	}
}
