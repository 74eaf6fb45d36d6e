package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexablog/internal/chat/application"
	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/web"
	"github.com/davicafu/hexablog/pkg/utils"
)

// ChatHandler expone los listados de chats; el envío va por websocket.
type ChatHandler struct {
	service *application.ChatService
	errors  *utils.ErrorMapper
}

func NewChatHandler(service *application.ChatService) *ChatHandler {
	return &ChatHandler{
		service: service,
		errors: web.BaseErrorMapper().
			WithMapping(chatDomain.ErrChatNotFound, http.StatusNotFound, "chat not found").
			WithMapping(chatDomain.ErrNotMember, http.StatusForbidden, "not a member of this chat"),
	}
}

// ListChats endpoint GET /chats
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}

	result, err := h.service.PaginateChats(c.Request.Context(), userID, web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}

// ListMessages endpoint GET /chats/:chatId/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	chatID, err := web.ParamID(c, "chatId")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	result, err := h.service.PaginateMessages(c.Request.Context(), userID, chatID, web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}
