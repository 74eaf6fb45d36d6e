package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	"github.com/davicafu/hexablog/pkg/utils"
)

// Eventos del cliente
const (
	EventCreateChat  = "create_chat"
	EventEnterChat   = "enter_chat"
	EventSendMessage = "send_message"
)

// Eventos del servidor
const (
	EventChatCreated    = "chat_created"
	EventEnteredChat    = "entered_chat"
	EventReceiveMessage = "receive_message"
	EventException      = "exception"
)

// CodeChatNotFound es el código de excepción de un chat inexistente.
const CodeChatNotFound = 100

const commandTimeout = 10 * time.Second

// ChatUseCases es lo que el gateway necesita del servicio de chats.
type ChatUseCases interface {
	CreateChat(ctx context.Context, creatorID int64, userIDs []int64) (*chatDomain.Chat, error)
	EnterChat(ctx context.Context, userID int64, chatIDs []int64) ([]*chatDomain.Chat, error)
	SendMessage(ctx context.Context, authorID, chatID int64, text string) (*chatDomain.Message, error)
}

type (
	createChatData struct {
		UserIDs []int64 `json:"userIds"`
	}
	enterChatData struct {
		ChatIDs []int64 `json:"chatIds"`
	}
	sendMessageData struct {
		ChatID  int64  `json:"chatId"`
		Message string `json:"message"`
	}
	// Exception es el cuerpo del evento "exception".
	Exception struct {
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

// Gateway sube la conexión a websocket y despacha los eventos.
type Gateway struct {
	hub      *Hub
	service  ChatUseCases
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewGateway(hub *Hub, service ChatUseCases, log *zap.Logger) *Gateway {
	return &Gateway{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeWS endpoint GET /chats/ws. Va detrás de auth.Require: el access token
// llega en Authorization o en ?token=.
func (g *Gateway) ServeWS(c *gin.Context) {
	userID, ok := sharedAuth.UserID(c)
	if !ok {
		utils.SendUnauthorized(c, "missing token")
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := newClient(g.hub, conn, userID, g.log)
	g.log.Info("🔌 ws client connected", zap.Int64("user_id", userID))
	go client.writePump()
	client.readPump(context.Background(), g.dispatch)
}

func (g *Gateway) dispatch(parent context.Context, c *Client, f Frame) {
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	var err error
	switch f.Event {
	case EventCreateChat:
		err = g.createChat(ctx, c, f.Data)
	case EventEnterChat:
		err = g.enterChat(ctx, c, f.Data)
	case EventSendMessage:
		err = g.sendMessage(ctx, c, f.Data)
	default:
		err = errUnknownEvent
	}
	if err != nil {
		c.emit(EventException, toException(err))
	}
}

var (
	errUnknownEvent = errors.New("unknown event")
	errBadPayload   = errors.New("invalid payload")
)

// createChat mete al creador en la sala nueva y le devuelve el chat.
func (g *Gateway) createChat(ctx context.Context, c *Client, raw json.RawMessage) error {
	var data createChatData
	if err := json.Unmarshal(raw, &data); err != nil {
		return errBadPayload
	}
	chat, err := g.service.CreateChat(ctx, c.userID, data.UserIDs)
	if err != nil {
		return err
	}
	if !g.hub.join(c, chat.Room()) {
		return nil
	}
	c.emit(EventChatCreated, chat)
	return nil
}

func (g *Gateway) enterChat(ctx context.Context, c *Client, raw json.RawMessage) error {
	var data enterChatData
	if err := json.Unmarshal(raw, &data); err != nil {
		return errBadPayload
	}
	chats, err := g.service.EnterChat(ctx, c.userID, data.ChatIDs)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		if !g.hub.join(c, chat.Room()) {
			return nil
		}
	}
	c.emit(EventEnteredChat, enterChatData{ChatIDs: data.ChatIDs})
	return nil
}

// sendMessage guarda el mensaje y lo reparte al resto de la sala.
func (g *Gateway) sendMessage(ctx context.Context, c *Client, raw json.RawMessage) error {
	var data sendMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return errBadPayload
	}
	msg, err := g.service.SendMessage(ctx, c.userID, data.ChatID, data.Message)
	if err != nil {
		return err
	}
	g.hub.Emit(chatDomain.RoomName(msg.ChatID), c, EventReceiveMessage, msg)
	return nil
}

func toException(err error) Exception {
	ex := Exception{Status: "Exception", Message: err.Error()}
	switch {
	case errors.Is(err, chatDomain.ErrChatNotFound):
		ex.Code = CodeChatNotFound
	case errors.Is(err, chatDomain.ErrNotMember):
		ex.Code = http.StatusForbidden
	case errors.Is(err, userDomain.ErrUserNotFound):
		ex.Code = http.StatusNotFound
	case errors.Is(err, chatDomain.ErrInvalidChat), errors.Is(err, chatDomain.ErrInvalidMessage),
		errors.Is(err, errBadPayload), errors.Is(err, errUnknownEvent):
		ex.Code = http.StatusBadRequest
	default:
		ex.Code = http.StatusInternalServerError
		ex.Message = "internal server error"
	}
	return ex
}
