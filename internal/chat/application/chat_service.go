package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

// UserReader comprueba que los miembros de un chat existen.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
}

// ChatService define los casos de uso de chats y mensajes.
type ChatService struct {
	chats    chatDomain.ChatRepository
	messages chatDomain.MessageRepository
	users    UserReader
	baseURL  string
	log      *zap.Logger
}

func NewChatService(chats chatDomain.ChatRepository, messages chatDomain.MessageRepository, users UserReader, baseURL string, log *zap.Logger) *ChatService {
	return &ChatService{
		chats:    chats,
		messages: messages,
		users:    users,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
}

// CreateChat crea una sala con el creador y los usuarios indicados.
func (s *ChatService) CreateChat(ctx context.Context, creatorID int64, userIDs []int64) (*chatDomain.Chat, error) {
	chat, err := chatDomain.NewChat(creatorID, userIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range chat.UserIDs {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	evt := sharedDomain.NewOutboxEvent(chatDomain.AggregateType, "", chatDomain.ChatCreated, chat)
	if err := s.chats.Create(ctx, chat, evt); err != nil {
		s.log.Error("Failed to create chat", zap.Error(err))
		return nil, err
	}
	s.log.Info("Chat created", zap.Int64("chat_id", chat.ID), zap.Int("members", len(chat.UserIDs)))
	return chat, nil
}

// MemberChat devuelve el chat si existe y userID es miembro.
func (s *ChatService) MemberChat(ctx context.Context, userID, chatID int64) (*chatDomain.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsMember(userID) {
		return nil, chatDomain.ErrNotMember
	}
	return chat, nil
}

// EnterChat valida todas las salas antes de devolver ninguna: o entra en todas o en ninguna.
func (s *ChatService) EnterChat(ctx context.Context, userID int64, chatIDs []int64) ([]*chatDomain.Chat, error) {
	if len(chatIDs) == 0 {
		return nil, chatDomain.ErrInvalidChat
	}
	chats := make([]*chatDomain.Chat, 0, len(chatIDs))
	for _, id := range chatIDs {
		chat, err := s.MemberChat(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("chat %d: %w", id, err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (s *ChatService) SendMessage(ctx context.Context, authorID, chatID int64, text string) (*chatDomain.Message, error) {
	if _, err := s.MemberChat(ctx, authorID, chatID); err != nil {
		return nil, err
	}
	msg, err := chatDomain.NewMessage(chatID, authorID, text)
	if err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent(chatDomain.AggregateType, "", chatDomain.MessageSent, msg)
	if err := s.messages.Create(ctx, msg, evt); err != nil {
		s.log.Error("Failed to store message", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// PaginateChats lista los chats de los que userID es miembro.
func (s *ChatService) PaginateChats(ctx context.Context, userID int64, req sharedQuery.Request) (sharedQuery.Result[*chatDomain.Chat], error) {
	scoped := sharedQuery.WithScope[*chatDomain.Chat](s.chats, sharedDomain.FieldEquals("userIds", userID))
	return sharedQuery.Paginate(ctx, req, scoped, s.baseURL+"/chats")
}

// PaginateMessages lista los mensajes de un chat; solo para sus miembros.
func (s *ChatService) PaginateMessages(ctx context.Context, userID, chatID int64, req sharedQuery.Request) (sharedQuery.Result[*chatDomain.Message], error) {
	if _, err := s.MemberChat(ctx, userID, chatID); err != nil {
		return sharedQuery.Result[*chatDomain.Message]{}, err
	}
	scoped := sharedQuery.WithScope[*chatDomain.Message](s.messages, sharedDomain.FieldEquals("chatId", chatID))
	return sharedQuery.Paginate(ctx, req, scoped, fmt.Sprintf("%s/chats/%d/messages", s.baseURL, chatID))
}
