package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrInvalidChat    = errors.New("a chat needs at least one other valid member")
	ErrInvalidMessage = errors.New("message cannot be empty")
	ErrNotMember      = errors.New("user is not a member of this chat")
)

type ChatRepository interface {
	sharedQuery.Collection[*Chat]

	Create(ctx context.Context, c *Chat, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id int64) (*Chat, error)
}

type MessageRepository interface {
	sharedQuery.Collection[*Message]

	Create(ctx context.Context, m *Message, evt sharedDomain.OutboxEvent) error
}
