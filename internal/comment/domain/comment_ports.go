package domain

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidComment  = errors.New("invalid comment")
	ErrForbidden       = errors.New("only the author can modify this comment")
)

// CommentRepository mantiene posts.commentCount en la misma transacción que
// el alta y la baja del comentario.
type CommentRepository interface {
	sharedQuery.Collection[*Comment]

	// Create devuelve el ErrPostNotFound del dominio de posts si el post no existe.
	Create(ctx context.Context, c *Comment, evt sharedDomain.OutboxEvent) error
	Update(ctx context.Context, c *Comment, evt sharedDomain.OutboxEvent) error
	Delete(ctx context.Context, c *Comment, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
}
