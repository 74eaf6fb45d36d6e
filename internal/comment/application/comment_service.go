package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedCache "github.com/davicafu/hexablog/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// PostReader es lo que el servicio necesita del dominio de posts.
type PostReader interface {
	GetByID(ctx context.Context, id int64) (*postDomain.Post, error)
}

// CommentService define los casos de uso de los comentarios de un post.
type CommentService struct {
	repo    commentDomain.CommentRepository
	posts   PostReader
	cache   sharedCache.Cache
	baseURL string
	log     *zap.Logger
}

// NewCommentService recibe la caché de posts (puede ser nil): crear o borrar un
// comentario cambia commentCount del post cacheado.
func NewCommentService(repo commentDomain.CommentRepository, posts PostReader, cache sharedCache.Cache, baseURL string, log *zap.Logger) *CommentService {
	return &CommentService{
		repo:    repo,
		posts:   posts,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// PaginateComments lista los comentarios del post; el filtro postId siempre se aplica.
func (s *CommentService) PaginateComments(ctx context.Context, postID int64, req sharedQuery.Request) (sharedQuery.Result[*commentDomain.Comment], error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return sharedQuery.Result[*commentDomain.Comment]{}, err
	}

	scoped := sharedQuery.WithScope[*commentDomain.Comment](s.repo, sharedDomain.FieldEquals("postId", postID))
	basePath := fmt.Sprintf("%s/posts/%d/comments", s.baseURL, postID)
	return sharedQuery.Paginate(ctx, req, scoped, basePath)
}

// GetComment devuelve ErrCommentNotFound también si el comentario es de otro post.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID int64) (*commentDomain.Comment, error) {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.PostID != postID {
		return nil, commentDomain.ErrCommentNotFound
	}
	return c, nil
}

// CreateComment guarda el comentario y actualiza commentCount del post en la misma transacción.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID int64, content string) (*commentDomain.Comment, error) {
	c, err := commentDomain.NewComment(postID, authorID, content)
	if err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent(commentDomain.AggregateType, "", commentDomain.CommentCreated, c)
	if err := s.repo.Create(ctx, c, evt); err != nil {
		s.log.Warn("Failed to create comment", zap.Int64("post_id", postID), zap.Error(err))
		return nil, err
	}
	s.invalidatePost(ctx, postID)
	return c, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actorID, postID, commentID int64, content string) (*commentDomain.Comment, error) {
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !c.IsAuthor(actorID) {
		return nil, commentDomain.ErrForbidden
	}
	if err := c.Update(content); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent(commentDomain.AggregateType, strconv.FormatInt(c.ID, 10), commentDomain.CommentUpdated, c)
	if err := s.repo.Update(ctx, c, evt); err != nil {
		s.log.Error("Failed to update comment", zap.Int64("comment_id", commentID), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, actorID, postID, commentID int64) error {
	c, err := s.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if !c.IsAuthor(actorID) {
		return commentDomain.ErrForbidden
	}

	payload := commentDomain.CommentDeletedPayload{ID: c.ID, PostID: c.PostID}
	evt := sharedDomain.NewOutboxEvent(commentDomain.AggregateType, strconv.FormatInt(c.ID, 10), commentDomain.CommentDeleted, payload)
	if err := s.repo.Delete(ctx, c, evt); err != nil {
		s.log.Error("Failed to delete comment", zap.Int64("comment_id", commentID), zap.Error(err))
		return err
	}
	s.invalidatePost(ctx, c.PostID)
	return nil
}

// invalidatePost borra el post cacheado en la misma petición, para que el
// siguiente GET vea el commentCount nuevo.
func (s *CommentService) invalidatePost(ctx context.Context, postID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, postDomain.PostCacheKeyByID(postID)); err != nil {
		s.log.Warn("Cache deletion failed", zap.Int64("post_id", postID), zap.Error(err))
	}
}
