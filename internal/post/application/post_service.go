package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedCache "github.com/davicafu/hexablog/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/hexablog/internal/shared/infra/utils"
)

// RandomPostCount es cuántos posts crea GenerateRandomPosts.
const RandomPostCount = 100

var ErrAnalyticsUnavailable = errors.New("post analytics not configured")

// PostService define los casos de uso de Post.
type PostService struct {
	repo      postDomain.PostRepository
	analytics postDomain.PostAnalyticsRepository
	cache     sharedCache.Cache
	cacheTTL  time.Duration
	baseURL   string
	log       *zap.Logger
}

// NewPostService recibe la URL pública (protocolo://host) con la que se construye "next".
// analytics y cache pueden ser nil.
func NewPostService(
	repo postDomain.PostRepository,
	analytics postDomain.PostAnalyticsRepository,
	cache sharedCache.Cache,
	cacheTTL time.Duration,
	baseURL string,
	log *zap.Logger,
) *PostService {
	return &PostService{
		repo:      repo,
		analytics: analytics,
		cache:     cache,
		cacheTTL:  cacheTTL,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log,
	}
}

// CreatePost crea el post y su evento outbox en la misma transacción.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, title, content string) (*postDomain.Post, error) {
	post, err := postDomain.NewPost(authorID, title, content)
	if err != nil {
		return nil, err
	}

	// AggregateID vacío: lo rellena el repo cuando conoce el id.
	evt := sharedDomain.NewOutboxEvent(postDomain.AggregateType, "", postDomain.PostCreated, post)
	if err := s.repo.Create(ctx, post, evt); err != nil {
		s.log.Error("Failed to create post", zap.Int64("author_id", authorID), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, postDomain.PostCacheKeyByID(post.ID), post, s.cacheTTL, s.log)
	return post, nil
}

// GenerateRandomPosts crea RandomPostCount posts de prueba para el autor.
func (s *PostService) GenerateRandomPosts(ctx context.Context, authorID int64) (int, error) {
	for i := 0; i < RandomPostCount; i++ {
		title := fmt.Sprintf("Post generado %d", i)
		content := fmt.Sprintf("Contenido generado %d", i)
		if _, err := s.CreatePost(ctx, authorID, title, content); err != nil {
			return i, err
		}
	}
	s.log.Info("Random posts generated", zap.Int64("author_id", authorID), zap.Int("count", RandomPostCount))
	return RandomPostCount, nil
}

// GetPostByID usa cache-aside; el repo se reintenta salvo cuando el post no existe.
func (s *PostService) GetPostByID(ctx context.Context, id int64) (*postDomain.Post, error) {
	key := postDomain.PostCacheKeyByID(id)
	if s.cache != nil {
		var cached postDomain.Post
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	var post *postDomain.Post
	var notFound bool
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		p, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, postDomain.ErrPostNotFound) {
			notFound = true
			return nil
		}
		post = p
		return err
	})
	if notFound {
		s.log.Warn("Post not found", zap.Int64("post_id", id))
		return nil, postDomain.ErrPostNotFound
	}
	if err != nil {
		s.log.Error("Failed to fetch post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, key, post, s.cacheTTL, s.log)
	return post, nil
}

// UpdatePost aplica los cambios presentes. Solo el autor puede editar.
func (s *PostService) UpdatePost(ctx context.Context, actorID, id int64, title, content *string) (*postDomain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(actorID) {
		return nil, postDomain.ErrForbidden
	}
	if err := post.Update(title, content); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent(postDomain.AggregateType, post.PartitionKey(), postDomain.PostUpdated, post)
	if err := s.repo.Update(ctx, post, evt); err != nil {
		s.log.Error("Failed to update post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}

	sharedCache.AsyncCacheDelete(s.cache, postDomain.PostCacheKeyByID(id), s.log)
	return post, nil
}

// DeletePost borra el post (y sus comentarios). Solo el autor puede borrar.
func (s *PostService) DeletePost(ctx context.Context, actorID, id int64) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsAuthor(actorID) {
		return postDomain.ErrForbidden
	}

	payload := postDomain.PostDeletedPayload{ID: post.ID, AuthorID: post.AuthorID}
	evt := sharedDomain.NewOutboxEvent(postDomain.AggregateType, post.PartitionKey(), postDomain.PostDeleted, payload)
	if err := s.repo.DeleteByID(ctx, id, evt); err != nil {
		s.log.Error("Failed to delete post", zap.Int64("post_id", id), zap.Error(err))
		return err
	}

	sharedCache.AsyncCacheDelete(s.cache, postDomain.PostCacheKeyByID(id), s.log)
	return nil
}

// PaginatePosts lista posts con los parámetros where__/order__/page/take.
func (s *PostService) PaginatePosts(ctx context.Context, req sharedQuery.Request) (sharedQuery.Result[*postDomain.Post], error) {
	return sharedQuery.Paginate[*postDomain.Post](ctx, req, s.repo, s.baseURL+"/posts")
}

// GetDailyTrend devuelve la actividad diaria en [from, to).
func (s *PostService) GetDailyTrend(ctx context.Context, from, to time.Time) ([]postDomain.DailyPostTrend, error) {
	if s.analytics == nil {
		return nil, ErrAnalyticsUnavailable
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", postDomain.ErrInvalidTrendRange)
	}
	return s.analytics.GetDailyTrend(ctx, from.UTC(), to.UTC())
}
