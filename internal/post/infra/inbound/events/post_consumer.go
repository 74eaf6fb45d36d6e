package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedEvents "github.com/davicafu/hexablog/internal/shared/domain/events"
	sharedCache "github.com/davicafu/hexablog/internal/shared/infra/platform/cache"
	sharedUtils "github.com/davicafu/hexablog/internal/shared/infra/utils"
)

const (
	defaultBatchSize = 100
	handleTimeout    = 500 * time.Millisecond
)

// PostConsumer procesa los eventos del topic de posts: invalida la caché y
// acumula la actividad para la analítica.
type PostConsumer struct {
	cache     sharedCache.Cache
	analytics postDomain.PostAnalyticsRepository
	log       *zap.Logger

	mu        sync.Mutex
	buffer    []postDomain.PostActivity
	batchSize int
}

// NewPostConsumer acepta cache y analytics nil.
func NewPostConsumer(cache sharedCache.Cache, analytics postDomain.PostAnalyticsRepository, batchSize int, log *zap.Logger) *PostConsumer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PostConsumer{cache: cache, analytics: analytics, batchSize: batchSize, log: log}
}

// HandleMessage es el punto de entrada para un nuevo mensaje/evento.
func (c *PostConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event for post", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case postDomain.PostCreated, postDomain.PostUpdated, postDomain.PostDeleted:
		sharedUtils.UnmarshalAndHandle(c.log, base.Data, func(evt postDomain.PostEventPayload) {
			c.invalidate(ctx, evt.ID)
			c.record(ctx, postDomain.PostActivity{
				PostID:     evt.ID,
				AuthorID:   evt.AuthorID,
				EventType:  base.Type,
				OccurredAt: base.Timestamp,
			})
		})
	default:
		c.log.Warn("Unknown post event type", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *PostConsumer) invalidate(ctx context.Context, postID int64) {
	if c.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := c.cache.Delete(ctx, postDomain.PostCacheKeyByID(postID)); err != nil {
		c.log.Warn("Failed to invalidate post cache", zap.Int64("post_id", postID), zap.Error(err))
	}
}

func (c *PostConsumer) record(ctx context.Context, activity postDomain.PostActivity) {
	if c.analytics == nil {
		return
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, activity)
	full := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if full {
		if err := c.Flush(ctx); err != nil {
			c.log.Warn("Failed to flush post activity", zap.Error(err))
		}
	}
}

// Pending devuelve cuántas filas esperan al siguiente Flush.
func (c *PostConsumer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

// Flush envía el buffer a la analítica. Si falla, el lote vuelve al buffer
// (hasta 10 lotes; lo más antiguo se descarta).
func (c *PostConsumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.buffer
	c.buffer = nil
	c.mu.Unlock()

	if len(batch) == 0 || c.analytics == nil {
		return nil
	}

	if err := c.analytics.LogBatch(ctx, batch); err != nil {
		c.mu.Lock()
		c.buffer = append(batch, c.buffer...)
		if limit := 10 * c.batchSize; len(c.buffer) > limit {
			dropped := len(c.buffer) - limit
			c.buffer = c.buffer[dropped:]
			c.log.Warn("Post activity buffer full, dropping oldest", zap.Int("dropped", dropped))
		}
		c.mu.Unlock()
		return err
	}

	c.log.Debug("Post activity flushed", zap.Int("rows", len(batch)))
	return nil
}

// StartFlusher vacía el buffer cada interval y una última vez al cancelar ctx.
func (c *PostConsumer) StartFlusher(ctx context.Context, interval time.Duration) {
	if c.analytics == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				if err := c.Flush(flushCtx); err != nil {
					c.log.Warn("Final flush of post activity failed", zap.Error(err))
				}
				cancel()
				c.log.Info("PostConsumer flusher stopped")
				return
			case <-ticker.C:
				if err := c.Flush(ctx); err != nil {
					c.log.Warn("Failed to flush post activity", zap.Error(err))
				}
			}
		}
	}()
}
