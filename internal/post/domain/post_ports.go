package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
	ErrForbidden    = errors.New("only the author can modify this resource")

	ErrInvalidTrendRange = errors.New("invalid trend range")
)

// --- Repositorio de Posts ---

// PostRepository persiste posts junto a su evento outbox en la misma transacción.
// Además es una colección paginable.
type PostRepository interface {
	sharedQuery.Collection[*Post]

	// Create asigna p.ID. Si evt.AggregateID está vacío se rellena con el id asignado.
	Create(ctx context.Context, p *Post, evt sharedDomain.OutboxEvent) error
	// Update y DeleteByID devuelven ErrPostNotFound si no existe.
	Update(ctx context.Context, p *Post, evt sharedDomain.OutboxEvent) error
	DeleteByID(ctx context.Context, id int64, evt sharedDomain.OutboxEvent) error
	GetByID(ctx context.Context, id int64) (*Post, error)
}

// --- Analítica ---

// PostActivity es una fila del log de actividad.
type PostActivity struct {
	PostID     int64
	AuthorID   int64
	EventType  string
	OccurredAt time.Time
}

// DailyPostTrend agrega la actividad por día.
type DailyPostTrend struct {
	Day          time.Time `json:"day"`
	CreatedCount int       `json:"createdCount"`
	UpdatedCount int       `json:"updatedCount"`
	DeletedCount int       `json:"deletedCount"`
}

type PostAnalyticsRepository interface {
	LogBatch(ctx context.Context, activity []PostActivity) error
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]DailyPostTrend, error)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

func PostCacheKeyByID(id int64) string {
	return fmt.Sprintf("post:id:%d", id)
}
