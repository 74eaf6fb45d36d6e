package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
)

// PostAnalyticsRepo es el fallback sin ClickHouse: agrega en memoria.
type PostAnalyticsRepo struct {
	mu   sync.RWMutex
	rows []postDomain.PostActivity
}

func NewPostAnalyticsRepo() *PostAnalyticsRepo {
	return &PostAnalyticsRepo{}
}

func (r *PostAnalyticsRepo) LogBatch(ctx context.Context, activity []postDomain.PostActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, activity...)
	return nil
}

func (r *PostAnalyticsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]postDomain.DailyPostTrend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[time.Time]*postDomain.DailyPostTrend)
	for _, a := range r.rows {
		at := a.OccurredAt.UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		t, ok := byDay[day]
		if !ok {
			t = &postDomain.DailyPostTrend{Day: day}
			byDay[day] = t
		}
		switch a.EventType {
		case postDomain.PostCreated:
			t.CreatedCount++
		case postDomain.PostUpdated:
			t.UpdatedCount++
		case postDomain.PostDeleted:
			t.DeletedCount++
		}
	}

	trends := make([]postDomain.DailyPostTrend, 0, len(byDay))
	for _, t := range byDay {
		trends = append(trends, *t)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Day.Before(trends[j].Day) })
	return trends, nil
}

var _ postDomain.PostAnalyticsRepository = (*PostAnalyticsRepo)(nil)
