package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// MockPostRepository simula PostRepository para forzar errores del store.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*postDomain.Post, error) {
	args := m.Called(ctx, opts)
	posts, _ := args.Get(0).([]*postDomain.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepository) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	args := m.Called(ctx, where)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	args := m.Called(ctx, p, evt)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	args := m.Called(ctx, p, evt)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteByID(ctx context.Context, id int64, evt sharedDomain.OutboxEvent) error {
	args := m.Called(ctx, id, evt)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*postDomain.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*postDomain.Post)
	return p, args.Error(1)
}

// MockPostAnalytics simula el repositorio de analítica.
type MockPostAnalytics struct {
	mock.Mock
}

func (m *MockPostAnalytics) LogBatch(ctx context.Context, activity []postDomain.PostActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockPostAnalytics) GetDailyTrend(ctx context.Context, start, end time.Time) ([]postDomain.DailyPostTrend, error) {
	args := m.Called(ctx, start, end)
	trend, _ := args.Get(0).([]postDomain.DailyPostTrend)
	return trend, args.Error(1)
}
