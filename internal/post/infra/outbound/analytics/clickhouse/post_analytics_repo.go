package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
)

// PostAnalyticsRepo guarda el log de actividad de posts en ClickHouse.
type PostAnalyticsRepo struct {
	db *sql.DB
}

// NewPostAnalyticsRepo abre la conexión y comprueba que responde.
func NewPostAnalyticsRepo(ctx context.Context, addr, dbName string) (*PostAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &PostAnalyticsRepo{db: conn}, nil
}

func (r *PostAnalyticsRepo) Close() error {
	return r.db.Close()
}

// LogBatch inserta el lote en una sola transacción; ClickHouse lo envía como un bloque.
func (r *PostAnalyticsRepo) LogBatch(ctx context.Context, activity []postDomain.PostActivity) error {
	if len(activity) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO posts_log (post_id, author_id, event_type, event_time)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, a := range activity {
		if _, err := stmt.ExecContext(ctx, a.PostID, a.AuthorID, a.EventType, a.OccurredAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for post %d: %w", a.PostID, err)
		}
	}

	return tx.Commit()
}

// GetDailyTrend cuenta eventos por día en [start, end).
func (r *PostAnalyticsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]postDomain.DailyPostTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			countIf(event_type = ?) AS created,
			countIf(event_type = ?) AS updated,
			countIf(event_type = ?) AS deleted
		FROM posts_log
		WHERE event_time >= ? AND event_time < ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query,
		postDomain.PostCreated, postDomain.PostUpdated, postDomain.PostDeleted, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := []postDomain.DailyPostTrend{}
	for rows.Next() {
		var (
			trend                     postDomain.DailyPostTrend
			created, updated, deleted uint64
		)
		if err := rows.Scan(&trend.Day, &created, &updated, &deleted); err != nil {
			return nil, err
		}
		trend.CreatedCount, trend.UpdatedCount, trend.DeletedCount = int(created), int(updated), int(deleted)
		trends = append(trends, trend)
	}
	return trends, rows.Err()
}

// InitSchema crea la tabla de log, particionada por mes.
func (r *PostAnalyticsRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS posts_log (
			post_id    Int64,
			author_id  Int64,
			event_type LowCardinality(String),
			event_time DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(event_time)
		ORDER BY (event_type, event_time, post_id)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

var _ postDomain.PostAnalyticsRepository = (*PostAnalyticsRepo)(nil)
