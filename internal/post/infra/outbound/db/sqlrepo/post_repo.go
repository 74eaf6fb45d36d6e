package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var postColumns = sqldb.Columns{
	"id":           sqldb.Int("id"),
	"authorId":     sqldb.Int("author_id"),
	"title":        sqldb.Text("title"),
	"content":      sqldb.Text("content"),
	"likeCount":    sqldb.Int("like_count"),
	"commentCount": sqldb.Int("comment_count"),
	"createdAt":    sqldb.Time("created_at"),
	"updatedAt":    sqldb.Time("updated_at"),
}

const postSelect = "id, author_id, title, content, like_count, comment_count, created_at, updated_at"

// PostRepo implementa PostRepository sobre Postgres o SQLite.
type PostRepo struct {
	db      *sql.DB
	dialect sqldb.Dialect
}

func NewPostRepo(db *sql.DB, d sqldb.Dialect) *PostRepo {
	return &PostRepo{db: db, dialect: d}
}

func (r *PostRepo) HasField(field string) bool {
	return postColumns.HasField(field)
}

// Create inserta post y evento en transacción
func (r *PostRepo) Create(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, r.dialect.Rebind(
			`INSERT INTO posts (author_id, title, content, like_count, comment_count, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?) RETURNING id`),
			p.AuthorID, p.Title, p.Content, p.LikeCount, p.CommentCount, p.CreatedAt, p.UpdatedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}

		if evt.AggregateID == "" {
			evt.AggregateID = strconv.FormatInt(p.ID, 10)
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

// Update actualiza los campos editables y crea evento Outbox en transacción
func (r *PostRepo) Update(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(
			`UPDATE posts SET title=?, content=?, like_count=?, updated_at=? WHERE id=?`),
			p.Title, p.Content, p.LikeCount, p.UpdatedAt, p.ID,
		)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return postDomain.ErrPostNotFound
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

// DeleteByID elimina el post (los comentarios caen por cascada) y crea evento Outbox
func (r *PostRepo) DeleteByID(ctx context.Context, id int64, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM posts WHERE id=?`), id)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return postDomain.ErrPostNotFound
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *PostRepo) GetByID(ctx context.Context, id int64) (*postDomain.Post, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+postSelect+` FROM posts WHERE id = ?`), id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, postDomain.ErrPostNotFound
	}
	return p, err
}

// Find traduce FindOptions a SQL; el orden y los filtros vienen ya validados por postColumns.
func (r *PostRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*postDomain.Post, error) {
	b := sqldb.NewBuilder(r.dialect, postColumns)
	q, err := b.Select(postSelect, "posts", opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*postDomain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	b := sqldb.NewBuilder(r.dialect, postColumns)
	q, err := b.Count("posts", where)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, q, b.Args()...).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(s scanner) (*postDomain.Post, error) {
	var p postDomain.Post
	if err := s.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.LikeCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ------------------ Inicialización de DB ------------------

// InitSchema crea la tabla posts y sus índices si no existen.
func InitSchema(ctx context.Context, db *sql.DB, d sqldb.Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id ` + d.Serial() + `,
			author_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			created_at ` + d.Timestamp() + ` NOT NULL,
			updated_at ` + d.Timestamp() + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author ON posts (author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts (created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init posts schema: %w", err)
		}
	}
	return nil
}

// Verificación estática.
var _ postDomain.PostRepository = (*PostRepo)(nil)
var _ sharedQuery.FieldSet = (*PostRepo)(nil)
