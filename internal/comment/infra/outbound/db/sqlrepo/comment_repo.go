package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

var commentColumns = sqldb.Columns{
	"id":        sqldb.Int("id"),
	"postId":    sqldb.Int("post_id"),
	"authorId":  sqldb.Int("author_id"),
	"comment":   sqldb.Text("content"),
	"likeCount": sqldb.Int("like_count"),
	"createdAt": sqldb.Time("created_at"),
	"updatedAt": sqldb.Time("updated_at"),
}

const commentSelect = "id, post_id, author_id, content, like_count, created_at, updated_at"

// CommentRepo implementa CommentRepository sobre Postgres o SQLite.
type CommentRepo struct {
	db      *sql.DB
	dialect sqldb.Dialect
}

func NewCommentRepo(db *sql.DB, d sqldb.Dialect) *CommentRepo {
	return &CommentRepo{db: db, dialect: d}
}

func (r *CommentRepo) HasField(field string) bool {
	return commentColumns.HasField(field)
}

// Create inserta el comentario, suma uno al contador del post y guarda el evento.
func (r *CommentRepo) Create(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := r.adjustCount(ctx, tx, c.PostID, 1); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, r.dialect.Rebind(
			`INSERT INTO comments (post_id, author_id, content, like_count, created_at, updated_at)
			 VALUES (?,?,?,?,?,?) RETURNING id`),
			c.PostID, c.AuthorID, c.Content, c.LikeCount, c.CreatedAt, c.UpdatedAt,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		if evt.AggregateID == "" {
			evt.AggregateID = strconv.FormatInt(c.ID, 10)
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *CommentRepo) Update(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(
			`UPDATE comments SET content=?, like_count=?, updated_at=? WHERE id=?`),
			c.Content, c.LikeCount, c.UpdatedAt, c.ID,
		)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return commentDomain.ErrCommentNotFound
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

// Delete borra el comentario y resta uno al contador del post.
func (r *CommentRepo) Delete(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM comments WHERE id=?`), c.ID)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return commentDomain.ErrCommentNotFound
		}
		if err := r.adjustCount(ctx, tx, c.PostID, -1); err != nil {
			return err
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *CommentRepo) adjustCount(ctx context.Context, tx *sql.Tx, postID, delta int64) error {
	res, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE posts SET comment_count = comment_count + ? WHERE id = ?`), delta, postID)
	if err != nil {
		return fmt.Errorf("adjust comment count: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return postDomain.ErrPostNotFound
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*commentDomain.Comment, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+commentSelect+` FROM comments WHERE id = ?`), id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, commentDomain.ErrCommentNotFound
	}
	return c, err
}

func (r *CommentRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*commentDomain.Comment, error) {
	b := sqldb.NewBuilder(r.dialect, commentColumns)
	q, err := b.Select(commentSelect, "comments", opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*commentDomain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	b := sqldb.NewBuilder(r.dialect, commentColumns)
	q, err := b.Count("comments", where)
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

func scanComment(s scanner) (*commentDomain.Comment, error) {
	var c commentDomain.Comment
	if err := s.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.LikeCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// InitSchema crea la tabla comments. Requiere que posts exista.
func InitSchema(ctx context.Context, db *sql.DB, d sqldb.Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comments (
			id ` + d.Serial() + `,
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			like_count BIGINT NOT NULL DEFAULT 0,
			created_at ` + d.Timestamp() + ` NOT NULL,
			updated_at ` + d.Timestamp() + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init comments schema: %w", err)
		}
	}
	return nil
}

var _ commentDomain.CommentRepository = (*CommentRepo)(nil)
var _ sharedQuery.FieldSet = (*CommentRepo)(nil)
