package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

// El listado cruza con users para devolver los datos del seguidor.
var followColumns = sqldb.Columns{
	"id":          sqldb.Int("f.id"),
	"followerId":  sqldb.Int("f.follower_id"),
	"followeeId":  sqldb.Int("f.followee_id"),
	"isConfirmed": sqldb.Boolean("f.is_confirmed"),
	"createdAt":   sqldb.Time("f.created_at"),
}

const (
	followTable  = "user_followers f JOIN users u ON u.id = f.follower_id"
	followSelect = "f.id, f.follower_id, f.followee_id, f.is_confirmed, f.created_at, f.updated_at, u.nickname, u.email"
)

type FollowRepo struct {
	db      *sql.DB
	dialect sqldb.Dialect
}

func NewFollowRepo(db *sql.DB, d sqldb.Dialect) *FollowRepo {
	return &FollowRepo{db: db, dialect: d}
}

func (r *FollowRepo) HasField(field string) bool {
	return followColumns.HasField(field)
}

func (r *FollowRepo) Create(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, r.dialect.Rebind(
			`INSERT INTO user_followers (follower_id, followee_id, is_confirmed, created_at, updated_at)
			 VALUES (?,?,?,?,?) RETURNING id`),
			f.FollowerID, f.FolloweeID, f.IsConfirmed, f.CreatedAt, f.UpdatedAt,
		).Scan(&f.ID)
		if err != nil {
			switch {
			case sqldb.IsUniqueViolation(err):
				return userDomain.ErrAlreadyFollowing
			case sqldb.IsForeignKeyViolation(err):
				return userDomain.ErrUserNotFound
			}
			return fmt.Errorf("insert follow: %w", err)
		}

		if evt.AggregateID == "" {
			evt.AggregateID = strconv.FormatInt(f.ID, 10)
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *FollowRepo) Get(ctx context.Context, followerID, followeeID int64) (*userDomain.Follow, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT `+followSelect+` FROM `+followTable+` WHERE f.follower_id = ? AND f.followee_id = ?`),
		followerID, followeeID)
	f, err := scanFollow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, userDomain.ErrFollowNotFound
	}
	return f, err
}

// Confirm solo toca filas pendientes, así dos confirmaciones no cuentan doble.
func (r *FollowRepo) Confirm(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(
			`UPDATE user_followers SET is_confirmed = `+r.dialect.Bool(true)+`, updated_at = ?
			 WHERE id = ? AND is_confirmed = `+r.dialect.Bool(false)),
			f.UpdatedAt, f.ID)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return userDomain.ErrFollowNotFound
		}
		if err := r.adjustCounts(ctx, tx, f, 1); err != nil {
			return err
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

// Delete descuenta solo si la fila borrada estaba confirmada.
func (r *FollowRepo) Delete(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		var confirmed bool
		err := tx.QueryRowContext(ctx, r.dialect.Rebind(
			`DELETE FROM user_followers WHERE id = ? RETURNING is_confirmed`), f.ID).Scan(&confirmed)
		if errors.Is(err, sql.ErrNoRows) {
			return userDomain.ErrFollowNotFound
		}
		if err != nil {
			return err
		}
		if confirmed {
			if err := r.adjustCounts(ctx, tx, f, -1); err != nil {
				return err
			}
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *FollowRepo) adjustCounts(ctx context.Context, tx *sql.Tx, f *userDomain.Follow, delta int64) error {
	res, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE users SET follower_count = follower_count + ? WHERE id = ?`), delta, f.FolloweeID)
	if err != nil {
		return fmt.Errorf("adjust follower count: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return userDomain.ErrUserNotFound
	}
	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE users SET followee_count = followee_count + ? WHERE id = ?`), delta, f.FollowerID); err != nil {
		return fmt.Errorf("adjust followee count: %w", err)
	}
	return nil
}

func (r *FollowRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*userDomain.Follow, error) {
	b := sqldb.NewBuilder(r.dialect, followColumns)
	q, err := b.Select(followSelect, followTable, opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var follows []*userDomain.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return nil, err
		}
		follows = append(follows, f)
	}
	return follows, rows.Err()
}

func (r *FollowRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	b := sqldb.NewBuilder(r.dialect, followColumns)
	q, err := b.Count(followTable, where)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.QueryRowContext(ctx, q, b.Args()...).Scan(&n)
	return n, err
}

func scanFollow(s scanner) (*userDomain.Follow, error) {
	var (
		f        userDomain.Follow
		follower userDomain.FollowerInfo
	)
	if err := s.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.IsConfirmed, &f.CreatedAt, &f.UpdatedAt,
		&follower.Nickname, &follower.Email); err != nil {
		return nil, err
	}
	follower.ID = f.FollowerID
	f.Follower = &follower
	return &f, nil
}

// InitFollowSchema crea user_followers. Requiere que users exista.
func InitFollowSchema(ctx context.Context, db *sql.DB, d sqldb.Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_followers (
			id ` + d.Serial() + `,
			follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_confirmed BOOLEAN NOT NULL DEFAULT ` + d.Bool(false) + `,
			created_at ` + d.Timestamp() + ` NOT NULL,
			updated_at ` + d.Timestamp() + ` NOT NULL,
			UNIQUE (follower_id, followee_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_followers_followee ON user_followers (followee_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init user_followers schema: %w", err)
		}
	}
	return nil
}

var _ userDomain.FollowRepository = (*FollowRepo)(nil)
var _ sharedQuery.FieldSet = (*FollowRepo)(nil)
