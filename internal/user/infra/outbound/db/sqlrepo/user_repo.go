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

var userColumns = sqldb.Columns{
	"id":            sqldb.Int("id"),
	"nickname":      sqldb.Text("nickname"),
	"email":         sqldb.Text("email"),
	"role":          sqldb.Text("role"),
	"followerCount": sqldb.Int("follower_count"),
	"followeeCount": sqldb.Int("followee_count"),
	"createdAt":     sqldb.Time("created_at"),
	"updatedAt":     sqldb.Time("updated_at"),
}

const userSelect = "id, nickname, email, password_hash, role, follower_count, followee_count, created_at, updated_at"

type UserRepo struct {
	db      *sql.DB
	dialect sqldb.Dialect
}

func NewUserRepo(db *sql.DB, d sqldb.Dialect) *UserRepo {
	return &UserRepo{db: db, dialect: d}
}

func (r *UserRepo) HasField(field string) bool {
	return userColumns.HasField(field)
}

// Create inserta usuario y evento en transacción; los UNIQUE de email y nickname
// se traducen a ErrUserAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *userDomain.User, evt sharedDomain.OutboxEvent) error {
	return sqldb.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, r.dialect.Rebind(
			`INSERT INTO users (nickname, email, password_hash, role, created_at, updated_at)
			 VALUES (?,?,?,?,?,?) RETURNING id`),
			u.Nickname, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt,
		).Scan(&u.ID)
		if err != nil {
			if sqldb.IsUniqueViolation(err) {
				return userDomain.ErrUserAlreadyExists
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if evt.AggregateID == "" {
			evt.AggregateID = strconv.FormatInt(u.ID, 10)
		}
		if payload, ok := evt.Payload.(*userDomain.UserRegisteredPayload); ok {
			payload.ID = u.ID
		}
		return sqldb.InsertOutboxTx(ctx, tx, r.dialect, evt)
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*userDomain.User, error) {
	return r.getOne(ctx, `SELECT `+userSelect+` FROM users WHERE id = ?`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return r.getOne(ctx, `SELECT `+userSelect+` FROM users WHERE email = ?`, userDomain.NormalizeEmail(email))
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg interface{}) (*userDomain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, r.dialect.Rebind(q), arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, userDomain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*userDomain.User, error) {
	b := sqldb.NewBuilder(r.dialect, userColumns)
	q, err := b.Select(userSelect, "users", opts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*userDomain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	b := sqldb.NewBuilder(r.dialect, userColumns)
	q, err := b.Count("users", where)
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

func scanUser(s scanner) (*userDomain.User, error) {
	var (
		u    userDomain.User
		role string
	)
	if err := s.Scan(&u.ID, &u.Nickname, &u.Email, &u.PasswordHash, &role, &u.FollowerCount, &u.FolloweeCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = userDomain.Role(role)
	return &u, nil
}

// ------------------ Inicialización de DB ------------------

func InitSchema(ctx context.Context, db *sql.DB, d sqldb.Dialect) error {
	stmt := `CREATE TABLE IF NOT EXISTS users (
		id ` + d.Serial() + `,
		nickname VARCHAR(20) NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'USER',
		follower_count BIGINT NOT NULL DEFAULT 0,
		followee_count BIGINT NOT NULL DEFAULT 0,
		created_at ` + d.Timestamp() + ` NOT NULL,
		updated_at ` + d.Timestamp() + ` NOT NULL
	)`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("init users schema: %w", err)
	}
	return nil
}

var _ userDomain.UserRepository = (*UserRepo)(nil)
var _ sharedQuery.FieldSet = (*UserRepo)(nil)
