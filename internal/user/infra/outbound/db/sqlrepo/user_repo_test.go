package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

func newTestRepo(t *testing.T) (*UserRepo, *sqldb.OutboxRepo) {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqldb.InitOutbox(ctx, db, sqldb.SQLite))
	require.NoError(t, InitSchema(ctx, db, sqldb.SQLite))
	return NewUserRepo(db, sqldb.SQLite), sqldb.NewOutboxRepo(db, sqldb.SQLite)
}

func register(repo *UserRepo, nickname, email string) (*userDomain.User, error) {
	u := userDomain.NewUser(nickname, email, "hash")
	payload := &userDomain.UserRegisteredPayload{Nickname: u.Nickname, Email: u.Email}
	evt := sharedDomain.NewOutboxEvent(userDomain.AggregateType, "", userDomain.UserRegistered, payload)
	return u, repo.Create(context.Background(), u, evt)
}

func TestUserRepo_CreateAndLookup(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo, outbox := newTestRepo(t)

	// Act
	u, err := register(repo, "ana", "Ana@Example.com")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(1), u.ID)

	byEmail, err := repo.GetByEmail(ctx, " ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.Equal(t, userDomain.RoleUser, byEmail.Role)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)

	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "1", pending[0].AggregateID)
	payload := pending[0].Payload.(map[string]interface{})
	assert.Equal(t, float64(1), payload["id"])
	assert.NotContains(t, payload, "passwordHash")
}

func TestUserRepo_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo, outbox := newTestRepo(t)
	_, err := register(repo, "ana", "ana@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		nickname string
		email    string
	}{
		{"email repetido", "otra", "ana@example.com"},
		{"nickname repetido", "ana", "otra@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := register(repo, tt.nickname, tt.email)
			assert.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
		})
	}

	// La transacción fallida no deja eventos huérfanos
	pending, err := outbox.FetchPendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestUserRepo_FindAndCount(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	for _, nick := range []string{"ana", "bea", "carla"} {
		_, err := register(repo, nick, nick+"@example.com")
		require.NoError(t, err)
	}

	where := []sharedDomain.Criterion{{Field: "nickname", Op: sharedDomain.OpILike, Value: "%A"}}
	users, err := repo.Find(ctx, sharedQuery.FindOptions{
		Where: where,
		Order: []sharedQuery.Sort{{Field: "id", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carla", users[0].Nickname)

	n, err := repo.Count(ctx, []sharedDomain.Criterion{{Field: "id", Op: sharedDomain.OpGt, Value: int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.False(t, repo.HasField("passwordHash"))
}
