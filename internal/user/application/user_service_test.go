package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	"github.com/davicafu/hexablog/internal/user/infra/outbound/crypto"
	userMemory "github.com/davicafu/hexablog/internal/user/infra/outbound/db/memory"
)

func newTestService() (*UserService, *sharedMemory.Outbox, *sharedAuth.TokenManager) {
	outbox := sharedMemory.NewOutbox()
	tokens := sharedAuth.NewTokenManager("secreto", 5*time.Minute, time.Hour)
	service := NewUserService(
		userMemory.NewUserRepo(outbox),
		crypto.NewBcryptHasher(bcrypt.MinCost),
		tokens,
		"http://localhost:3000",
		zap.NewNop(),
	)
	return service, outbox, tokens
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	service, outbox, tokens := newTestService()

	// Act
	pair, err := service.Register(context.Background(), "ana@example.com", "ana", "1234")

	// Assert
	require.NoError(t, err)
	claims, err := tokens.Validate(pair.AccessToken)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, int64(1), id)
	assert.Equal(t, sharedAuth.AccessToken, claims.Type)

	events, _ := outbox.FetchPendingOutbox(context.Background(), 10)
	require.Len(t, events, 1)
	assert.Equal(t, userDomain.UserRegistered, events[0].EventType)
	payload := events[0].Payload.(map[string]interface{})
	assert.Equal(t, float64(1), payload["id"])
	assert.NotContains(t, payload, "password")
}

func TestRegister_Duplicates(t *testing.T) {
	service, _, _ := newTestService()
	_, err := service.Register(context.Background(), "ana@example.com", "ana", "1234")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "ANA@example.com", "otra", "1234")
	assert.ErrorIs(t, err, userDomain.ErrUserAlreadyExists, "email repetido")

	_, err = service.Register(context.Background(), "otra@example.com", "ana", "1234")
	assert.ErrorIs(t, err, userDomain.ErrUserAlreadyExists, "nickname repetido")
}

func TestRegister_Invalid(t *testing.T) {
	service, outbox, _ := newTestService()

	_, err := service.Register(context.Background(), "ana@example.com", "ana", "123456789")

	assert.ErrorIs(t, err, userDomain.ErrInvalidUser)
	events, _ := outbox.FetchPendingOutbox(context.Background(), 10)
	assert.Empty(t, events)
}

func TestLogin(t *testing.T) {
	service, _, tokens := newTestService()
	_, err := service.Register(context.Background(), "ana@example.com", "ana", "1234")
	require.NoError(t, err)

	t.Run("credenciales correctas", func(t *testing.T) {
		pair, err := service.Login(context.Background(), "Ana@Example.com", "1234")
		require.NoError(t, err)
		claims, err := tokens.Validate(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, sharedAuth.RefreshToken, claims.Type)
	})

	t.Run("contraseña incorrecta", func(t *testing.T) {
		_, err := service.Login(context.Background(), "ana@example.com", "9999")
		assert.ErrorIs(t, err, userDomain.ErrInvalidCredentials)
	})

	t.Run("email desconocido", func(t *testing.T) {
		_, err := service.Login(context.Background(), "nadie@example.com", "1234")
		assert.ErrorIs(t, err, userDomain.ErrInvalidCredentials)
	})
}

func TestRotateToken(t *testing.T) {
	service, _, _ := newTestService()
	pair, err := service.Register(context.Background(), "ana@example.com", "ana", "1234")
	require.NoError(t, err)

	access, err := service.RotateToken(pair.RefreshToken, sharedAuth.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = service.RotateToken(pair.AccessToken, sharedAuth.RefreshToken)
	assert.ErrorIs(t, err, sharedAuth.ErrWrongTokenType)
}

func TestPaginateUsers(t *testing.T) {
	service, _, _ := newTestService()
	for _, nick := range []string{"ana", "bea", "carla"} {
		_, err := service.Register(context.Background(), nick+"@example.com", nick, "1234")
		require.NoError(t, err)
	}

	res, err := service.PaginateUsers(context.Background(), sharedQuery.Request{"where__nickname__like": "%a", "order__nickname": "DESC", "page": "1"})
	require.NoError(t, err)
	require.Equal(t, 3, res.Page.Total)
	assert.Equal(t, "carla", res.Page.Data[0].Nickname)

	_, err = service.PaginateUsers(context.Background(), sharedQuery.Request{"where__passwordHash": "x"})
	assert.ErrorIs(t, err, sharedQuery.ErrInvalidFilterKey)
}
