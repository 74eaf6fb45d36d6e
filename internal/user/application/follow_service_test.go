package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	userMemory "github.com/davicafu/hexablog/internal/user/infra/outbound/db/memory"
)

func registeredEvent(u *userDomain.User) sharedDomain.OutboxEvent {
	payload := &userDomain.UserRegisteredPayload{Nickname: u.Nickname, Email: u.Email}
	return sharedDomain.NewOutboxEvent(userDomain.AggregateType, "", userDomain.UserRegistered, payload)
}

type followFixture struct {
	service *FollowService
	users   *userMemory.UserRepo
	outbox  *sharedMemory.Outbox
	ana     *userDomain.User
	bea     *userDomain.User
}

func newFollowFixture(t *testing.T) followFixture {
	t.Helper()
	outbox := sharedMemory.NewOutbox()
	users := userMemory.NewUserRepo(outbox)
	f := followFixture{
		service: NewFollowService(users, userMemory.NewFollowRepo(users, outbox), "http://localhost:3000/", zap.NewNop()),
		users:   users,
		outbox:  outbox,
	}
	for _, nick := range []string{"ana", "bea"} {
		u := userDomain.NewUser(nick, nick+"@example.com", "hash")
		require.NoError(t, users.Create(context.Background(), u, registeredEvent(u)))
		if nick == "ana" {
			f.ana = u
		} else {
			f.bea = u
		}
	}
	return f
}

func (f followFixture) counts(t *testing.T, id int64) (followers, followees int64) {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.FollowerCount, u.FolloweeCount
}

func TestFollow_ConfirmThenUnfollow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFollowFixture(t)

	// Act: bea pide seguir a ana y ana confirma
	req, err := f.service.Follow(ctx, f.bea.ID, f.ana.ID)
	require.NoError(t, err)
	assert.False(t, req.IsConfirmed)
	followers, _ := f.counts(t, f.ana.ID)
	assert.Zero(t, followers)

	confirmed, err := f.service.Confirm(ctx, f.bea.ID, f.ana.ID)

	// Assert
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)
	followers, _ = f.counts(t, f.ana.ID)
	_, followees := f.counts(t, f.bea.ID)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, int64(1), followees)

	_, err = f.service.Confirm(ctx, f.bea.ID, f.ana.ID)
	assert.ErrorIs(t, err, userDomain.ErrFollowNotFound)

	// Dejar de seguir descuenta
	require.NoError(t, f.service.Unfollow(ctx, f.bea.ID, f.ana.ID))
	followers, _ = f.counts(t, f.ana.ID)
	_, followees = f.counts(t, f.bea.ID)
	assert.Zero(t, followers)
	assert.Zero(t, followees)
	assert.ErrorIs(t, f.service.Unfollow(ctx, f.bea.ID, f.ana.ID), userDomain.ErrFollowNotFound)

	events, _ := f.outbox.FetchPendingOutbox(ctx, 10)
	var types []string
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.ElementsMatch(t, []string{
		userDomain.UserRegistered, userDomain.UserRegistered,
		userDomain.FollowRequested, userDomain.FollowConfirmed, userDomain.FollowDeleted,
	}, types)
}

func TestFollow_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t)

	_, err := f.service.Follow(ctx, f.ana.ID, f.ana.ID)
	assert.ErrorIs(t, err, userDomain.ErrInvalidFollow)

	_, err = f.service.Follow(ctx, f.ana.ID, 99)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)

	_, err = f.service.Follow(ctx, f.ana.ID, f.bea.ID)
	require.NoError(t, err)
	_, err = f.service.Follow(ctx, f.ana.ID, f.bea.ID)
	assert.ErrorIs(t, err, userDomain.ErrAlreadyFollowing)

	// Solo el seguido confirma: ana no puede confirmar su propia solicitud
	_, err = f.service.Confirm(ctx, f.bea.ID, f.ana.ID)
	assert.ErrorIs(t, err, userDomain.ErrFollowNotFound)
}

func TestPaginateFollowers_IncludeNotConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newFollowFixture(t)
	carla := userDomain.NewUser("carla", "carla@example.com", "hash")
	require.NoError(t, f.users.Create(ctx, carla, registeredEvent(carla)))

	_, err := f.service.Follow(ctx, f.bea.ID, f.ana.ID)
	require.NoError(t, err)
	_, err = f.service.Follow(ctx, carla.ID, f.ana.ID)
	require.NoError(t, err)
	_, err = f.service.Confirm(ctx, f.bea.ID, f.ana.ID)
	require.NoError(t, err)
	// ruido: ana sigue a bea, no es seguidora de ana
	_, err = f.service.Follow(ctx, f.ana.ID, f.bea.ID)
	require.NoError(t, err)

	res, err := f.service.PaginateFollowers(ctx, f.ana.ID, false, sharedQuery.Request{"page": "1"})
	require.NoError(t, err)
	require.Len(t, res.Page.Data, 1)
	assert.Equal(t, "bea", res.Page.Data[0].Follower.Nickname)

	res, err = f.service.PaginateFollowers(ctx, f.ana.ID, true, sharedQuery.Request{"take": "1"})
	require.NoError(t, err)
	require.NotNil(t, res.Cursor)
	require.Len(t, res.Cursor.Data, 1)
	require.NotNil(t, res.Cursor.Next)
	assert.Contains(t, *res.Cursor.Next, "http://localhost:3000/users/follow/me?")
}
