package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

// FollowService gestiona las solicitudes de seguimiento entre usuarios.
type FollowService struct {
	users   userDomain.UserRepository
	follows userDomain.FollowRepository
	baseURL string
	log     *zap.Logger
}

func NewFollowService(users userDomain.UserRepository, follows userDomain.FollowRepository, baseURL string, log *zap.Logger) *FollowService {
	return &FollowService{
		users:   users,
		follows: follows,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Follow crea una solicitud pendiente de followerID hacia followeeID.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) (*userDomain.Follow, error) {
	f, err := userDomain.NewFollow(followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	evt := sharedDomain.NewOutboxEvent(userDomain.FollowAggregateType, "", userDomain.FollowRequested, f)
	if err := s.follows.Create(ctx, f, evt); err != nil {
		if !errors.Is(err, userDomain.ErrAlreadyFollowing) && !errors.Is(err, userDomain.ErrUserNotFound) {
			s.log.Error("Failed to create follow", zap.Int64("follower_id", followerID), zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("Follow requested", zap.Int64("follower_id", followerID), zap.Int64("followee_id", followeeID))
	return f, nil
}

// Confirm acepta la solicitud que followerID envió a followeeID (el usuario actual).
func (s *FollowService) Confirm(ctx context.Context, followerID, followeeID int64) (*userDomain.Follow, error) {
	f, err := s.follows.Get(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if f.IsConfirmed {
		return nil, userDomain.ErrFollowNotFound
	}

	f.IsConfirmed = true
	f.UpdatedAt = time.Now().UTC()
	evt := sharedDomain.NewOutboxEvent(userDomain.FollowAggregateType, "", userDomain.FollowConfirmed, f)
	if err := s.follows.Confirm(ctx, f, evt); err != nil {
		return nil, err
	}
	return f, nil
}

// Unfollow borra la solicitud de followerID (el usuario actual) hacia followeeID,
// esté confirmada o no.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	f, err := s.follows.Get(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	evt := sharedDomain.NewOutboxEvent(userDomain.FollowAggregateType, "", userDomain.FollowDeleted, f)
	return s.follows.Delete(ctx, f, evt)
}

// PaginateFollowers lista quién sigue a userID; las pendientes solo si se piden.
func (s *FollowService) PaginateFollowers(ctx context.Context, userID int64, includeNotConfirmed bool, req sharedQuery.Request) (sharedQuery.Result[*userDomain.Follow], error) {
	scope := []sharedDomain.Criteria{sharedDomain.FieldEquals("followeeId", userID)}
	if !includeNotConfirmed {
		scope = append(scope, sharedDomain.FieldEquals("isConfirmed", true))
	}
	coll := sharedQuery.WithScope[*userDomain.Follow](s.follows, scope...)
	return sharedQuery.Paginate[*userDomain.Follow](ctx, req, coll, s.baseURL+"/users/follow/me")
}
