package memory

import (
	"context"
	"strconv"
	"sync"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
)

// FollowCounter es la parte del repo de usuarios que necesitan los seguimientos.
type FollowCounter interface {
	GetByID(ctx context.Context, id int64) (*userDomain.User, error)
	AdjustFollowCounts(ctx context.Context, followerID, followeeID int64, delta int64) error
}

type followPair struct{ follower, followee int64 }

type FollowRepo struct {
	mu      sync.Mutex
	follows *sharedMemory.Collection[*userDomain.Follow]
	byPair  map[followPair]int64
	users   FollowCounter
	outbox  *sharedMemory.Outbox
}

func NewFollowRepo(users FollowCounter, outbox *sharedMemory.Outbox) *FollowRepo {
	return &FollowRepo{
		follows: sharedMemory.NewCollection[*userDomain.Follow](userDomain.FollowFields...),
		byPair:  make(map[followPair]int64),
		users:   users,
		outbox:  outbox,
	}
}

func (r *FollowRepo) HasField(field string) bool {
	return r.follows.HasField(field)
}

func (r *FollowRepo) Create(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range []int64{f.FollowerID, f.FolloweeID} {
		if _, err := r.users.GetByID(ctx, id); err != nil {
			return err
		}
	}
	pair := followPair{f.FollowerID, f.FolloweeID}
	if _, ok := r.byPair[pair]; ok {
		return userDomain.ErrAlreadyFollowing
	}

	f.ID = r.follows.NextID()
	r.byPair[pair] = f.ID
	r.follows.Put(cloneFollow(f))

	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(f.ID, 10)
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *FollowRepo) Get(ctx context.Context, followerID, followeeID int64) (*userDomain.Follow, error) {
	r.mu.Lock()
	id, ok := r.byPair[followPair{followerID, followeeID}]
	r.mu.Unlock()
	if !ok {
		return nil, userDomain.ErrFollowNotFound
	}
	f, ok := r.follows.Get(id)
	if !ok {
		return nil, userDomain.ErrFollowNotFound
	}
	return r.withFollower(ctx, f), nil
}

func (r *FollowRepo) Confirm(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.follows.Get(f.ID)
	if !ok || current.IsConfirmed {
		return userDomain.ErrFollowNotFound
	}
	if err := r.users.AdjustFollowCounts(ctx, current.FollowerID, current.FolloweeID, 1); err != nil {
		return err
	}
	r.follows.Modify(f.ID, func(current *userDomain.Follow) *userDomain.Follow {
		updated := cloneFollow(current)
		updated.IsConfirmed = true
		updated.UpdatedAt = f.UpdatedAt
		return updated
	})
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *FollowRepo) Delete(ctx context.Context, f *userDomain.Follow, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.follows.Get(f.ID)
	if !ok || !r.follows.Remove(f.ID) {
		return userDomain.ErrFollowNotFound
	}
	delete(r.byPair, followPair{current.FollowerID, current.FolloweeID})
	if current.IsConfirmed {
		if err := r.users.AdjustFollowCounts(ctx, current.FollowerID, current.FolloweeID, -1); err != nil {
			return err
		}
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *FollowRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*userDomain.Follow, error) {
	found, err := r.follows.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*userDomain.Follow, len(found))
	for i, f := range found {
		out[i] = r.withFollower(ctx, f)
	}
	return out, nil
}

func (r *FollowRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.follows.Count(ctx, where)
}

// withFollower copia el registro y le añade los datos públicos del seguidor.
func (r *FollowRepo) withFollower(ctx context.Context, f *userDomain.Follow) *userDomain.Follow {
	out := cloneFollow(f)
	if u, err := r.users.GetByID(ctx, f.FollowerID); err == nil {
		out.Follower = &userDomain.FollowerInfo{ID: u.ID, Nickname: u.Nickname, Email: u.Email}
	}
	return out
}

func cloneFollow(f *userDomain.Follow) *userDomain.Follow {
	cp := *f
	cp.Follower = nil
	return &cp
}

var _ userDomain.FollowRepository = (*FollowRepo)(nil)
