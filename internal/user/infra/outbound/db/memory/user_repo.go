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

// UserRepo guarda usuarios en memoria con índices únicos por email y nickname.
type UserRepo struct {
	mu         sync.Mutex
	users      *sharedMemory.Collection[*userDomain.User]
	byEmail    map[string]int64
	byNickname map[string]int64
	outbox     *sharedMemory.Outbox
}

func NewUserRepo(outbox *sharedMemory.Outbox) *UserRepo {
	return &UserRepo{
		users:      sharedMemory.NewCollection[*userDomain.User](userDomain.Fields...),
		byEmail:    make(map[string]int64),
		byNickname: make(map[string]int64),
		outbox:     outbox,
	}
}

func (r *UserRepo) HasField(field string) bool {
	return r.users.HasField(field)
}

func (r *UserRepo) Create(ctx context.Context, u *userDomain.User, evt sharedDomain.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return userDomain.ErrUserAlreadyExists
	}
	if _, ok := r.byNickname[u.Nickname]; ok {
		return userDomain.ErrUserAlreadyExists
	}

	u.ID = r.users.NextID()
	r.byEmail[u.Email] = u.ID
	r.byNickname[u.Nickname] = u.ID
	cp := *u
	r.users.Put(&cp)

	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(u.ID, 10)
	}
	if payload, ok := evt.Payload.(*userDomain.UserRegisteredPayload); ok {
		payload.ID = u.ID
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*userDomain.User, error) {
	u, ok := r.users.Get(id)
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[userDomain.NormalizeEmail(email)]
	r.mu.Unlock()
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*userDomain.User, error) {
	found, err := r.users.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*userDomain.User, len(found))
	for i, u := range found {
		cp := *u
		out[i] = &cp
	}
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.users.Count(ctx, where)
}

// AdjustFollowCounts suma delta a followerCount del seguido y followeeCount del seguidor.
func (r *UserRepo) AdjustFollowCounts(ctx context.Context, followerID, followeeID int64, delta int64) error {
	ok := r.users.Modify(followeeID, func(u *userDomain.User) *userDomain.User {
		cp := *u
		cp.FollowerCount += delta
		return &cp
	})
	if !ok {
		return userDomain.ErrUserNotFound
	}
	r.users.Modify(followerID, func(u *userDomain.User) *userDomain.User {
		cp := *u
		cp.FolloweeCount += delta
		return &cp
	})
	return nil
}

var _ userDomain.UserRepository = (*UserRepo)(nil)
