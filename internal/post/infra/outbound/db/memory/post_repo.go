package memory

import (
	"context"
	"strconv"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// PostRepo guarda copias de los posts; nadie fuera del repo comparte punteros con él.
type PostRepo struct {
	posts    *sharedMemory.Collection[*postDomain.Post]
	outbox   *sharedMemory.Outbox
	onDelete []func(postID int64)
}

func NewPostRepo(outbox *sharedMemory.Outbox) *PostRepo {
	return &PostRepo{
		posts:  sharedMemory.NewCollection[*postDomain.Post](postDomain.Fields...),
		outbox: outbox,
	}
}

// OnDelete registra una cascada (ej. borrar los comentarios del post).
func (r *PostRepo) OnDelete(fn func(postID int64)) {
	r.onDelete = append(r.onDelete, fn)
}

func (r *PostRepo) HasField(field string) bool {
	return r.posts.HasField(field)
}

func (r *PostRepo) Create(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	p.ID = r.posts.NextID()
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(p.ID, 10)
	}
	r.posts.Put(clonePost(p))
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *PostRepo) Update(ctx context.Context, p *postDomain.Post, evt sharedDomain.OutboxEvent) error {
	ok := r.posts.Modify(p.ID, func(current *postDomain.Post) *postDomain.Post {
		updated := clonePost(p)
		updated.CommentCount = current.CommentCount
		updated.CreatedAt = current.CreatedAt
		return updated
	})
	if !ok {
		return postDomain.ErrPostNotFound
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *PostRepo) DeleteByID(ctx context.Context, id int64, evt sharedDomain.OutboxEvent) error {
	if !r.posts.Remove(id) {
		return postDomain.ErrPostNotFound
	}
	for _, fn := range r.onDelete {
		fn(id)
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id int64) (*postDomain.Post, error) {
	p, ok := r.posts.Get(id)
	if !ok {
		return nil, postDomain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*postDomain.Post, error) {
	found, err := r.posts.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*postDomain.Post, len(found))
	for i, p := range found {
		out[i] = clonePost(p)
	}
	return out, nil
}

func (r *PostRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.posts.Count(ctx, where)
}

// AdjustCommentCount suma delta al contador de comentarios del post.
func (r *PostRepo) AdjustCommentCount(ctx context.Context, postID int64, delta int64) error {
	ok := r.posts.Modify(postID, func(p *postDomain.Post) *postDomain.Post {
		updated := clonePost(p)
		updated.CommentCount += delta
		return updated
	})
	if !ok {
		return postDomain.ErrPostNotFound
	}
	return nil
}

func clonePost(p *postDomain.Post) *postDomain.Post {
	cp := *p
	return &cp
}

var _ postDomain.PostRepository = (*PostRepo)(nil)
