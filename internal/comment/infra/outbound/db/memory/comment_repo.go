package memory

import (
	"context"
	"strconv"

	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

// CommentCounter es la parte del repo de posts que mantiene commentCount.
type CommentCounter interface {
	AdjustCommentCount(ctx context.Context, postID int64, delta int64) error
}

type CommentRepo struct {
	comments *sharedMemory.Collection[*commentDomain.Comment]
	posts    CommentCounter
	outbox   *sharedMemory.Outbox
}

func NewCommentRepo(posts CommentCounter, outbox *sharedMemory.Outbox) *CommentRepo {
	return &CommentRepo{
		comments: sharedMemory.NewCollection[*commentDomain.Comment](commentDomain.Fields...),
		posts:    posts,
		outbox:   outbox,
	}
}

func (r *CommentRepo) HasField(field string) bool {
	return r.comments.HasField(field)
}

// Create falla con ErrPostNotFound antes de guardar nada si el post no existe.
func (r *CommentRepo) Create(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	if err := r.posts.AdjustCommentCount(ctx, c.PostID, 1); err != nil {
		return err
	}
	c.ID = r.comments.NextID()
	if evt.AggregateID == "" {
		evt.AggregateID = strconv.FormatInt(c.ID, 10)
	}
	r.comments.Put(cloneComment(c))
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *CommentRepo) Update(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	ok := r.comments.Modify(c.ID, func(current *commentDomain.Comment) *commentDomain.Comment {
		updated := cloneComment(c)
		updated.PostID = current.PostID
		updated.CreatedAt = current.CreatedAt
		return updated
	})
	if !ok {
		return commentDomain.ErrCommentNotFound
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, c *commentDomain.Comment, evt sharedDomain.OutboxEvent) error {
	if !r.comments.Remove(c.ID) {
		return commentDomain.ErrCommentNotFound
	}
	if err := r.posts.AdjustCommentCount(ctx, c.PostID, -1); err != nil {
		return err
	}
	r.outbox.Append(sharedMemory.Snapshot(evt))
	return nil
}

// RemoveByPost es la cascada al borrar un post.
func (r *CommentRepo) RemoveByPost(postID int64) {
	_, _ = r.comments.RemoveWhere([]sharedDomain.Criterion{sharedDomain.FieldEquals("postId", postID)})
}

func (r *CommentRepo) GetByID(ctx context.Context, id int64) (*commentDomain.Comment, error) {
	c, ok := r.comments.Get(id)
	if !ok {
		return nil, commentDomain.ErrCommentNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepo) Find(ctx context.Context, opts sharedQuery.FindOptions) ([]*commentDomain.Comment, error) {
	found, err := r.comments.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*commentDomain.Comment, len(found))
	for i, c := range found {
		out[i] = cloneComment(c)
	}
	return out, nil
}

func (r *CommentRepo) Count(ctx context.Context, where []sharedDomain.Criterion) (int, error) {
	return r.comments.Count(ctx, where)
}

func cloneComment(c *commentDomain.Comment) *commentDomain.Comment {
	cp := *c
	return &cp
}

var _ commentDomain.CommentRepository = (*CommentRepo)(nil)
