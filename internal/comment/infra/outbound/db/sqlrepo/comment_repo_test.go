package sqlrepo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	postSQL "github.com/davicafu/hexablog/internal/post/infra/outbound/db/sqlrepo"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

type testDB struct {
	db       *sql.DB
	posts    *postSQL.PostRepo
	comments *CommentRepo
}

func newTestDB(t *testing.T) *testDB {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqldb.InitOutbox(ctx, db, sqldb.SQLite))
	require.NoError(t, postSQL.InitSchema(ctx, db, sqldb.SQLite))
	require.NoError(t, InitSchema(ctx, db, sqldb.SQLite))
	return &testDB{db: db, posts: postSQL.NewPostRepo(db, sqldb.SQLite), comments: NewCommentRepo(db, sqldb.SQLite)}
}

func (d *testDB) newPost(t *testing.T) *postDomain.Post {
	t.Helper()
	p, err := postDomain.NewPost(1, "post", "contenido")
	require.NoError(t, err)
	require.NoError(t, d.posts.Create(context.Background(), p, sharedDomain.NewOutboxEvent("post", "", postDomain.PostCreated, p)))
	return p
}

func (d *testDB) newComment(t *testing.T, postID int64, text string) *commentDomain.Comment {
	t.Helper()
	c, err := commentDomain.NewComment(postID, 2, text)
	require.NoError(t, err)
	require.NoError(t, d.comments.Create(context.Background(), c, sharedDomain.NewOutboxEvent("comment", "", commentDomain.CommentCreated, c)))
	return c
}

func (d *testDB) commentCount(t *testing.T, postID int64) int64 {
	t.Helper()
	p, err := d.posts.GetByID(context.Background(), postID)
	require.NoError(t, err)
	return p.CommentCount
}

func TestCommentRepo_CountFollowsCreateAndDelete(t *testing.T) {
	// Arrange
	d := newTestDB(t)
	post := d.newPost(t)

	// Act
	first := d.newComment(t, post.ID, "uno")
	d.newComment(t, post.ID, "dos")

	// Assert
	assert.Equal(t, int64(2), d.commentCount(t, post.ID))

	require.NoError(t, d.comments.Delete(context.Background(), first, sharedDomain.NewOutboxEvent("comment", "1", commentDomain.CommentDeleted, nil)))
	assert.Equal(t, int64(1), d.commentCount(t, post.ID))

	err := d.comments.Delete(context.Background(), first, sharedDomain.NewOutboxEvent("comment", "1", commentDomain.CommentDeleted, nil))
	assert.ErrorIs(t, err, commentDomain.ErrCommentNotFound)
	assert.Equal(t, int64(1), d.commentCount(t, post.ID), "un borrado fallido no toca el contador")
}

func TestCommentRepo_CreateOnMissingPostRollsBack(t *testing.T) {
	d := newTestDB(t)

	c, err := commentDomain.NewComment(77, 2, "huérfano")
	require.NoError(t, err)
	err = d.comments.Create(context.Background(), c, sharedDomain.NewOutboxEvent("comment", "", commentDomain.CommentCreated, c))

	assert.ErrorIs(t, err, postDomain.ErrPostNotFound)
	n, err := d.comments.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	pending, err := sqldb.NewOutboxRepo(d.db, sqldb.SQLite).FetchPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCommentRepo_PostDeleteCascades(t *testing.T) {
	d := newTestDB(t)
	post := d.newPost(t)
	c := d.newComment(t, post.ID, "uno")

	require.NoError(t, d.posts.DeleteByID(context.Background(), post.ID, sharedDomain.NewOutboxEvent("post", "1", postDomain.PostDeleted, nil)))

	_, err := d.comments.GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, commentDomain.ErrCommentNotFound)
}

func TestCommentRepo_UpdateAndScopedPagination(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	a, b := d.newPost(t), d.newPost(t)
	c := d.newComment(t, a.ID, "a1")
	d.newComment(t, b.ID, "b1")
	d.newComment(t, a.ID, "a2")

	require.NoError(t, c.Update("a1 editado"))
	require.NoError(t, d.comments.Update(ctx, c, sharedDomain.NewOutboxEvent("comment", "1", commentDomain.CommentUpdated, c)))
	got, err := d.comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1 editado", got.Content)

	scoped := sharedQuery.WithScope[*commentDomain.Comment](d.comments, sharedDomain.FieldEquals("postId", a.ID))
	res, err := sharedQuery.Paginate(ctx, sharedQuery.Request{"order__id": "DESC"}, scoped, "http://h/posts/1/comments")
	require.NoError(t, err)
	require.Len(t, res.Cursor.Data, 2)
	assert.Equal(t, "a2", res.Cursor.Data[0].Content)
	assert.Nil(t, res.Cursor.Next)

	_, err = sharedQuery.Paginate(ctx, sharedQuery.Request{"where__content": "x"}, scoped, "http://h")
	assert.ErrorIs(t, err, sharedQuery.ErrInvalidFilterKey, "el campo público es comment, no content")
}
