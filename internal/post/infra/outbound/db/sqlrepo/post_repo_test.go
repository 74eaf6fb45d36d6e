package sqlrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/db/sqldb"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
)

func newTestRepo(t *testing.T) (*PostRepo, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqldb.InitOutbox(ctx, db, sqldb.SQLite))
	require.NoError(t, InitSchema(ctx, db, sqldb.SQLite))
	return NewPostRepo(db, sqldb.SQLite), db
}

func createPost(t *testing.T, repo *PostRepo, authorID int64, title string) *postDomain.Post {
	t.Helper()
	p, err := postDomain.NewPost(authorID, title, "contenido de "+title)
	require.NoError(t, err)
	evt := sharedDomain.NewOutboxEvent(postDomain.AggregateType, "", postDomain.PostCreated, p)
	require.NoError(t, repo.Create(context.Background(), p, evt))
	return p
}

func TestPostRepo_CreateAssignsIDAndWritesOutbox(t *testing.T) {
	// Arrange
	repo, db := newTestRepo(t)

	// Act
	first := createPost(t, repo, 1, "uno")
	second := createPost(t, repo, 1, "dos")

	// Assert
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	pending, err := sqldb.NewOutboxRepo(db, sqldb.SQLite).FetchPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].AggregateID)
	assert.Equal(t, float64(1), pending[0].Payload.(map[string]interface{})["id"])
}

func TestPostRepo_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	p := createPost(t, repo, 3, "original")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, int64(3), got.AuthorID)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Millisecond)

	title := "editado"
	require.NoError(t, got.Update(&title, nil))
	require.NoError(t, repo.Update(ctx, got, sharedDomain.NewOutboxEvent("post", "1", postDomain.PostUpdated, got)))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "editado", got.Title)

	require.NoError(t, repo.DeleteByID(ctx, p.ID, sharedDomain.NewOutboxEvent("post", "1", postDomain.PostDeleted, nil)))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, postDomain.ErrPostNotFound)

	err = repo.DeleteByID(ctx, p.ID, sharedDomain.NewOutboxEvent("post", "1", postDomain.PostDeleted, nil))
	assert.ErrorIs(t, err, postDomain.ErrPostNotFound)
	err = repo.Update(ctx, &postDomain.Post{ID: 99, Title: "x", Content: "y"}, sharedDomain.NewOutboxEvent("post", "99", postDomain.PostUpdated, nil))
	assert.ErrorIs(t, err, postDomain.ErrPostNotFound)
}

func TestPostRepo_PaginateCursorAndPage(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	for i := 0; i < 5; i++ {
		createPost(t, repo, int64(1+i%2), "Post")
	}

	t.Run("cursor ascendente", func(t *testing.T) {
		res, err := sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"take": "2", "where__id__more_than": "2"}, repo, "http://h/posts")
		require.NoError(t, err)
		require.NotNil(t, res.Cursor)
		require.Len(t, res.Cursor.Data, 2)
		assert.Equal(t, int64(3), res.Cursor.Data[0].ID)
		assert.Equal(t, int64(4), *res.Cursor.Cursor.After)
		assert.Equal(t, "http://h/posts?take=2&where__id__more_than=4", *res.Cursor.Next)
	})

	t.Run("cursor descendente", func(t *testing.T) {
		res, err := sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"take": "10", "order__id": "DESC"}, repo, "http://h/posts")
		require.NoError(t, err)
		require.Len(t, res.Cursor.Data, 5)
		assert.Equal(t, int64(5), res.Cursor.Data[0].ID)
		assert.Nil(t, res.Cursor.Next)
	})

	t.Run("página con filtro", func(t *testing.T) {
		res, err := sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"page": "2", "take": "2", "where__authorId": "1"}, repo, "http://h/posts")
		require.NoError(t, err)
		require.NotNil(t, res.Page)
		assert.Equal(t, 3, res.Page.Total)
		require.Len(t, res.Page.Data, 1)
		assert.Equal(t, int64(5), res.Page.Data[0].ID)
	})

	t.Run("operadores", func(t *testing.T) {
		cases := map[string]struct {
			req  sharedQuery.Request
			want int
		}{
			"between": {sharedQuery.Request{"page": "1", "where__id__between": "2,4"}, 3},
			"in":      {sharedQuery.Request{"page": "1", "where__id__in": "1,5"}, 2},
			"ilike":   {sharedQuery.Request{"page": "1", "where__title__i_like": "po%"}, 5},
			"not":     {sharedQuery.Request{"page": "1", "where__authorId__not": "1"}, 2},
		}
		for name, tc := range cases {
			res, err := sharedQuery.Paginate[*postDomain.Post](ctx, tc.req, repo, "http://h/posts")
			require.NoError(t, err, name)
			assert.Equal(t, tc.want, res.Page.Total, name)
		}
	})

	t.Run("título numérico se compara como texto", func(t *testing.T) {
		createPost(t, repo, 1, "123")
		res, err := sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"page": "1", "where__title": "123"}, repo, "http://h/posts")
		require.NoError(t, err)
		require.Len(t, res.Page.Data, 1)
		assert.Equal(t, "123", res.Page.Data[0].Title)

		_, err = sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"page": "1", "where__likeCount": "muchos"}, repo, "http://h/posts")
		assert.ErrorIs(t, err, sharedQuery.ErrInvalidFilterKey)
	})

	t.Run("campo fuera de la lista blanca", func(t *testing.T) {
		_, err := sharedQuery.Paginate[*postDomain.Post](ctx, sharedQuery.Request{"order__author_id": "ASC"}, repo, "http://h/posts")
		assert.ErrorIs(t, err, sharedQuery.ErrInvalidSortKey)
	})
}
