package sqldb

import (
	"testing"

	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = Columns{
	"id":        Int("id"),
	"title":     Text("title"),
	"likeCount": Int("like_count"),
	"createdAt": Time("created_at"),
	"published": Boolean("published"),
}

func TestBuilder_WherePostgres(t *testing.T) {
	// Arrange
	b := NewBuilder(Postgres, testColumns)
	where := []sharedDomain.Criterion{
		{Field: "likeCount", Op: sharedDomain.OpGt, Value: int64(3)},
		{Field: "title", Op: sharedDomain.OpILike, Value: "%go%"},
		{Field: "id", Op: sharedDomain.OpBetween, Value: [2]interface{}{int64(1), int64(9)}},
		{Field: "id", Op: sharedDomain.OpIn, Value: []interface{}{int64(4), int64(5)}},
	}

	// Act
	sql, err := b.Where(where)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, " WHERE like_count > $1 AND title ILIKE $2 AND id BETWEEN $3 AND $4 AND id IN ($5, $6)", sql)
	assert.Equal(t, []interface{}{int64(3), "%go%", int64(1), int64(9), int64(4), int64(5)}, b.Args())
}

func TestBuilder_SQLiteILike(t *testing.T) {
	b := NewBuilder(SQLite, testColumns)

	sql, err := b.Where([]sharedDomain.Criterion{{Field: "title", Op: sharedDomain.OpILike, Value: "%Go%"}})

	require.NoError(t, err)
	assert.Equal(t, " WHERE LOWER(title) LIKE LOWER(?)", sql)
}

func TestBuilder_BindsByColumnKind(t *testing.T) {
	// Arrange
	b := NewBuilder(Postgres, testColumns)
	where := []sharedDomain.Criterion{
		{Field: "title", Op: sharedDomain.OpEq, Value: int64(123)},
		{Field: "title", Op: sharedDomain.OpIn, Value: []interface{}{int64(7), "siete"}},
		{Field: "likeCount", Op: sharedDomain.OpGte, Value: "4"},
		{Field: "createdAt", Op: sharedDomain.OpGt, Value: "2024-01-01"},
		{Field: "published", Op: sharedDomain.OpEq, Value: "true"},
	}

	// Act
	sql, err := b.Where(where)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, " WHERE title = $1 AND title IN ($2, $3) AND like_count >= $4 AND created_at > $5 AND published = $6", sql)
	assert.Equal(t, []interface{}{"123", "7", "siete", int64(4), "2024-01-01", true}, b.Args())
}

func TestBuilder_RejectsValuesOfTheWrongKind(t *testing.T) {
	cases := map[string]sharedDomain.Criterion{
		"texto en entero":  {Field: "likeCount", Op: sharedDomain.OpEq, Value: "muchos"},
		"between mezclado": {Field: "id", Op: sharedDomain.OpBetween, Value: [2]interface{}{int64(1), "z"}},
		"like en entero":   {Field: "id", Op: sharedDomain.OpLike, Value: "1%"},
		"fecha inválida":   {Field: "createdAt", Op: sharedDomain.OpLt, Value: "ayer"},
		"booleano raro":    {Field: "published", Op: sharedDomain.OpEq, Value: "quizá"},
	}
	for name, c := range cases {
		_, err := NewBuilder(SQLite, testColumns).Where([]sharedDomain.Criterion{c})
		assert.ErrorIs(t, err, query.ErrInvalidFilterKey, name)
	}
}

func TestBuilder_RejectsUnknownFields(t *testing.T) {
	b := NewBuilder(SQLite, testColumns)

	_, err := b.Where([]sharedDomain.Criterion{sharedDomain.FieldEquals("password; DROP TABLE posts", 1)})
	assert.ErrorIs(t, err, query.ErrInvalidFilterKey)

	_, err = b.OrderBy([]query.Sort{{Field: "password"}})
	assert.ErrorIs(t, err, query.ErrInvalidSortKey)

	_, err = b.Where([]sharedDomain.Criterion{{Field: "id", Op: "; --", Value: 1}})
	assert.ErrorIs(t, err, query.ErrInvalidFilterKey)
}

func TestBuilder_SelectAndLimit(t *testing.T) {
	skip := 20
	b := NewBuilder(Postgres, testColumns)

	sql, err := b.Select("id, title", "posts", query.FindOptions{
		Where: []sharedDomain.Criterion{sharedDomain.FieldEquals("id", int64(1))},
		Order: []query.Sort{{Field: "likeCount", Desc: true}, {Field: "id"}},
		Take:  10,
		Skip:  &skip,
	})

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, title FROM posts WHERE id = $1 ORDER BY like_count DESC, id ASC LIMIT 10 OFFSET 20", sql)

	assert.Equal(t, " LIMIT -1 OFFSET 20", NewBuilder(SQLite, testColumns).Limit(0, &skip))
	assert.Equal(t, " OFFSET 20", NewBuilder(Postgres, testColumns).Limit(0, &skip))
	assert.Equal(t, "", NewBuilder(Postgres, testColumns).Limit(0, nil))
}

func TestDialect_Rebind(t *testing.T) {
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2", Postgres.Rebind("UPDATE t SET a = ? WHERE id = ?"))
	assert.Equal(t, "UPDATE t SET a = ? WHERE id = ?", SQLite.Rebind("UPDATE t SET a = ? WHERE id = ?"))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("SQLite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}
