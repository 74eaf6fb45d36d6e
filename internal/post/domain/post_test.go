package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	p, err := NewPost(1, "  Hola ", "mundo")
	require.NoError(t, err)
	assert.Equal(t, "Hola", p.Title)
	assert.Zero(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	_, err = NewPost(0, "t", "c")
	assert.ErrorIs(t, err, ErrInvalidPost)
	_, err = NewPost(1, " ", "c")
	assert.ErrorIs(t, err, ErrInvalidPost)
}

func TestPost_Update(t *testing.T) {
	p, _ := NewPost(1, "a", "b")
	title := "nuevo"

	require.NoError(t, p.Update(&title, nil))
	assert.Equal(t, "nuevo", p.Title)
	assert.Equal(t, "b", p.Content)

	empty := ""
	assert.ErrorIs(t, p.Update(nil, &empty), ErrInvalidPost)
}

func TestPost_FieldValueCoversEveryField(t *testing.T) {
	p, _ := NewPost(1, "a", "b")
	for _, f := range Fields {
		_, ok := p.FieldValue(f)
		assert.True(t, ok, f)
	}
	_, ok := p.FieldValue("password")
	assert.False(t, ok)
}
