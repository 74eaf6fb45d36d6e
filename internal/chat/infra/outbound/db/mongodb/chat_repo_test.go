package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	chatDomain "github.com/davicafu/hexablog/internal/chat/domain"
)

func TestFieldsCoverDomain(t *testing.T) {
	for _, f := range chatDomain.ChatFields {
		assert.True(t, chatFields.HasField(f), f)
	}
	for _, f := range chatDomain.MessageFields {
		assert.True(t, messageFields.HasField(f), f)
	}
}

func TestMessageMapping(t *testing.T) {
	now := time.Now().UTC()
	m := &chatDomain.Message{ID: 7, ChatID: 2, AuthorID: 3, Message: "hola", CreatedAt: now, UpdatedAt: now}

	assert.Equal(t, m, fromMongoMessage(toMongoMessage(m)))
}
