package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/hexablog/internal/chat/application"
	chatMemory "github.com/davicafu/hexablog/internal/chat/infra/outbound/db/memory"
	sharedDomain "github.com/davicafu/hexablog/internal/shared/domain"
	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	sharedMemory "github.com/davicafu/hexablog/internal/shared/infra/platform/db/memory"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	userMemory "github.com/davicafu/hexablog/internal/user/infra/outbound/db/memory"
)

type testEnv struct {
	router  *gin.Engine
	service *application.ChatService
	tokens  *sharedAuth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := userMemory.NewUserRepo(sharedMemory.NewOutbox())
	for _, nick := range []string{"ana", "bea", "carla"} {
		u := userDomain.NewUser(nick, nick+"@example.com", "hash")
		require.NoError(t, users.Create(context.Background(), u, sharedDomain.OutboxEvent{}))
	}
	outbox := sharedMemory.NewOutbox()
	service := application.NewChatService(chatMemory.NewChatRepo(outbox), chatMemory.NewMessageRepo(outbox), users, "http://test", zap.NewNop())
	tokens := sharedAuth.NewTokenManager("secreto", time.Minute, time.Hour)

	r := gin.New()
	noop := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	RegisterChatRoutes(r, NewChatHandler(service), noop, sharedAuth.Require(tokens, sharedAuth.AccessToken))
	return &testEnv{router: r, service: service, tokens: tokens}
}

func (e *testEnv) get(t *testing.T, path string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID > 0 {
		token, err := e.tokens.Sign(userID, "x@example.com", sharedAuth.AccessToken)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestListChatsAndMessages(t *testing.T) {
	// Arrange
	ctx := context.Background()
	env := newTestEnv(t)
	chat, err := env.service.CreateChat(ctx, 1, []int64{2})
	require.NoError(t, err)
	for _, text := range []string{"hola", "qué tal"} {
		_, err := env.service.SendMessage(ctx, 2, chat.ID, text)
		require.NoError(t, err)
	}

	// Act
	chats := env.get(t, "/chats", 1)
	messages := env.get(t, "/chats/1/messages?order__id=DESC", 2)

	// Assert
	require.Equal(t, http.StatusOK, chats.Code)
	assert.Contains(t, chats.Body.String(), `"userIds":[1,2]`)

	require.Equal(t, http.StatusOK, messages.Code)
	var body struct {
		Data []struct {
			Message string `json:"message"`
		} `json:"data"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(messages.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "qué tal", body.Data[0].Message)
}

func TestChatRoutes_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.service.CreateChat(context.Background(), 1, []int64{2})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		userID int64
		status int
	}{
		{"sin token", "/chats", 0, http.StatusUnauthorized},
		{"no miembro", "/chats/1/messages", 3, http.StatusForbidden},
		{"chat inexistente", "/chats/9/messages", 1, http.StatusNotFound},
		{"id no numérico", "/chats/abc/messages", 1, http.StatusBadRequest},
		{"filtro no permitido", "/chats?where__secret=1", 1, http.StatusBadRequest},
		{"gateway protegido", "/chats/ws", 0, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.get(t, tt.path, tt.userID)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
