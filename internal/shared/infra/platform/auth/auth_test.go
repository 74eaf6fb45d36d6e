package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("secreto", 5*time.Minute, time.Hour)
}

func TestTokenManager_SignAndValidate(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(42, "ana@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(pair.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, AccessToken, claims.Type)

	claims, err = m.Validate(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.Type)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	m := newTestManager()
	token, err := m.Sign(1, "a@b.c", AccessToken)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("otro", time.Minute, time.Minute)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestTokenManager_Rotate(t *testing.T) {
	m := newTestManager()
	pair, err := m.IssuePair(7, "x@y.z")
	require.NoError(t, err)

	access, err := m.Rotate(pair.RefreshToken, AccessToken)
	require.NoError(t, err)
	claims, err := m.Validate(access)
	require.NoError(t, err)
	assert.Equal(t, AccessToken, claims.Type)

	_, err = m.Rotate(pair.AccessToken, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExtractBasicCredentials(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/auth/login/email", nil)
	r.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("ana@example.com:1234")))

	email, password, err := ExtractBasicCredentials(r)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
	assert.Equal(t, "1234", password)

	r.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("sin-separador")))
	_, _, err = ExtractBasicCredentials(r)
	assert.ErrorIs(t, err, ErrInvalidBasicAuth)

	r.Header.Set("Authorization", "Bearer abc")
	_, _, err = ExtractBasicCredentials(r)
	assert.ErrorIs(t, err, ErrInvalidBasicAuth)
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/chats/ws?token=desde-query", nil)
	assert.Equal(t, "desde-query", ExtractToken(r, ""))

	r.Header.Set("Authorization", "bearer desde-cabecera")
	assert.Equal(t, "desde-cabecera", ExtractToken(r, ""))
}

func TestRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager()
	pair, err := m.IssuePair(9, "m@n.o")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Require(m, AccessToken), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	cases := map[string]struct {
		header string
		want   int
	}{
		"access token":  {"Bearer " + pair.AccessToken, http.StatusOK},
		"refresh token": {"Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		"no token":      {"", http.StatusUnauthorized},
		"garbage":       {"Bearer x.y.z", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
