package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexablog/pkg/utils"
)

const (
	ctxUserID = "auth.userID"
	ctxClaims = "auth.claims"
)

// Require valida el token del tipo indicado y deja el usuario en el contexto de gin.
func Require(m *TokenManager, typ TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.Validate(ExtractToken(c.Request, "token"))
		if err == nil && claims.Type != typ {
			err = ErrWrongTokenType
		}
		if err != nil {
			utils.SendUnauthorized(c, unauthorizedMessage(err))
			return
		}

		userID, _ := claims.UserID()
		c.Set(ctxUserID, userID)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// UserID devuelve el usuario autenticado por Require.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// ClaimsFrom devuelve los claims validados por Require.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing token"
	case errors.Is(err, ErrWrongTokenType):
		return "wrong token type"
	default:
		return "token expired or invalid"
	}
}
