package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	sharedQuery "github.com/davicafu/hexablog/internal/shared/infra/platform/query"
	"github.com/davicafu/hexablog/pkg/utils"
)

var ErrInvalidID = errors.New("invalid id")

// BaseErrorMapper cubre los errores comunes a todos los adapters HTTP.
// Cada dominio añade los suyos con Merge o WithMapping.
func BaseErrorMapper() *utils.ErrorMapper {
	return utils.NewErrorMapper().
		WithDetailedMapping(sharedQuery.ErrInvalidFilterKey, http.StatusBadRequest, "invalid filter key").
		WithDetailedMapping(sharedQuery.ErrInvalidSortKey, http.StatusBadRequest, "invalid sort key").
		WithDetailedMapping(sharedQuery.ErrInvalidPageParam, http.StatusBadRequest, "invalid pagination parameter").
		WithMapping(ErrInvalidID, http.StatusBadRequest, "invalid id").
		WithMapping(sharedAuth.ErrMissingToken, http.StatusUnauthorized, "missing token").
		WithMapping(sharedAuth.ErrInvalidToken, http.StatusUnauthorized, "token expired or invalid").
		WithMapping(sharedAuth.ErrWrongTokenType, http.StatusUnauthorized, "wrong token type").
		WithMapping(sharedAuth.ErrInvalidBasicAuth, http.StatusUnauthorized, "invalid basic credentials")
}

// ParamID lee un parámetro de ruta como id positivo.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PaginationRequest convierte la query string en una petición del motor de paginación.
func PaginationRequest(c *gin.Context) sharedQuery.Request {
	return sharedQuery.RequestFromValues(c.Request.URL.Query())
}

// CurrentUser devuelve el usuario autenticado; si falta responde 401.
func CurrentUser(c *gin.Context) (int64, bool) {
	id, ok := sharedAuth.UserID(c)
	if !ok {
		utils.SendUnauthorized(c, "authentication required")
	}
	return id, ok
}
