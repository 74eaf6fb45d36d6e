package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errNotFound = errors.New("post not found")
	errBadKey   = errors.New("invalid filter key")
)

func testMapper() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(errNotFound, http.StatusNotFound, "post not found").
		WithDetailedMapping(errBadKey, http.StatusBadRequest, "invalid query")
}

func TestErrorMapper_Map(t *testing.T) {
	m := testMapper()

	assert.Equal(t, http.StatusNotFound, m.Map(fmt.Errorf("repo: %w", errNotFound)).Status)
	assert.Equal(t, http.StatusGatewayTimeout, m.Map(context.DeadlineExceeded).Status)
	assert.Equal(t, http.StatusInternalServerError, m.Map(errors.New("boom")).Status)
	assert.Equal(t, http.StatusOK, m.Map(nil).Status)
}

func TestSendMappedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendMappedError(c, testMapper(), fmt.Errorf("%w: unknown operator %q", errBadKey, "bogus"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, `invalid query: invalid filter key: unknown operator "bogus"`, body.Error.Message)
	assert.True(t, c.IsAborted())
}

func TestSendMappedError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendMappedError(c, testMapper(), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
