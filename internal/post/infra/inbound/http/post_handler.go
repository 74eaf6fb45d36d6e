package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexablog/internal/post/application"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/web"
	"github.com/davicafu/hexablog/pkg/utils"
)

const dayLayout = "2006-01-02"

// PostHandler encapsula los endpoints HTTP de Post.
type PostHandler struct {
	service *application.PostService
	errors  *utils.ErrorMapper
}

func NewPostHandler(service *application.PostService) *PostHandler {
	return &PostHandler{service: service, errors: NewPostErrorMapper()}
}

// NewPostErrorMapper traduce los errores de Post sobre los comunes.
func NewPostErrorMapper() *utils.ErrorMapper {
	return web.BaseErrorMapper().
		WithMapping(postDomain.ErrPostNotFound, http.StatusNotFound, "post not found").
		WithMapping(postDomain.ErrForbidden, http.StatusForbidden, "only the author can modify this post").
		WithMapping(postDomain.ErrInvalidPost, http.StatusBadRequest, "title and content are required").
		WithDetailedMapping(postDomain.ErrInvalidTrendRange, http.StatusBadRequest, "invalid range").
		WithMapping(application.ErrAnalyticsUnavailable, http.StatusServiceUnavailable, "analytics not available")
}

// ListPosts endpoint GET /posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	result, err := h.service.PaginatePosts(c.Request.Context(), web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}

// GetPost endpoint GET /posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	post, err := h.service.GetPostByID(c.Request.Context(), id)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, post)
}

// CreatePost endpoint POST /posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, post)
}

// GenerateRandomPosts endpoint POST /posts/random
func (h *PostHandler) GenerateRandomPosts(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}

	n, err := h.service.GenerateRandomPosts(c.Request.Context(), userID)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, gin.H{"created": n})
}

// UpdatePost endpoint PATCH /posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	id, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	// Punteros: los campos ausentes no se tocan
	var req struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), userID, id, req.Title, req.Content)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, post)
}

// DeletePost endpoint DELETE /posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	id, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, id); err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDailyTrend endpoint GET /posts/analytics/trend?from=YYYY-MM-DD&to=YYYY-MM-DD
// Sin parámetros devuelve los últimos 7 días.
func (h *PostHandler) GetDailyTrend(c *gin.Context) {
	to := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -7)

	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(dayLayout, v); err != nil {
			utils.SendBadRequest(c, "invalid from, use YYYY-MM-DD")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(dayLayout, v); err != nil {
			utils.SendBadRequest(c, "invalid to, use YYYY-MM-DD")
			return
		}
	}

	trend, err := h.service.GetDailyTrend(c.Request.Context(), from, to)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{"data": trend})
}
