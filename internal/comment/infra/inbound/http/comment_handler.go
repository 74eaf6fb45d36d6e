package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexablog/internal/comment/application"
	commentDomain "github.com/davicafu/hexablog/internal/comment/domain"
	postDomain "github.com/davicafu/hexablog/internal/post/domain"
	"github.com/davicafu/hexablog/internal/shared/infra/web"
	"github.com/davicafu/hexablog/pkg/utils"
)

// CommentHandler encapsula los endpoints HTTP de los comentarios de un post.
type CommentHandler struct {
	service *application.CommentService
	errors  *utils.ErrorMapper
}

func NewCommentHandler(service *application.CommentService) *CommentHandler {
	return &CommentHandler{
		service: service,
		errors: web.BaseErrorMapper().
			WithMapping(postDomain.ErrPostNotFound, http.StatusNotFound, "post not found").
			WithMapping(commentDomain.ErrCommentNotFound, http.StatusNotFound, "comment not found").
			WithMapping(commentDomain.ErrForbidden, http.StatusForbidden, "only the author can modify this comment").
			WithMapping(commentDomain.ErrInvalidComment, http.StatusBadRequest, "comment is required"),
	}
}

type commentBody struct {
	Comment string `json:"comment" binding:"required"`
}

// ids lee :id (post) y, si se pide, :commentId.
func (h *CommentHandler) ids(c *gin.Context, withComment bool) (postID, commentID int64, ok bool) {
	postID, err := web.ParamID(c, "id")
	if err == nil && withComment {
		commentID, err = web.ParamID(c, "commentId")
	}
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return 0, 0, false
	}
	return postID, commentID, true
}

// ListComments endpoint GET /posts/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	result, err := h.service.PaginateComments(c.Request.Context(), postID, web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}

// GetComment endpoint GET /posts/:id/comments/:commentId
func (h *CommentHandler) GetComment(c *gin.Context) {
	postID, commentID, ok := h.ids(c, true)
	if !ok {
		return
	}

	comment, err := h.service.GetComment(c.Request.Context(), postID, commentID)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, comment)
}

// CreateComment endpoint POST /posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	postID, _, ok := h.ids(c, false)
	if !ok {
		return
	}

	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), userID, postID, req.Comment)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, comment)
}

// UpdateComment endpoint PATCH /posts/:id/comments/:commentId
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	postID, commentID, ok := h.ids(c, true)
	if !ok {
		return
	}

	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	comment, err := h.service.UpdateComment(c.Request.Context(), userID, postID, commentID, req.Comment)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment endpoint DELETE /posts/:id/comments/:commentId
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	postID, commentID, ok := h.ids(c, true)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, postID, commentID); err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	c.Status(http.StatusNoContent)
}
