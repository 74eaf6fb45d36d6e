package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/hexablog/internal/shared/infra/web"
	"github.com/davicafu/hexablog/internal/user/application"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	"github.com/davicafu/hexablog/pkg/utils"
)

// FollowHandler expone las solicitudes de seguimiento del usuario autenticado.
type FollowHandler struct {
	service *application.FollowService
	errors  *utils.ErrorMapper
}

func NewFollowHandler(service *application.FollowService) *FollowHandler {
	return &FollowHandler{
		service: service,
		errors: web.BaseErrorMapper().
			WithMapping(userDomain.ErrInvalidFollow, http.StatusBadRequest, "cannot follow yourself").
			WithMapping(userDomain.ErrAlreadyFollowing, http.StatusConflict, "follow request already exists").
			WithMapping(userDomain.ErrFollowNotFound, http.StatusNotFound, "follow request not found").
			WithMapping(userDomain.ErrUserNotFound, http.StatusNotFound, "user not found"),
	}
}

// ListMyFollowers endpoint GET /users/follow/me?includeNotConfirmed=true
func (h *FollowHandler) ListMyFollowers(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}

	include := false
	if v := c.Query("includeNotConfirmed"); v != "" {
		var err error
		if include, err = strconv.ParseBool(v); err != nil {
			utils.SendBadRequest(c, "includeNotConfirmed must be a boolean")
			return
		}
	}

	result, err := h.service.PaginateFollowers(c.Request.Context(), userID, include, web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}

// Follow endpoint POST /users/follow/:id (id del usuario a seguir)
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	followeeID, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	follow, err := h.service.Follow(c.Request.Context(), userID, followeeID)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, follow)
}

// ConfirmFollow endpoint PATCH /users/follow/:id/confirm (id del seguidor)
func (h *FollowHandler) ConfirmFollow(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	followerID, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	follow, err := h.service.Confirm(c.Request.Context(), followerID, userID)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, follow)
}

// Unfollow endpoint DELETE /users/follow/:id (id del usuario seguido)
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}
	followeeID, err := web.ParamID(c, "id")
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), userID, followeeID); err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	c.Status(http.StatusNoContent)
}
