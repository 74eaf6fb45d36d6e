package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sharedAuth "github.com/davicafu/hexablog/internal/shared/infra/platform/auth"
	"github.com/davicafu/hexablog/internal/shared/infra/web"
	"github.com/davicafu/hexablog/internal/user/application"
	userDomain "github.com/davicafu/hexablog/internal/user/domain"
	"github.com/davicafu/hexablog/pkg/utils"
)

// UserHandler encapsula los endpoints de autenticación y de usuarios.
type UserHandler struct {
	service *application.UserService
	errors  *utils.ErrorMapper
}

func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{
		service: service,
		errors: web.BaseErrorMapper().
			WithDetailedMapping(userDomain.ErrInvalidUser, http.StatusBadRequest, "invalid registration").
			WithMapping(userDomain.ErrUserAlreadyExists, http.StatusConflict, "email or nickname already in use").
			WithMapping(userDomain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password").
			WithMapping(userDomain.ErrUserNotFound, http.StatusNotFound, "user not found"),
	}
}

// ---------------- Auth ----------------

// Register endpoint POST /auth/register/email
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Nickname string `json:"nickname" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	pair, err := h.service.Register(c.Request.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, pair)
}

// Login endpoint POST /auth/login/email con Authorization: Basic base64(email:password)
func (h *UserHandler) Login(c *gin.Context) {
	email, password, err := sharedAuth.ExtractBasicCredentials(c.Request)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}

	pair, err := h.service.Login(c.Request.Context(), email, password)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, pair)
}

// RotateAccessToken endpoint POST /auth/token/access con el refresh token como Bearer
func (h *UserHandler) RotateAccessToken(c *gin.Context) {
	h.rotate(c, sharedAuth.AccessToken, "accessToken")
}

// RotateRefreshToken endpoint POST /auth/token/refresh con el refresh token como Bearer
func (h *UserHandler) RotateRefreshToken(c *gin.Context) {
	h.rotate(c, sharedAuth.RefreshToken, "refreshToken")
}

func (h *UserHandler) rotate(c *gin.Context, typ sharedAuth.TokenType, field string) {
	token, err := h.service.RotateToken(sharedAuth.ExtractBearerToken(c.Request), typ)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, gin.H{field: token})
}

// ---------------- Users ----------------

// ListUsers endpoint GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.service.PaginateUsers(c.Request.Context(), web.PaginationRequest(c))
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, result)
}

// Me endpoint GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := web.CurrentUser(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.SendMappedError(c, h.errors, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, user)
}
