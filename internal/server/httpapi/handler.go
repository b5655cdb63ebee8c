package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
	"github.com/gin-gonic/gin"
)

// AuthService is what the handlers need from services.AuthService.
type AuthService interface {
	Signup(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error)
	Me(ctx context.Context, accessToken string) (*models.RemoteUser, error)
}

type Handler struct {
	auth AuthService
}

func NewHandler(a AuthService) *Handler {
	return &Handler{auth: a}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/auth")
	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
	g.POST("/refresh", h.refresh)
	g.GET("/me", h.me)
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), models.Credentials{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.FullName,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(res))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(res))
}

func (h *Handler) me(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: "Missing or invalid token"})
		return
	}

	u, err := h.auth.Me(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*u))
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, fmt.Errorf("%w: invalid request body", common.ErrValidation))
		return false
	}
	return true
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
