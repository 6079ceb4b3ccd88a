package rest

import (
	"context"
	"net/http"
	"time"

	"caseAssist/business/auth"
	"caseAssist/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Login(ctx context.Context, username, password string, info auth.ClientInfo) (auth.Token, error)
	Logout(ctx context.Context, userID uint, token string) error
}

type AuthHandler struct {
	authService AuthService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewAuthHandler(authService AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validate,
		timeout:     10 * time.Second,
	}
}

// LoginRequest accepts either a form post or a JSON body.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, err := h.authService.Login(ctx, req.Username, req.Password, auth.ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, token)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "user not authenticated"})
	}
	token, _ := c.Get("token").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.authService.Logout(ctx, userID, token); err != nil {
		logger.Error("Failed to logout", "user_id", userID, "error", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "successfully logged out",
	})
}
