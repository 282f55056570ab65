package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"incubator/internal/model"
	"incubator/internal/service"
)

// AuthHandler handles account endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ActivateRequest carries the code received by mail.
type ActivateRequest struct {
	ActivationCode string `json:"activation_code" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" query:"email" validate:"required"`
	Password string `json:"password" query:"password" validate:"required"`
}

// EmailResponse is returned by register, activate and the session check.
type EmailResponse struct {
	Email string `json:"email"`
}

// LoginResponse represents an authentication response.
type LoginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Description Stores an inactive account and mails an activation code.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} EmailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /v1/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	email, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EmailResponse{Email: email})
}

// Activate godoc
// @Summary Activate an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Activation code"
// @Success 200 {object} EmailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/activate [put]
func (h *AuthHandler) Activate(c echo.Context) error {
	var req ActivateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	email, err := h.authService.Activate(c.Request().Context(), req.ActivationCode)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, EmailResponse{Email: email})
}

// Login godoc
// @Summary Login user
// @Description Credentials are read from the JSON body (or query string) and a session token is returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	email, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Email: email, Token: token})
}

// Cookie godoc
// @Summary Check a session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} EmailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/cookie [get]
func (h *AuthHandler) Cookie(c echo.Context, user *model.User) error {
	return c.JSON(http.StatusOK, EmailResponse{Email: user.Email})
}

// Dashboard godoc
// @Summary Dashboard data for the logged in user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} EmailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /v1/dashboard [get]
func (h *AuthHandler) Dashboard(c echo.Context, user *model.User) error {
	return c.JSON(http.StatusOK, EmailResponse{Email: user.Email})
}
