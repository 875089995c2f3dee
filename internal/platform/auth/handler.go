package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Handler exposes the auth HTTP endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth routes on the given group. These routes
// are public; everything else sits behind the JWT middleware.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/signup", h.SignUp)
	g.POST("/auth/signin", h.SignIn)
	g.POST("/auth/password-reset", h.RequestPasswordReset)
	g.POST("/auth/password-reset/confirm", h.ResetPassword)
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("signup failed")
		return echo.NewHTTPError(http.StatusBadRequest, UserMessage(err))
	}
	return c.JSON(http.StatusCreated, session)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, UserMessage(err))
	}
	return c.JSON(http.StatusOK, session)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset always answers 200 so callers cannot probe which
// emails have accounts.
func (h *Handler) RequestPasswordReset(c echo.Context) error {
	var req passwordResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		log.Error().Err(err).Msg("password reset request failed")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Se o e-mail estiver cadastrado, enviaremos um link de redefinição.",
	})
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, UserMessage(err))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Senha redefinida com sucesso."})
}
