package handler

import (
	"net/http"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	responder
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger, exposeErrors bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		responder:   responder{logger: logger, exposeErrors: exposeErrors},
	}
}

// Register godoc
// @Summary Register an account
// @Description Create the user account that owns agents and leads
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account details"
// @Success 201 {object} domain.AuthResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req, "Please provide name, email and password") {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.AuthResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req, "Please provide email and password") {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context())
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.UserResponse{Success: true, User: *user})
}
