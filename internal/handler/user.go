package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// PendingRedirect exposes a scheduled forced redirect.
type PendingRedirect interface {
	Pending() string
}

// UserHandler handles sign-in, sign-up, sign-out and the current session.
type UserHandler struct {
	authService *service.AuthService
	sessions    service.SessionReader
	nav         PendingRedirect
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *service.AuthService, sessions service.SessionReader, nav PendingRedirect) *UserHandler {
	return &UserHandler{authService: authService, sessions: sessions, nav: nav}
}

// LoginRequest is the HTTP request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the HTTP request body for signing up.
type RegisterRequest struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}

// SessionResponse is the HTTP response describing who is signed in.
type SessionResponse struct {
	Session         domain.Session `json:"session"`
	PendingRedirect string         `json:"pending_redirect,omitempty"`
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	identity, err := h.authService.Login(c.Request.Context(), repository.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"user": identity})
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Role != "" && req.Role != domain.RolePassenger && req.Role != domain.RoleDriver {
		badRequest(c, "role must be passenger or driver")
		return
	}

	identity, err := h.authService.Register(c.Request.Context(), repository.Registration{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{"user": identity})
}

// Logout handles POST /api/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session handles GET /api/session
func (h *UserHandler) Session(c *gin.Context) {
	respondJSON(c, http.StatusOK, SessionResponse{
		Session:         h.sessions.State(),
		PendingRedirect: h.nav.Pending(),
	})
}
