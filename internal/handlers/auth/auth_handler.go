// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"skilltracker-console/internal/domain/auth"
	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"
	authUsecase "skilltracker-console/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgLoginFailed    = "Failed to log in. Please check your credentials."
	msgRegisterFailed = "Registration failed. The email might already be in use."
	msgLogoutFailed   = "Failed to log out."
)

// Workspaces drops the in-memory views of a workspace once it logs out.
type Workspaces interface {
	Forget(id string)
}

type AuthHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

func NewAuthHandler(workspaces Workspaces, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{workspaces: workspaces, logger: logger}
}

// ========== Login ==========

// LoginPage renders the login surface. The access gate sends
// authenticated users to the dashboard before this runs.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "login", gin.H{
		"view":  "login",
		"roles": []string{"EMPLOYEE", "ADMIN"},
	})
}

// Login exchanges credentials for a session record in the caller's workspace
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	rec, err := ws.Auth.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("workspace", ws.ID),
			zap.String("email", req.Email),
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.FromError(c, err, msgLoginFailed)
		return
	}

	h.logger.Info("user logged in",
		zap.String("workspace", ws.ID),
		zap.String("email", rec.Email),
		zap.String("role", string(rec.Role)),
	)

	response.Success(c, http.StatusOK, "login successful", gin.H{
		"redirect":     middleware.LandingPath,
		"user":         rec.Info(),
		"capabilities": middleware.CapabilitiesFor(rec.IsAdmin()),
	})
}

// ========== Logout ==========

// Logout clears the workspace's session record. It never fails on the
// remote side because no remote call is made.
func (h *AuthHandler) Logout(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	if err := ws.Auth.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout failed", zap.String("workspace", ws.ID), zap.Error(err))
		response.FromError(c, err, msgLogoutFailed)
		return
	}
	h.workspaces.Forget(ws.ID)

	response.Success(c, http.StatusOK, "logout successful", gin.H{
		"redirect": middleware.LoginPath,
	})
}

// ========== Registration ==========

// RegisterPage renders the registration surface
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "register", gin.H{
		"view":         "register",
		"defaultRole":  auth.DefaultRole,
		"roles":        []string{"EMPLOYEE", "ADMIN"},
		"capabilities": middleware.CurrentCapabilities(c),
	})
}

// Register creates a user through the remote API. The caller's own session
// is left untouched.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	confirmation, err := ws.Auth.Register(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("registration failed",
			zap.String("workspace", ws.ID),
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.FromError(c, err, msgRegisterFailed)
		return
	}

	response.Success(c, http.StatusCreated, confirmation, nil)
}

// ========== Current session ==========

// Me returns the auth state derived from the session record, without the
// access token.
func (h *AuthHandler) Me(c *gin.Context) {
	rec := middleware.GetRecord(c)
	response.Success(c, http.StatusOK, "current session", gin.H{
		"auth":         authUsecase.StateOf(rec),
		"capabilities": middleware.CapabilitiesFor(rec.IsAdmin()),
	})
}
