// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"skilltracker-console/internal/console"
	"skilltracker-console/internal/pkg/response"
	"skilltracker-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxWorkspace = "workspace"
	ctxRecord    = "session_record"
)

// CookieConfig describes the workspace cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int
}

type AuthMiddleware struct {
	registry *console.Registry
	signer   *session.CookieSigner
	cookie   CookieConfig
	logger   *zap.Logger
}

func NewAuthMiddleware(registry *console.Registry, signer *session.CookieSigner, cookie CookieConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		registry: registry,
		signer:   signer,
		cookie:   cookie,
		logger:   logger,
	}
}

// Workspace resolves the browser's workspace from the signed cookie, issuing
// a new one when the cookie is missing or forged, and loads the session
// record once so every handler sees a settled auth state.
func (m *AuthMiddleware) Workspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := m.workspaceID(c)
		ws := m.registry.Get(id)

		rec, err := ws.Store.Load(c.Request.Context())
		if err != nil {
			m.logger.Error("failed to load session",
				zap.String("workspace", id),
				zap.Error(err),
			)
			response.Error(c, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}

		c.Set(ctxWorkspace, ws)
		if rec != nil {
			c.Set(ctxRecord, rec)
		}

		c.Next()
	}
}

func (m *AuthMiddleware) workspaceID(c *gin.Context) string {
	if raw, err := c.Cookie(m.cookie.Name); err == nil {
		if id, ok := m.signer.Verify(raw); ok {
			return id
		}
		m.logger.Debug("rejected workspace cookie", zap.String("ip", c.ClientIP()))
	}

	id := session.NewWorkspaceID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, m.signer.Sign(id), m.cookie.MaxAge, "/", "", m.cookie.Secure, true)
	return id
}
