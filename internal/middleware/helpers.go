// internal/middleware/helpers.go
package middleware

import (
	"skilltracker-console/internal/console"
	"skilltracker-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// GetWorkspace gets the workspace resolved by AuthMiddleware.Workspace
func GetWorkspace(c *gin.Context) (*console.Workspace, bool) {
	v, exists := c.Get(ctxWorkspace)
	if !exists {
		return nil, false
	}
	ws, ok := v.(*console.Workspace)
	return ws, ok
}

// MustGetWorkspace gets the workspace from context or panics
func MustGetWorkspace(c *gin.Context) *console.Workspace {
	ws, ok := GetWorkspace(c)
	if !ok {
		panic("workspace not found in context")
	}
	return ws
}

// GetRecord gets the session record, nil when logged out
func GetRecord(c *gin.Context) *session.Record {
	v, exists := c.Get(ctxRecord)
	if !exists {
		return nil
	}
	rec, _ := v.(*session.Record)
	return rec
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	return GetRecord(c) != nil
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	return GetRecord(c).IsAdmin()
}

// Actor names the logged-in user for the audit trail
func Actor(c *gin.Context) string {
	if rec := GetRecord(c); rec != nil {
		return rec.Email
	}
	return ""
}
