// internal/middleware/gate.go
package middleware

import (
	"net/http"
	"strings"

	"skilltracker-console/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

type Action int

const (
	Render Action = iota
	Redirect
	NotFound
)

// Decision is the outcome of a navigation check.
type Decision struct {
	Action   Action
	Location string
}

// consoleSurfaces are the path prefixes served behind the gate.
var consoleSurfaces = []string{
	"/dashboard",
	"/employees",
	"/admin/skills",
	"/admin/departments",
	"/admin/audit",
	"/register",
	"/logout",
	"/me",
}

// Decide maps auth state and requested path onto render, redirect or not
// found. It has no side effects.
func Decide(authenticated bool, path string) Decision {
	if path == LoginPath {
		if authenticated {
			return Decision{Action: Redirect, Location: LandingPath}
		}
		return Decision{Action: Render}
	}
	if !authenticated {
		return Decision{Action: Redirect, Location: LoginPath}
	}
	if path == "/" || path == "" {
		return Decision{Action: Redirect, Location: LandingPath}
	}
	if isConsoleSurface(path) {
		return Decision{Action: Render}
	}
	return Decision{Action: NotFound}
}

func isConsoleSurface(path string) bool {
	for _, prefix := range consoleSurfaces {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// AccessGate applies Decide to every console request. Browser navigations
// (GET) are redirected; other methods get a 401 carrying the redirect target.
// Must run after AuthMiddleware.Workspace.
func AccessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := Decide(IsAuthenticated(c), c.Request.URL.Path)
		switch d.Action {
		case Redirect:
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				c.Redirect(http.StatusFound, d.Location)
				c.Abort()
				return
			}
			if d.Location == LoginPath {
				response.Error(c, http.StatusUnauthorized, "authentication required", nil, gin.H{"redirect": d.Location})
				return
			}
			response.Error(c, http.StatusConflict, "already authenticated", nil, gin.H{"redirect": d.Location})
		case NotFound:
			response.NotFound(c, "page not found")
		default:
			c.Next()
		}
	}
}

// Capabilities are the admin-only controls a view may show.
type Capabilities struct {
	ManageSkills      bool `json:"manageSkills"`
	ManageDepartments bool `json:"manageDepartments"`
	RegisterUsers     bool `json:"registerUsers"`
	EditProfiles      bool `json:"editProfiles"`
	AssignSkills      bool `json:"assignSkills"`
}

// CapabilitiesFor hides every admin control from non-admins. The remote API
// authorizes the underlying writes on its own.
func CapabilitiesFor(isAdmin bool) Capabilities {
	return Capabilities{
		ManageSkills:      isAdmin,
		ManageDepartments: isAdmin,
		RegisterUsers:     isAdmin,
		EditProfiles:      isAdmin,
		AssignSkills:      isAdmin,
	}
}

// CurrentCapabilities reads the admin flag from the request's session.
func CurrentCapabilities(c *gin.Context) Capabilities {
	return CapabilitiesFor(IsAdmin(c))
}
