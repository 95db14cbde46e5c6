package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"skilltracker-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		authenticated bool
		path          string
		want          Decision
	}{
		{"login while authenticated", true, "/login", Decision{Action: Redirect, Location: "/dashboard"}},
		{"login while anonymous", false, "/login", Decision{Action: Render}},
		{"dashboard while anonymous", false, "/dashboard", Decision{Action: Redirect, Location: "/login"}},
		{"detail while anonymous", false, "/employees/4", Decision{Action: Redirect, Location: "/login"}},
		{"unknown while anonymous", false, "/nowhere", Decision{Action: Redirect, Location: "/login"}},
		{"root while authenticated", true, "/", Decision{Action: Redirect, Location: "/dashboard"}},
		{"dashboard", true, "/dashboard", Decision{Action: Render}},
		{"detail", true, "/employees/4", Decision{Action: Render}},
		{"admin skills", true, "/admin/skills/3", Decision{Action: Render}},
		{"register", true, "/register", Decision{Action: Render}},
		{"prefix lookalike", true, "/dashboards", Decision{Action: NotFound}},
		{"unknown", true, "/nowhere", Decision{Action: NotFound}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Decide(tt.authenticated, tt.path); got != tt.want {
				t.Fatalf("Decide(%v, %q) = %+v, want %+v", tt.authenticated, tt.path, got, tt.want)
			}
		})
	}
}

func newGateRouter(rec *session.Record) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if rec != nil {
			c.Set(ctxRecord, rec)
		}
		c.Next()
	}, AccessGate())
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login form") })
	r.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	r.POST("/admin/skills", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
	return r
}

func TestAccessGate_LoginWhileAuthenticated(t *testing.T) {
	t.Parallel()

	r := newGateRouter(&session.Record{Email: "a@x.com", Role: session.RoleAdmin, AccessToken: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if w.Body.String() == "login form" {
		t.Fatal("login form must not render")
	}
}

func TestAccessGate_Anonymous(t *testing.T) {
	t.Parallel()

	r := newGateRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/skills", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous write, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	if w.Code != http.StatusOK || w.Body.String() != "login form" {
		t.Fatalf("expected login form, got %d %q", w.Code, w.Body.String())
	}
}

func TestCapabilitiesFor(t *testing.T) {
	t.Parallel()

	if c := CapabilitiesFor(false); c != (Capabilities{}) {
		t.Fatalf("non-admin must see no admin controls, got %+v", c)
	}
	c := CapabilitiesFor(true)
	if !c.ManageSkills || !c.ManageDepartments || !c.RegisterUsers || !c.EditProfiles || !c.AssignSkills {
		t.Fatalf("admin must see every control, got %+v", c)
	}
}
