package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"skilltracker-console/internal/console"
	"skilltracker-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newWorkspaceRouter(t *testing.T, backend session.Backend) (*gin.Engine, *session.CookieSigner) {
	t.Helper()

	base, _ := url.Parse("http://127.0.0.1:1/api")
	registry, err := console.NewRegistry(8, console.Options{BaseURL: base, Sessions: backend})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	signer := session.NewCookieSigner("test-secret")
	m := NewAuthMiddleware(registry, signer, CookieConfig{Name: "ws"}, zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Workspace())
	r.GET("/whoami", func(c *gin.Context) {
		ws := MustGetWorkspace(c)
		c.JSON(http.StatusOK, gin.H{"workspace": ws.ID, "authenticated": IsAuthenticated(c), "admin": IsAdmin(c)})
	})
	return r, signer
}

func TestWorkspace_IssuesAndReusesCookie(t *testing.T) {
	t.Parallel()

	backend := session.NewMemoryBackend()
	r, signer := newWorkspaceRouter(t, backend)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ws" || !cookies[0].HttpOnly {
		t.Fatalf("expected an http-only workspace cookie, got %+v", cookies)
	}
	id, ok := signer.Verify(cookies[0].Value)
	if !ok {
		t.Fatalf("issued cookie does not verify: %q", cookies[0].Value)
	}

	_ = backend.Scope(id).Save(context.Background(), &session.Record{Email: "a@x.com", Role: session.RoleAdmin, AccessToken: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("a valid cookie must not be reissued")
	}
	want := `{"admin":true,"authenticated":true,"workspace":"` + id + `"}`
	if w.Body.String() != want {
		t.Fatalf("got %s, want %s", w.Body.String(), want)
	}
}

func TestWorkspace_RejectsForgedCookie(t *testing.T) {
	t.Parallel()

	backend := session.NewMemoryBackend()
	r, _ := newWorkspaceRouter(t, backend)

	victim := session.NewWorkspaceID()
	_ = backend.Scope(victim).Save(context.Background(), &session.Record{Email: "a@x.com", Role: session.RoleAdmin, AccessToken: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "ws", Value: victim + ".bm90LWEtbWFj"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if len(w.Result().Cookies()) != 1 {
		t.Fatal("forged cookie must be replaced")
	}
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), victim) {
		t.Fatalf("forged cookie must not reach the victim's workspace: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Fatalf("expected a fresh anonymous workspace, got %s", w.Body.String())
	}
}
