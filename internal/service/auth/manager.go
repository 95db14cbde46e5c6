// internal/service/auth/manager.go
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"skilltracker-console/internal/domain/audit"
	domain "skilltracker-console/internal/domain/auth"
	xerrors "skilltracker-console/internal/pkg/errors"
	"skilltracker-console/internal/pkg/jwt"
	"skilltracker-console/internal/pkg/session"

	"go.uber.org/zap"
)

const (
	msgLoginFailed        = "Failed to log in. Please check your credentials."
	msgRegistrationFailed = "Registration failed. The email might already be in use."
	msgRegistered         = "User registered successfully!"
	msgTooManyAttempts    = "Too many login attempts. Please try again in 15 minutes."
	msgTokenExpired       = "The server issued an expired session. Please log in again."
)

var errNoToken = errors.New("login response carries no access token")

// Remote is the authentication surface of the remote API.
type Remote interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (string, error)
}

// LoginLimiter throttles login attempts per client and email.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// SessionNotifier is told when a workspace logs in or out.
type SessionNotifier interface {
	SessionChanged(workspaceID string, authenticated bool)
}

// State is the auth state derived from the stored record. It is recomputed
// on every call and never cached.
type State struct {
	Authenticated bool              `json:"isAuthenticated"`
	Admin         bool              `json:"isAdmin"`
	User          *session.UserInfo `json:"user,omitempty"`
}

// StateOf derives the auth flags from a record (nil means logged out).
func StateOf(rec *session.Record) State {
	return State{
		Authenticated: rec != nil,
		Admin:         rec.IsAdmin(),
		User:          rec.Info(),
	}
}

// Manager runs login, logout and registration for one workspace.
type Manager struct {
	remote    Remote
	store     session.Store
	limiter   LoginLimiter
	audit     audit.Recorder
	notifier  SessionNotifier
	workspace string
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewManager wires a manager. limiter, recorder and notifier may be nil.
func NewManager(
	workspace string,
	remote Remote,
	store session.Store,
	limiter LoginLimiter,
	recorder audit.Recorder,
	notifier SessionNotifier,
	ttl time.Duration,
	logger *zap.Logger,
) *Manager {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		remote:    remote,
		store:     store,
		limiter:   limiter,
		audit:     recorder,
		notifier:  notifier,
		workspace: workspace,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

// ========== Login ==========

// Login authenticates against the remote API and replaces the stored record.
// clientIP keys the attempt limiter.
func (m *Manager) Login(ctx context.Context, req domain.LoginRequest, clientIP string) (*session.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, xerrors.WithMessage(xerrors.ErrValidation, "Please enter your email and password.", err)
	}
	email := strings.TrimSpace(req.Email)
	req.Email = email

	if m.limiter != nil {
		allowed, _, err := m.limiter.CheckLoginAttempt(ctx, clientIP, email)
		if err != nil {
			return nil, xerrors.Wrap(err, "rate limiter error")
		}
		if !allowed {
			m.logger.Warn("login rate limited", zap.String("email", email), zap.String("ip", clientIP))
			return nil, xerrors.WithMessage(xerrors.ErrRateLimited, msgTooManyAttempts, nil)
		}
	}

	resp, err := m.remote.Login(ctx, req)
	if err != nil {
		m.logger.Info("login rejected",
			zap.String("email", email),
			zap.String("workspace", m.workspace),
			zap.Error(err),
		)
		kind := xerrors.ErrAuthentication
		if xerrors.Classify(err) == xerrors.ErrNetwork {
			kind = xerrors.ErrNetwork
		}
		return nil, xerrors.WithMessage(kind, xerrors.UserMessage(err, msgLoginFailed), err)
	}
	if resp == nil || strings.TrimSpace(resp.AccessToken) == "" {
		return nil, xerrors.WithMessage(xerrors.ErrAuthentication, msgLoginFailed, errNoToken)
	}

	rec := m.recordFrom(resp, email)
	if err := m.store.Save(ctx, rec); err != nil {
		if errors.Is(err, session.ErrExpired) {
			m.logger.Warn("login returned an expired token", zap.String("workspace", m.workspace), zap.Time("expires_at", rec.ExpiresAt))
			return nil, xerrors.WithMessage(xerrors.ErrAuthentication, msgTokenExpired, err)
		}
		m.logger.Error("failed to persist session", zap.String("workspace", m.workspace), zap.Error(err))
		return nil, xerrors.WithMessage(xerrors.ErrInternal, msgLoginFailed, err)
	}

	if m.limiter != nil {
		if err := m.limiter.ResetLoginAttempts(ctx, clientIP, email); err != nil {
			m.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	m.logger.Info("user logged in",
		zap.String("email", rec.Email),
		zap.String("role", string(rec.Role)),
		zap.String("workspace", m.workspace),
	)
	m.record(ctx, rec.Email, audit.ActionLogin, rec.Email)
	m.notify(true)

	return rec, nil
}

// recordFrom builds the session record. Missing role or employee id fall
// back to the token claims; the lifetime comes from iat/exp or the TTL.
func (m *Manager) recordFrom(resp *domain.LoginResponse, email string) *session.Record {
	token := strings.TrimSpace(resp.AccessToken)
	issuedAt, expiresAt := jwt.Lifetime(token, m.now(), m.ttl)

	rec := &session.Record{
		Email:       resp.Email,
		Role:        session.ParseRole(resp.Role),
		EmployeeID:  resp.EmployeeID,
		AccessToken: token,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}
	if rec.Email == "" {
		rec.Email = email
	}

	if rec.Role == "" || rec.EmployeeID == nil {
		if info, err := jwt.Inspect(token); err == nil {
			if rec.Role == "" {
				rec.Role = session.ParseRole(info.Role)
			}
			if rec.EmployeeID == nil {
				rec.EmployeeID = info.EmployeeID
			}
		}
	}
	if rec.Role == "" {
		rec.Role = session.RoleEmployee
	}
	return rec
}

// ========== Logout ==========

// Logout clears the stored record. No remote call is made.
func (m *Manager) Logout(ctx context.Context) error {
	rec, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to read session before logout", zap.Error(err))
	}

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear session", zap.String("workspace", m.workspace), zap.Error(err))
		return xerrors.WithMessage(xerrors.ErrInternal, "Failed to log out.", err)
	}

	if rec != nil {
		m.logger.Info("user logged out", zap.String("email", rec.Email), zap.String("workspace", m.workspace))
		m.record(ctx, rec.Email, audit.ActionLogout, rec.Email)
	}
	m.notify(false)
	return nil
}

// ========== Registration ==========

// Register creates an account on the remote API. The current session is
// left untouched so an admin stays logged in.
func (m *Manager) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", xerrors.WithMessage(xerrors.ErrValidation, "Please fill in name, email and password.", err)
	}
	req = req.Normalized()

	confirmation, err := m.remote.Register(ctx, req)
	if err != nil {
		m.logger.Info("registration rejected", zap.String("email", req.Email), zap.Error(err))
		kind := xerrors.ErrRegistration
		if xerrors.Classify(err) == xerrors.ErrNetwork {
			kind = xerrors.ErrNetwork
		}
		return "", xerrors.WithMessage(kind, xerrors.UserMessage(err, msgRegistrationFailed), err)
	}

	confirmation = strings.TrimSpace(confirmation)
	if confirmation == "" {
		confirmation = msgRegistered
	}

	actor := ""
	if rec, err := m.store.Load(ctx); err == nil && rec != nil {
		actor = rec.Email
	}
	m.record(ctx, actor, audit.ActionRegister, req.Email)

	return confirmation, nil
}

// ========== State ==========

// State reads the store and derives the auth flags.
func (m *Manager) State(ctx context.Context) (State, error) {
	rec, err := m.store.Load(ctx)
	if err != nil {
		return State{}, xerrors.Wrap(err, "load session")
	}
	return StateOf(rec), nil
}

func (m *Manager) record(ctx context.Context, actor, action, target string) {
	entry := &audit.Entry{
		Actor:      actor,
		Action:     action,
		Target:     target,
		Workspace:  m.workspace,
		OccurredAt: m.now().UTC(),
	}
	if err := m.audit.Record(ctx, entry); err != nil {
		m.logger.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}

func (m *Manager) notify(authenticated bool) {
	if m.notifier != nil {
		m.notifier.SessionChanged(m.workspace, authenticated)
	}
}
