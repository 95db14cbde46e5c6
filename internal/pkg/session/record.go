package session

import (
	"strings"
	"time"
)

// Role is the account role reported by the remote API at login.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole normalises a role string. Unknown values are kept as-is and are
// never treated as admin.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleEmployee):
		return RoleEmployee
	default:
		return Role(strings.TrimSpace(s))
	}
}

// Record is the authenticated subject of one workspace. It is replaced
// wholesale on login and removed on logout; role and employee id never change
// while the record lives.
type Record struct {
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	EmployeeID  *int64    `json:"employeeId,omitempty"`
	AccessToken string    `json:"accessToken"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IsAdmin reports whether the record carries the ADMIN role.
func (r *Record) IsAdmin() bool {
	return r != nil && r.Role == RoleAdmin
}

// Expired reports whether the record carries an expiry that is not after now.
func (r *Record) Expired(now time.Time) bool {
	return r != nil && !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// HasCredential reports whether the record can authorize outbound calls.
func (r *Record) HasCredential() bool {
	return r != nil && r.AccessToken != ""
}

// Equal compares two records field by field.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if (r.EmployeeID == nil) != (o.EmployeeID == nil) {
		return false
	}
	if r.EmployeeID != nil && *r.EmployeeID != *o.EmployeeID {
		return false
	}
	return r.Email == o.Email &&
		r.Role == o.Role &&
		r.AccessToken == o.AccessToken &&
		r.IssuedAt.Equal(o.IssuedAt) &&
		r.ExpiresAt.Equal(o.ExpiresAt)
}

// valid rejects records that decoded but cannot represent a login.
func (r *Record) valid() bool {
	return r != nil && r.AccessToken != "" && r.Role != ""
}

// UserInfo is the record as shown to the browser, without the credential.
type UserInfo struct {
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

// Info strips the credential from the record.
func (r *Record) Info() *UserInfo {
	if r == nil {
		return nil
	}
	return &UserInfo{Email: r.Email, Role: r.Role, EmployeeID: r.EmployeeID}
}
