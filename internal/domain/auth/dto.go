// internal/domain/auth/dto.go
package auth

import (
	"errors"
	"strings"
)

var (
	ErrCredentialsRequired  = errors.New("email and password are required")
	ErrRegistrationRequired = errors.New("name, email and password are required")
)

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrCredentialsRequired
	}
	return nil
}

// LoginResponse is the remote API's answer to a successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	EmployeeID  *int64 `json:"employeeId,omitempty"`
}

// RegisterRequest for POST /auth/register. Role defaults to EMPLOYEE.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrRegistrationRequired
	}
	return nil
}

const DefaultRole = "EMPLOYEE"

// Normalized trims fields and fills the default role.
func (r RegisterRequest) Normalized() RegisterRequest {
	out := RegisterRequest{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     strings.ToUpper(strings.TrimSpace(r.Role)),
	}
	if out.Role == "" {
		out.Role = DefaultRole
	}
	return out
}
