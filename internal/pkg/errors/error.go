package xerrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds surfaced to the console. Remote failures are mapped onto these
// by Classify; services wrap them with context using fmt.Errorf("%w").
var (
	ErrNetwork        = errors.New("network error")
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("resource not found")
	ErrAuthorization  = errors.New("insufficient permissions")
	ErrRegistration   = errors.New("registration failed")
	ErrRateLimited    = errors.New("too many requests")
	ErrInternal       = errors.New("internal server error")
)

// ResponseError is a non-2xx answer from the remote API, kept exactly as received.
type ResponseError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// ServerMessage returns the "message" (or "error") field of a JSON body, or a
// short plain-text body verbatim.
func (e *ResponseError) ServerMessage() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return ""
	}

	if strings.HasPrefix(body, "{") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(e.Body, &payload); err != nil {
			return ""
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		return strings.TrimSpace(payload.Error)
	}

	if strings.HasPrefix(body, "<") || len(body) > 300 {
		return ""
	}
	return body
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Classify maps an error onto one of the sentinel kinds above.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range []error{
		ErrNetwork, ErrAuthentication, ErrValidation, ErrNotFound,
		ErrAuthorization, ErrRegistration, ErrRateLimited, ErrInternal,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return ErrNetwork
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		switch respErr.Status {
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return ErrValidation
		case http.StatusUnauthorized:
			return ErrAuthentication
		case http.StatusForbidden:
			return ErrAuthorization
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusTooManyRequests:
			return ErrRateLimited
		}
	}

	return ErrInternal
}

// UserMessage returns a message fit for display: the server-supplied message
// when the remote API sent one, the fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		if msg := respErr.ServerMessage(); msg != "" {
			return msg
		}
	}

	var msgErr *MessageError
	if errors.As(err, &msgErr) && msgErr.Message != "" {
		return msgErr.Message
	}

	return fallback
}

// MessageError carries a display message decided by a service together with
// its kind.
type MessageError struct {
	Kind    error
	Message string
	Err     error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *MessageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WithMessage wraps err as kind with a display message.
func WithMessage(kind error, message string, err error) error {
	return &MessageError{Kind: kind, Message: message, Err: err}
}

// HTTPStatus picks the console response status for an error.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case ErrNetwork:
		return http.StatusBadGateway
	case ErrAuthentication:
		return http.StatusUnauthorized
	case ErrValidation, ErrRegistration:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrAuthorization:
		return http.StatusForbidden
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
