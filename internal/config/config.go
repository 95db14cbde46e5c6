package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr string
	AppEnv   string

	// Remote API
	APIBaseURL string

	// Session
	SessionBackend      string
	RedisAddr           string
	RedisPass           string
	SessionCookieName   string
	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	// Views
	WorkspaceCacheSize int
	EmployeePageSize   int
	ManagerPickerSize  int

	// Audit
	DatabaseURL string

	CORSAllowedOrigins []string
}

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Load loads environment variables into AppConfig. Malformed numbers and
// durations fall back to their defaults; Validate reports what is missing.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":3000"),
		AppEnv:   getEnv("APP_ENV", "production"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080/api"),

		SessionBackend:      strings.ToLower(getEnv("SESSION_BACKEND", BackendRedis)),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:           getEnv("REDIS_PASS", ""),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "skilltracker_ws"),
		SessionSecret:       getEnv("SESSION_SECRET", ""),
		SessionTTL:          getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionCookieSecure: strings.ToLower(getEnv("SESSION_COOKIE_SECURE", "false")) == "true",

		WorkspaceCacheSize: getEnvInt("WORKSPACE_CACHE_SIZE", 1024),
		EmployeePageSize:   getEnvInt("EMPLOYEE_PAGE_SIZE", 5),
		ManagerPickerSize:  getEnvInt("MANAGER_PICKER_SIZE", 1000),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// IsDevelopment reports whether APP_ENV selects development logging and gin debug mode.
func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Validate reports every missing or invalid value at once.
func (c AppConfig) Validate() error {
	var errs []error

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	} else if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL))
	}

	switch c.SessionBackend {
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendRedis, BackendMemory, c.SessionBackend))
	}

	if c.SessionCookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME must not be empty"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.WorkspaceCacheSize <= 0 {
		errs = append(errs, errors.New("WORKSPACE_CACHE_SIZE must be positive"))
	}
	if c.EmployeePageSize <= 0 {
		errs = append(errs, errors.New("EMPLOYEE_PAGE_SIZE must be positive"))
	}
	if c.ManagerPickerSize <= 0 {
		errs = append(errs, errors.New("MANAGER_PICKER_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}
