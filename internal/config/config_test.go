package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "APP_ENV", "API_BASE_URL", "SESSION_BACKEND", "REDIS_ADDR", "REDIS_PASS",
		"SESSION_COOKIE_NAME", "SESSION_SECRET", "SESSION_TTL", "SESSION_COOKIE_SECURE",
		"WORKSPACE_CACHE_SIZE", "EMPLOYEE_PAGE_SIZE", "MANAGER_PICKER_SIZE", "DATABASE_URL",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.HTTPAddr != ":3000" || cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("addr/base = %q %q", cfg.HTTPAddr, cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendRedis || cfg.SessionCookieName != "skilltracker_ws" {
		t.Errorf("backend/cookie = %q %q", cfg.SessionBackend, cfg.SessionCookieName)
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.SessionCookieSecure {
		t.Errorf("ttl/secure = %v %v", cfg.SessionTTL, cfg.SessionCookieSecure)
	}
	if cfg.WorkspaceCacheSize != 1024 || cfg.EmployeePageSize != 5 || cfg.ManagerPickerSize != 1000 {
		t.Errorf("sizes = %d %d %d", cfg.WorkspaceCacheSize, cfg.EmployeePageSize, cfg.ManagerPickerSize)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.IsDevelopment() {
		t.Error("default env should be production")
	}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET is required") {
		t.Errorf("Validate() = %v, want missing secret", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	t.Setenv("SESSION_BACKEND", "MEMORY")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_COOKIE_SECURE", "TRUE")
	t.Setenv("EMPLOYEE_PAGE_SIZE", "20")
	t.Setenv("MANAGER_PICKER_SIZE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	if !cfg.IsDevelopment() || cfg.SessionBackend != BackendMemory {
		t.Errorf("env/backend = %q %q", cfg.AppEnv, cfg.SessionBackend)
	}
	if cfg.SessionTTL != 90*time.Minute || !cfg.SessionCookieSecure {
		t.Errorf("ttl/secure = %v %v", cfg.SessionTTL, cfg.SessionCookieSecure)
	}
	if cfg.EmployeePageSize != 20 || cfg.ManagerPickerSize != 1000 {
		t.Errorf("sizes = %d %d", cfg.EmployeePageSize, cfg.ManagerPickerSize)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := AppConfig{
		APIBaseURL:         "http://api:8080/api",
		SessionBackend:     BackendRedis,
		RedisAddr:          "redis:6379",
		SessionCookieName:  "ws",
		SessionSecret:      "0123456789abcdef",
		SessionTTL:         time.Hour,
		WorkspaceCacheSize: 1,
		EmployeePageSize:   1,
		ManagerPickerSize:  1,
	}

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"short secret", func(c *AppConfig) { c.SessionSecret = "short" }, "at least 16"},
		{"relative base url", func(c *AppConfig) { c.APIBaseURL = "/api" }, "API_BASE_URL"},
		{"unknown backend", func(c *AppConfig) { c.SessionBackend = "etcd" }, "SESSION_BACKEND"},
		{"redis without addr", func(c *AppConfig) { c.RedisAddr = "" }, "REDIS_ADDR"},
		{"memory without addr", func(c *AppConfig) { c.SessionBackend = BackendMemory; c.RedisAddr = "" }, ""},
		{"zero page size", func(c *AppConfig) { c.EmployeePageSize = 0 }, "EMPLOYEE_PAGE_SIZE"},
		{"zero ttl", func(c *AppConfig) { c.SessionTTL = 0 }, "SESSION_TTL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
