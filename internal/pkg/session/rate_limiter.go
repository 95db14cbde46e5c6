// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt checks if login attempt is allowed
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error) {
	key := loginKey(ip, email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, loginAttemptWindow)
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	return r.client.Del(ctx, loginKey(ip, email)).Err()
}

func loginKey(ip, email string) string {
	return fmt.Sprintf("console:ratelimit:login:%s:%s", ip, email)
}
