package session

import (
	"strings"
	"testing"
)

func TestCookieSigner(t *testing.T) {
	t.Parallel()

	signer := NewCookieSigner("super-secret")
	id := NewWorkspaceID()
	value := signer.Sign(id)

	t.Run("verifies its own signature", func(t *testing.T) {
		got, ok := signer.Verify(value)
		if !ok || got != id {
			t.Fatalf("Verify(%q) = %q, %v; want %q, true", value, got, ok, id)
		}
	})

	t.Run("rejects tampered values", func(t *testing.T) {
		other := NewWorkspaceID()
		_, sig, _ := strings.Cut(value, ".")
		for _, candidate := range []string{
			"",
			id,
			id + ".",
			other + "." + sig,
			value + "x",
			"not-a-ulid." + sig,
		} {
			if _, ok := signer.Verify(candidate); ok {
				t.Fatalf("Verify(%q) unexpectedly succeeded", candidate)
			}
		}
	})

	t.Run("rejects values signed with another key", func(t *testing.T) {
		foreign := NewCookieSigner("another-secret").Sign(id)
		if _, ok := signer.Verify(foreign); ok {
			t.Fatalf("signature from a different key must not verify")
		}
	})

	t.Run("accepts long secrets", func(t *testing.T) {
		long := NewCookieSigner(strings.Repeat("k", 200))
		if _, ok := long.Verify(long.Sign(id)); !ok {
			t.Fatalf("long secret signer failed to verify its own value")
		}
	})
}
