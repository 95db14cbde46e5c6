package session

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/blake2b"
)

// NewWorkspaceID returns a fresh, lexically sortable workspace id.
func NewWorkspaceID() string {
	return ulid.Make().String()
}

// CookieSigner authenticates workspace ids carried in the browser cookie so a
// client cannot pick another workspace by guessing its id.
type CookieSigner struct {
	key []byte
}

// NewCookieSigner keys a BLAKE2b-256 MAC with secret. Secrets longer than the
// 64-byte BLAKE2b key limit are hashed down first.
func NewCookieSigner(secret string) *CookieSigner {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &CookieSigner{key: key}
}

// Sign returns "<id>.<mac>".
func (s *CookieSigner) Sign(workspaceID string) string {
	return workspaceID + "." + base64.RawURLEncoding.EncodeToString(s.mac(workspaceID))
}

// Verify returns the workspace id of a signed value.
func (s *CookieSigner) Verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	if subtle.ConstantTimeCompare(got, s.mac(id)) != 1 {
		return "", false
	}
	return id, true
}

func (s *CookieSigner) mac(id string) []byte {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// only reachable with a key over 64 bytes, which NewCookieSigner prevents
		panic(err)
	}
	h.Write([]byte(id))
	return h.Sum(nil)
}
