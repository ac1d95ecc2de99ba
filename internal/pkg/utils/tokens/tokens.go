package tokens

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// RandomBytes is the entropy of a share token before encoding.
const RandomBytes = 32

// New returns prefix + base64url(32 random bytes). The value carries no project data.
func New(prefix string) (string, error) {
	b := make([]byte, RandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// Parse strips prefix, rejecting tokens that lack it or carry nothing after it.
func Parse(raw, prefix string) (secret string, ok bool) {
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	secret = strings.TrimPrefix(raw, prefix)
	return secret, secret != ""
}

// Hint is the last four characters, safe to show back to the owner.
func Hint(raw string) string {
	if len(raw) <= 4 {
		return raw
	}
	return raw[len(raw)-4:]
}

func HMAC256Hex(pepper, secret string) string {
	m := hmac.New(sha256.New, []byte(pepper))
	m.Write([]byte(secret))
	return hex.EncodeToString(m.Sum(nil)) // 64 hex chars
}
