// Package secrets hashes share tokens into argon2id PHC strings.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrEmptySecret       = errors.New("empty secret")
	ErrUnsupportedFormat = errors.New("unsupported hash format")
	ErrMalformedHash     = errors.New("malformed phc string")
)

// Params are the argon2id cost settings encoded into every hash.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   int
}

// DefaultParams are cheap enough to verify on every share resolution.
var DefaultParams = Params{Time: 2, MemoryKiB: 16 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func HashSecret(secret, pepper string) (string, error) {
	return HashWith(DefaultParams, secret, pepper)
}

func HashWith(p Params, secret, pepper string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(secret+pepper), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifySecret recomputes the hash with the parameters stored in phc.
func VerifySecret(secret, pepper, phc string) (bool, error) {
	p, salt, want, err := parsePHC(phc)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(secret+pepper), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parsePHC(phc string) (Params, []byte, []byte, error) {
	var p Params
	if !strings.HasPrefix(phc, "$argon2id$") {
		return p, nil, nil, ErrUnsupportedFormat
	}
	parts := strings.Split(phc, "$")
	if len(parts) != 6 {
		return p, nil, nil, ErrMalformedHash
	}
	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	p.Threads = uint8(threads)
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	return p, salt, key, nil
}
