package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		pepper  string
		wantErr error
	}{
		{name: "token and pepper", secret: "shr_abcdef", pepper: "pepper"},
		{name: "empty pepper allowed", secret: "shr_abcdef"},
		{name: "long token", secret: strings.Repeat("x", 512), pepper: "pepper"},
		{name: "empty token", secret: "", pepper: "pepper", wantErr: ErrEmptySecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phc, err := HashSecret(tt.secret, tt.pepper)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$m=16384,t=2,p=1$"))

			ok, err := VerifySecret(tt.secret, tt.pepper, phc)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestHashSecret_Salted(t *testing.T) {
	a, err := HashSecret("shr_same", "pepper")
	require.NoError(t, err)
	b, err := HashSecret("shr_same", "pepper")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifySecret(t *testing.T) {
	phc, err := HashSecret("shr_token", "pepper")
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		pepper  string
		phc     string
		want    bool
		wantErr error
	}{
		{name: "match", secret: "shr_token", pepper: "pepper", phc: phc, want: true},
		{name: "wrong token", secret: "shr_other", pepper: "pepper", phc: phc},
		{name: "wrong pepper", secret: "shr_token", pepper: "salt", phc: phc},
		{name: "bcrypt hash", secret: "x", phc: "$2a$10$abc", wantErr: ErrUnsupportedFormat},
		{name: "truncated", secret: "x", phc: "$argon2id$v=19$m=1", wantErr: ErrMalformedHash},
		{name: "bad salt", secret: "x", phc: "$argon2id$v=19$m=16384,t=2,p=1$!!$abc", wantErr: ErrMalformedHash},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifySecret(tt.secret, tt.pepper, tt.phc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
