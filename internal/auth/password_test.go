package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hashed, err := HashPassword("pw1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hashed, "$2"))
	assert.NotContains(t, hashed, "pw1")
	assert.True(t, VerifyPassword(hashed, "pw1"))
	assert.False(t, VerifyPassword(hashed, "pw2"))
	assert.False(t, NeedsRehash(hashed))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_Legacy(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		password string
		want     bool
	}{
		{
			name:     "sha256 with iterations",
			encoded:  "pbkdf2:sha256:150000$saltsalt$bb59d8db0be1dc68cf7aa615a5ef621fdbf83d221d0eced25274e7618372ee83",
			password: "pw1",
			want:     true,
		},
		{
			name:     "sha256 default iterations",
			encoded:  "pbkdf2:sha256$saltsalt$bb59d8db0be1dc68cf7aa615a5ef621fdbf83d221d0eced25274e7618372ee83",
			password: "pw1",
			want:     true,
		},
		{
			name:     "sha512",
			encoded:  "pbkdf2:sha512:1000$abcdefgh$9cd14d6fe535cb5773ddac5a4bb6c2b269f34058fd1c7e9d33225d0225458795f1bbabc04cbbcb19d22f24397644b55369f6e7a80c5e56e4de23360080e50788",
			password: "secret",
			want:     true,
		},
		{
			name:     "wrong password",
			encoded:  "pbkdf2:sha256:150000$saltsalt$bb59d8db0be1dc68cf7aa615a5ef621fdbf83d221d0eced25274e7618372ee83",
			password: "pw2",
			want:     false,
		},
		{
			name:     "malformed",
			encoded:  "pbkdf2:sha256:abc$salt",
			password: "pw1",
			want:     false,
		},
		{
			name:     "unknown digest",
			encoded:  "pbkdf2:md5:1000$salt$00",
			password: "pw1",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.encoded, tt.password))
		})
	}

	assert.True(t, NeedsRehash("pbkdf2:sha256:1$a$b"))
}
