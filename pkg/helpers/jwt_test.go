package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTGenerateAndParse(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := m.Generate("user-1", "buyer@example.com", "buyer")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "buyer", claims.Role)
}

func TestJWTParse_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret", -time.Minute)
	token, _, err := m.Generate("user-1", "buyer@example.com", "buyer")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestJWTParse_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewJWTManager("right-secret", time.Hour)
	token, _, err := issuer.Generate("user-1", "buyer@example.com", "buyer")
	require.NoError(t, err)

	verifier := NewJWTManager("wrong-secret", time.Hour)
	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestJWTParse_Malformed(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("test-secret", time.Hour)
	_, err := m.Parse("not.a.jwt")
	assert.Error(t, err)
}
