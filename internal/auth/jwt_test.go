package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("user-1", "student", "asha@campus.edu", "lateentry", "test-key", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	claims, err := Parse(tok.Value, "test-key", "lateentry")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "asha@campus.edu", claims.Email)
}

func TestParseRejectsWrongKey(t *testing.T) {
	tok, err := Issue("user-1", "student", "asha@campus.edu", "lateentry", "test-key", time.Hour)
	require.NoError(t, err)

	_, err = Parse(tok.Value, "other-key", "lateentry")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	tok, err := Issue("user-1", "admin", "root@campus.edu", "someone-else", "test-key", time.Hour)
	require.NoError(t, err)

	_, err = Parse(tok.Value, "test-key", "lateentry")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, err := Issue("user-1", "student", "asha@campus.edu", "lateentry", "test-key", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok.Value, "test-key", "lateentry")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not.a.token", "test-key", "lateentry")
	assert.Error(t, err)
}
