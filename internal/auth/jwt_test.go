package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	tok, err := iss.Issue(&domain.User{ID: "u-1", Username: "alice", Role: domain.RoleAdmin})
	require.NoError(t, err)

	c, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Sub)
	assert.Equal(t, "ADMIN", c.Role)
	assert.Equal(t, "alice", c.Username)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	u := &domain.User{ID: "u-1", Role: domain.RoleUser}

	other, err := NewIssuer("other", time.Hour).Issue(u)
	require.NoError(t, err)
	_, err = NewIssuer("s3cret", time.Hour).Parse(other)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	old := NewIssuer("s3cret", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := old.Issue(u)
	require.NoError(t, err)
	_, err = old.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = old.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
