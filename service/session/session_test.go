package session

import (
	"context"
	"testing"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *core.Config {
	return &core.Config{
		Auth: core.Auth{
			Secret:   "s3cr3t",
			Issuer:   "lendpool",
			Capacity: 16,
			TTL:      60,
		},
		Admins: []string{"root"},
	}
}

func TestIssueAndLogin(t *testing.T) {
	ctx := context.Background()
	s := New(testConfig())

	token, err := s.Issue(ctx, "alice")
	require.NoError(t, err)

	user, err := s.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	assert.False(t, user.Admin)

	token, err = s.Issue(ctx, "root")
	require.NoError(t, err)
	user, err = s.Login(ctx, token)
	require.NoError(t, err)
	assert.True(t, user.Admin)
}

func TestLoginRejects(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	s := New(cfg)

	other := testConfig()
	other.Auth.Issuer = "someone-else"
	foreign, err := New(other).Issue(ctx, "alice")
	require.NoError(t, err)
	_, err = s.Login(ctx, foreign)
	assert.Error(t, err, "issuer mismatch")

	other = testConfig()
	other.Auth.Secret = "another"
	forged, err := New(other).Issue(ctx, "alice")
	require.NoError(t, err)
	_, err = s.Login(ctx, forged)
	assert.Error(t, err, "bad signature")

	_, err = s.Login(ctx, "not-a-token")
	assert.Error(t, err)

	_, err = s.Issue(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestLoginExpired(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Auth.Capacity = 0

	issuer := New(cfg).(*session)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.Issue(ctx, "alice")
	require.NoError(t, err)

	_, err = New(cfg).Login(ctx, token)
	assert.Error(t, err)
}

func TestCachedLoginEndsWithToken(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Auth.TTL = 30

	clock := gcache.NewFakeClock()
	s := newSession(cfg, clock)

	token, err := s.Issue(ctx, "alice")
	require.NoError(t, err)

	user, err := s.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)

	clock.Advance(20 * time.Second)
	_, err = s.Login(ctx, token)
	assert.NoError(t, err, "served from cache")

	clock.Advance(11 * time.Second)
	_, err = s.Login(ctx, token)
	assert.Error(t, err, "expired tokens are not served from cache")
}
