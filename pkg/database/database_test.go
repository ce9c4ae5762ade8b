package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) Database {
	d, err := NewDatabase(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		d.Close()
	})

	return d
}

func TestSessions(t *testing.T) {
	d := newTestDatabase(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s := Session{
		ID:          "abc",
		Scheme:      "BattleNet",
		AccessToken: "token",
		TokenType:   "Bearer",
		TokenExpiry: now.Add(time.Hour),
		Region:      "eu",
		BattleTag:   "Thrall#1234",
		CreatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
	if !assert.Nil(t, d.PersistSession(s)) {
		return
	}

	found, err := d.GetSession("abc", now)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, s.AccessToken, found.AccessToken)
	assert.Equal(t, s.Region, found.Region)
	assert.Equal(t, s.BattleTag, found.BattleTag)
	assert.True(t, s.ExpiresAt.Equal(found.ExpiresAt))

	// expired by token expiry
	_, err = d.GetSession("abc", now.Add(2*time.Hour))
	assert.Equal(t, ErrNotFound, err)

	_, err = d.GetSession("missing", now)
	assert.Equal(t, ErrNotFound, err)
	_, err = d.GetSession("", now)
	assert.Equal(t, ErrNotFound, err)

	if !assert.Nil(t, d.DeleteSession("abc")) {
		return
	}
	_, err = d.GetSession("abc", now)
	assert.Equal(t, ErrNotFound, err)

	assert.Nil(t, d.DeleteSession("abc"))
	assert.NotNil(t, d.PersistSession(Session{}))
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now}.IsExpired(now))
	assert.True(t, Session{ExpiresAt: now.Add(time.Hour), TokenExpiry: now.Add(-time.Second)}.IsExpired(now))
}

func TestPendingLogins(t *testing.T) {
	d := newTestDatabase(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	p := PendingLogin{
		State:       "state-1",
		Scheme:      "BattleNet",
		Region:      "eu",
		RedirectURI: "/Account/LoginCallback",
		ExpiresAt:   now.Add(10 * time.Minute),
	}
	if !assert.Nil(t, d.PersistPendingLogin(p)) {
		return
	}

	consumed, err := d.ConsumePendingLogin("state-1", now)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, p.Scheme, consumed.Scheme)
	assert.Equal(t, p.Region, consumed.Region)
	assert.Equal(t, p.RedirectURI, consumed.RedirectURI)

	// a state is usable once
	_, err = d.ConsumePendingLogin("state-1", now)
	assert.Equal(t, ErrNotFound, err)

	// expired states are consumed but not returned
	p.State = "state-2"
	if !assert.Nil(t, d.PersistPendingLogin(p)) {
		return
	}
	_, err = d.ConsumePendingLogin("state-2", now.Add(time.Hour))
	assert.Equal(t, ErrNotFound, err)
	_, err = d.ConsumePendingLogin("state-2", now)
	assert.Equal(t, ErrNotFound, err)

	assert.NotNil(t, d.PersistPendingLogin(PendingLogin{}))
}

func TestPruneExpired(t *testing.T) {
	d := newTestDatabase(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, s := range []Session{
		{ID: "live", ExpiresAt: now.Add(time.Hour)},
		{ID: "dead", ExpiresAt: now.Add(-time.Hour)},
		{ID: "dead-token", ExpiresAt: now.Add(time.Hour), TokenExpiry: now.Add(-time.Minute)},
	} {
		if !assert.Nil(t, d.PersistSession(s)) {
			return
		}
	}
	for _, p := range []PendingLogin{
		{State: "live", ExpiresAt: now.Add(time.Minute)},
		{State: "dead", ExpiresAt: now.Add(-time.Minute)},
	} {
		if !assert.Nil(t, d.PersistPendingLogin(p)) {
			return
		}
	}

	result, err := d.PruneExpired(now)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, PruneResult{Sessions: 2, PendingLogins: 1}, result)

	_, err = d.GetSession("live", now)
	assert.Nil(t, err)
	_, err = d.ConsumePendingLogin("live", now)
	assert.Nil(t, err)

	result, err = d.PruneExpired(now)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, PruneResult{}, result)
}
