package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"subtrak/internal/client/domain/entities"
)

func TestTokenPair(t *testing.T) {
	tests := []struct {
		name     string
		pair     entities.TokenPair
		empty    bool
		complete bool
	}{
		{name: "both tokens absent", pair: entities.TokenPair{}, empty: true},
		{name: "both tokens present", pair: entities.TokenPair{AccessToken: "a", RefreshToken: "r"}, complete: true},
		{name: "access token only", pair: entities.TokenPair{AccessToken: "a"}},
		{name: "refresh token only", pair: entities.TokenPair{RefreshToken: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.pair.IsEmpty())
			assert.Equal(t, tt.complete, tt.pair.IsComplete())
		})
	}
}

func TestSessionStatusString(t *testing.T) {
	assert.Equal(t, "loading", entities.SessionLoading.String())
	assert.Equal(t, "anonymous", entities.SessionAnonymous.String())
	assert.Equal(t, "authenticated", entities.SessionAuthenticated.String())
	assert.Equal(t, "unknown", entities.SessionStatus(99).String())
}

func TestSessionIsAdmin(t *testing.T) {
	admin := entities.Session{
		Status: entities.SessionAuthenticated,
		User:   &entities.User{ID: 1, IsAdmin: true},
	}
	assert.True(t, admin.IsAdmin())

	member := entities.Session{
		Status: entities.SessionAuthenticated,
		User:   &entities.User{ID: 2},
	}
	assert.False(t, member.IsAdmin())

	anonymous := entities.Session{Status: entities.SessionAnonymous}
	assert.False(t, anonymous.IsAdmin())
}
