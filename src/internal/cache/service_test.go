package cache

import (
	"testing"
	"time"

	"pctracer-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", SessionKey("abc"))
}

func TestSessionExpiration(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		session  models.Session
		sliding  time.Duration
		expected time.Duration
	}{
		{
			name:     "sliding window",
			session:  models.Session{LastActiveAt: now, ExpiresAt: now.Add(24 * time.Hour)},
			sliding:  time.Hour,
			expected: time.Hour,
		},
		{
			name:     "capped by expiry",
			session:  models.Session{LastActiveAt: now, ExpiresAt: now.Add(10 * time.Minute)},
			sliding:  time.Hour,
			expected: 10 * time.Minute,
		},
		{
			name:     "idle too long",
			session:  models.Session{LastActiveAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour)},
			sliding:  time.Hour,
			expected: -time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SessionExpiration(&tt.session, now, tt.sliding))
		})
	}
}
