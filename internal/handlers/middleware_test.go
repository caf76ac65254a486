package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	limiter := NewLoginLimiter(3)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
	assert.False(t, limiter.Allow("10.0.0.1"))

	// Другой адрес считается отдельно
	assert.True(t, limiter.Allow("10.0.0.2"))

	// Через 21 секунду восстанавливается одна попытка
	now = now.Add(21 * time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestLoginLimiterForgetsIdleClients(t *testing.T) {
	limiter := NewLoginLimiter(1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.Len(t, limiter.visitors, 1)

	now = now.Add(time.Hour)
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.Len(t, limiter.visitors, 1)
}

func TestDisabledLoginLimiter(t *testing.T) {
	limiter := NewLoginLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
	}
}
