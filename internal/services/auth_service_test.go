package services

import (
	"testing"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Login("admin", "admin123", ClientInfo{UserAgent: "test", RemoteAddr: "127.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotNil(t, result.Admin.LastLogin)

	var admin models.Admin
	require.NoError(t, env.db.DB.Where("username = ?", "admin").First(&admin).Error)
	require.NotNil(t, admin.LastLogin)

	authenticated, err := env.auth.Authenticate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, authenticated.ID)
}

func TestLoginFailureLeavesLastLoginUnset(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ username, password string }{
		{"admin", "wrong"},
		{"nobody", "admin123"},
		{"", ""},
	} {
		_, err := env.auth.Login(tc.username, tc.password, ClientInfo{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCredentials))
		assert.Equal(t, "Invalid username or password", UserMessage(err, ""))
	}

	var admin models.Admin
	require.NoError(t, env.db.DB.Where("username = ?", "admin").First(&admin).Error)
	assert.Nil(t, admin.LastLogin)

	var sessions int64
	require.NoError(t, env.db.DB.Model(&models.AdminSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Login("admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(result.Token))

	_, err = env.auth.Authenticate(result.Token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	// Повторный выход и мусорный токен не ошибка
	assert.NoError(t, env.auth.Logout(result.Token))
	assert.NoError(t, env.auth.Logout("garbage"))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Authenticate("")
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	_, err = env.auth.Authenticate("not-a-token")
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	result, err := env.auth.Login("admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	other := NewAuthService(env.auth.adminRepo, env.auth.sessionRepo, "another-secret", time.Hour, logger.NewNop())
	_, err = other.Authenticate(result.Token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestSessionExpiry(t *testing.T) {
	env := newTestEnv(t)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	env.auth.now = func() time.Time { return now }

	result, err := env.auth.Login("admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = env.auth.Authenticate(result.Token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	purged, err := env.auth.PurgeExpiredSessions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestAuthenticateRejectsDisabledAdmin(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.auth.Login("admin", "admin123", ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, env.db.DB.Model(&models.Admin{}).
		Where("username = ?", "admin").Update("is_active", false).Error)

	_, err = env.auth.Authenticate(result.Token)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestLoginRejectsInactiveAdmin(t *testing.T) {
	env := newTestEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	disabled := models.Admin{Username: "disabled", Password: string(hash), IsActive: false}
	require.NoError(t, env.db.DB.Create(&disabled).Error)

	var stored models.Admin
	require.NoError(t, env.db.DB.First(&stored, disabled.ID).Error)
	require.False(t, stored.IsActive)

	_, err = env.auth.Login("disabled", "secret123", ClientInfo{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	require.NoError(t, env.db.DB.First(&stored, disabled.ID).Error)
	assert.Nil(t, stored.LastLogin)

	var sessions int64
	require.NoError(t, env.db.DB.Model(&models.AdminSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}
