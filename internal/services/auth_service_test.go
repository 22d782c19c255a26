// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellcare/pos-backend/internal/config"
	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/utils"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func registerReq(username, email string) *RegisterRequest {
	return &RegisterRequest{
		Username: username,
		Email:    email,
		Password: "Str0ng!Pass",
		Role:     models.UserRoleCashier,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	utils.SetJWTSecret("test-secret")
	auth := NewAuthService(db, testAuthConfig())

	resp, err := auth.Register(registerReq("kamal", "kamal@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, models.UserRoleCashier, resp.User.Role)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "kamal", claims.Username)
	assert.Equal(t, string(models.UserRoleCashier), claims.Role)

	login, err := auth.Login(&LoginRequest{Email: "kamal@example.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLoginAt)

	_, err = auth.Login(&LoginRequest{Email: "kamal@example.com", Password: "wrong-pass"})
	assert.Error(t, err)
	_, err = auth.Login(&LoginRequest{Email: "nobody@example.com", Password: "Str0ng!Pass"})
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuthService(db, testAuthConfig())

	_, err := auth.Register(registerReq("kamal", "kamal@example.com"))
	require.NoError(t, err)

	_, err = auth.Register(registerReq("other", "kamal@example.com"))
	assert.ErrorContains(t, err, "email already exists")

	_, err = auth.Register(registerReq("kamal", "other@example.com"))
	assert.ErrorContains(t, err, "username already taken")
}

func TestRegisterRejectsWeakPasswordAndAdminRole(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuthService(db, testAuthConfig())

	weak := registerReq("kamal", "kamal@example.com")
	weak.Password = "password"
	_, err := auth.Register(weak)
	assert.Error(t, err)

	admin := registerReq("boss", "boss@example.com")
	admin.Role = models.UserRoleAdmin
	_, err = auth.Register(admin)
	assert.ErrorContains(t, err, "invalid role")
}

func TestRefreshToken(t *testing.T) {
	db := openTestDB(t)
	utils.SetJWTSecret("test-secret")
	auth := NewAuthService(db, testAuthConfig())

	resp, err := auth.Register(registerReq("kamal", "kamal@example.com"))
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = auth.RefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestLoginSuspendedAccount(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuthService(db, testAuthConfig())

	resp, err := auth.Register(registerReq("kamal", "kamal@example.com"))
	require.NoError(t, err)

	require.NoError(t, db.Model(resp.User).Update("status", models.UserStatusSuspended).Error)

	_, err = auth.Login(&LoginRequest{Email: "kamal@example.com", Password: "Str0ng!Pass"})
	assert.ErrorContains(t, err, "suspended")
}
