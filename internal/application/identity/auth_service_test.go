package identity

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-tests",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "crm-test",
	})
}

func newAuthEnv(t *testing.T) (*AuthService, identity.UserRepository) {
	t.Helper()
	userRepo := memory.NewUserRepository()
	return NewAuthService(userRepo, newJWTService(), nil), userRepo
}

func seedUser(t *testing.T, repo identity.UserRepository, username, password string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", password, role)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	svc, repo := newAuthEnv(t)
	seedUser(t, repo, "jane", "password1", identity.RoleSales)

	result, err := svc.Login(context.Background(), LoginInput{Username: "jane", Password: "password1"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "jane", result.User.Username)
	assert.Contains(t, result.User.Permissions, identity.PermContactsRead)

	// Last login is stamped
	u, err := repo.FindByUsername(context.Background(), "jane")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, repo := newAuthEnv(t)
	seedUser(t, repo, "jane", "password1", identity.RoleSales)

	// Unknown username and wrong password yield the same code
	_, err := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "password1"})
	assertDomainCode(t, err, "INVALID_CREDENTIALS")

	_, err = svc.Login(context.Background(), LoginInput{Username: "jane", Password: "wrongpass1"})
	assertDomainCode(t, err, "INVALID_CREDENTIALS")
}

func TestAuthServiceLoginRejectsDeactivated(t *testing.T) {
	svc, repo := newAuthEnv(t)
	u := seedUser(t, repo, "jane", "password1", identity.RoleSales)

	u.Deactivate()
	require.NoError(t, repo.Save(context.Background(), u))

	_, err := svc.Login(context.Background(), LoginInput{Username: "jane", Password: "password1"})
	assertDomainCode(t, err, "ACCOUNT_INACTIVE")
}

func TestAuthServiceRefreshToken(t *testing.T) {
	svc, repo := newAuthEnv(t)
	seedUser(t, repo, "jane", "password1", identity.RoleSales)

	login, err := svc.Login(context.Background(), LoginInput{Username: "jane", Password: "password1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "not-a-token"})
	assertDomainCode(t, err, "TOKEN_INVALID")

	// An access token is not accepted as a refresh token
	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.AccessToken})
	assertDomainCode(t, err, "TOKEN_INVALID")
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, repo := newAuthEnv(t)
	u := seedUser(t, repo, "jane", "password1", identity.RoleSales)

	err := svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: "wrongpass1",
		NewPassword:     "newpassword2",
	})
	assertDomainCode(t, err, "INVALID_PASSWORD")

	err = svc.ChangePassword(context.Background(), u.ID, ChangePasswordInput{
		CurrentPassword: "password1",
		NewPassword:     "newpassword2",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Username: "jane", Password: "newpassword2"})
	assert.NoError(t, err)
}

func TestAuthServiceMe(t *testing.T) {
	svc, repo := newAuthEnv(t)
	u := seedUser(t, repo, "admin", "password1", identity.RoleAdmin)

	info, err := svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", info.Username)

	// Admin holds every permission
	for _, perm := range identity.AllPermissions {
		assert.Contains(t, info.Permissions, perm)
	}
}
