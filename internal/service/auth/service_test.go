package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/commission-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (auth.AuthService, user.UserRepository, jwt.Service) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	jwtService, err := jwt.NewJWTService("test-secret", "15m", jwt.NewMemoryRevocationStore())
	require.NoError(t, err)
	require.NoError(t, SeedUser(context.Background(), users, "Admin", "Admin@Example.com", "secret123", user.RoleAdmin))
	return NewAuthService(users, jwtService, user.NewRoleAuthorizer()), users, jwtService
}

func TestLogin(t *testing.T) {
	svc, _, _ := setup(t)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: " admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, []string{"admin"}, resp.User.Roles)
	assert.Contains(t, resp.User.Permissions, string(user.PermissionRunDailyMails))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "", Password: ""})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestCurrentUser(t *testing.T) {
	svc, users, _ := setup(t)
	ctx := context.Background()

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)

	me, err := svc.CurrentUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", me.Name)

	_, err = svc.CurrentUser(ctx, 999)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc, _, jwtService := setup(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	revoked, err := jwtService.IsTokenRevoked(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, svc.Logout(ctx, ""), auth.ErrInvalidToken)
}

func TestSeedUser_Idempotent(t *testing.T) {
	_, users, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, SeedUser(ctx, users, "Again", "admin@example.com", "other", user.RoleViewer))
	found, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin", found.Name)
	assert.Equal(t, []user.Role{user.RoleAdmin}, found.Roles)
}
