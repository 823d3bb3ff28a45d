package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const tokenType = "Bearer"

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	authorizer user.Authorizer
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, authorizer user.Authorizer) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		authorizer:     authorizer,
	}
}

// HashPassword hashes password with bcrypt's default cost
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.LoginResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, user.NormalizeEmail(loginReq.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	accessToken, _, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.RoleNames())
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken: accessToken,
		TokenType:   tokenType,
		ExpiresIn:   a.Service.ExpiresIn(),
		User:        auth.NewUserResponse(userData, a.authorizer.Permissions(userData.Roles)),
	}, nil
}

// CurrentUser implements auth.AuthService.
func (a *AuthServiceImpl) CurrentUser(ctx context.Context, userID int64) (auth.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.UserResponse{}, auth.ErrInvalidToken
		}
		return auth.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return auth.NewUserResponse(userData, a.authorizer.Permissions(userData.Roles)), nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	if err := a.Service.RevokeToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SeedUser creates the user unless its email is already registered
func SeedUser(ctx context.Context, repo user.UserRepository, name, email, password string, roles ...user.Role) error {
	email = user.NormalizeEmail(email)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := repo.Create(ctx, user.User{Name: name, Email: email, PasswordHash: hashed, Roles: roles}); err != nil {
		return fmt.Errorf("failed to create %s: %w", email, err)
	}
	slog.Info("Seeded user", "email", email, "roles", roles)
	return nil
}
