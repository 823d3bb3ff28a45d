package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	CurrentUser(ctx context.Context, userID int64) (UserResponse, error)
	Logout(ctx context.Context, token string) error
}
