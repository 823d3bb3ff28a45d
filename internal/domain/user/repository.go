package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)

	// GetByID and GetByEmail return ErrUserNotFound when missing
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
