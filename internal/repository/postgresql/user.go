package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (name, email, password_hash, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, name, email, password_hash, roles, created_at, updated_at
	`

	created, err := scanUser(q.QueryRow(ctx, query, newUser.Name, newUser.Email, newUser.PasswordHash, newUser.RoleNames()))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, email, password_hash, roles, created_at, updated_at FROM users WHERE id = $1`
	return r.get(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, email, password_hash, roles, created_at, updated_at FROM users WHERE email = $1`
	return r.get(q.QueryRow(ctx, query, email))
}

func (r *userRepositoryImpl) get(row pgx.Row) (user.User, error) {
	found, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return found, nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var roles []string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	u.Roles = make([]user.Role, len(roles))
	for i, role := range roles {
		u.Roles[i] = user.Role(role)
	}
	return u, nil
}
