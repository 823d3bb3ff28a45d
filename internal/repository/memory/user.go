package memory

import (
	"context"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, newUser user.User) (user.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}

	s.nextUserID++
	now := s.now()
	newUser.ID = s.nextUserID
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	newUser.Roles = append([]user.Role(nil), newUser.Roles...)
	s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, ok := r.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return found, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, existing := range r.store.users {
		if existing.Email == email {
			return existing, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}
