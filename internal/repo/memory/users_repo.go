package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/fintrack/internal/domain/user"
)

type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		nextID: 1,
		byName: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[username]; exists {
		return user.User{}, user.ErrUsernameTaken
	}

	u := user.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.byName[username] = u

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[username]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, u := range r.byName {
		if u.ID == id {
			u.PasswordHash = passwordHash
			r.byName[name] = u
			return nil
		}
	}

	return user.ErrNotFound
}
