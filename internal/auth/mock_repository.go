package auth

import (
	"sync"
)

type mockRepository struct {
	users   map[uint]*User
	byEmail map[string]uint
	history map[uint][]PasswordHistory
	nextID  uint
	mu      sync.RWMutex
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:   make(map[uint]*User),
		byEmail: make(map[string]uint),
		history: make(map[uint][]PasswordHistory),
		nextID:  1,
	}
}

func (r *mockRepository) CreateUser(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrUserExists
	}

	user.ID = r.nextID
	r.nextID++

	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *mockRepository) GetUserByID(id uint) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *mockRepository) GetUserByEmail(email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *mockRepository) ListUsers() ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for id := uint(1); id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *mockRepository) UpdateUser(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}
	delete(r.byEmail, stored.Email)
	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *mockRepository) SaveLoginState(user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}
	stored.FailedLoginAttempts = user.FailedLoginAttempts
	stored.LockedUntil = user.LockedUntil
	return nil
}

func (r *mockRepository) GetPasswordHistory(userID uint, limit int) ([]PasswordHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.history[userID]
	// Newest first.
	out := make([]PasswordHistory, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r *mockRepository) RotatePassword(user *User, newHash string, keep int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}

	entries := append(r.history[user.ID], PasswordHistory{UserID: user.ID, Hash: stored.PasswordHash})
	if len(entries) > keep {
		entries = entries[len(entries)-keep:]
	}
	r.history[user.ID] = entries
	stored.PasswordHash = newHash
	return nil
}
