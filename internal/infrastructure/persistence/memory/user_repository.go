package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository is a map-backed UserRepository
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]identity.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]identity.User)}
}

// FindByID finds a user by its ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

// FindByUsername finds a user by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	username = strings.ToLower(username)
	for _, u := range r.users {
		if u.Username == username {
			match := u
			return &match, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			match := u
			return &match, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds all users matching the filter, ordered by username
func (r *UserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Username < matched[j].Username
	})
	return paginate(matched, filter), nil
}

// Save creates or updates a user
func (r *UserRepository) Save(ctx context.Context, u *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = *u
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Count counts users matching the filter
func (r *UserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// ExistsByUsername checks if a user with the given username exists
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	username = strings.ToLower(username)
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// match filters users under a held read lock
func (r *UserRepository) match(filter shared.Filter) []identity.User {
	matched := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.Search != "" &&
			!containsFold(u.Username, filter.Search) &&
			!containsFold(u.Email, filter.Search) &&
			!containsFold(u.FirstName, filter.Search) &&
			!containsFold(u.LastName, filter.Search) {
			continue
		}
		if !matchesUserFilters(u, filter.Filters) {
			continue
		}
		matched = append(matched, u)
	}
	return matched
}

func matchesUserFilters(u identity.User, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "role":
			if string(u.Role) != toString(value) {
				return false
			}
		case "is_active":
			if active, ok := value.(bool); ok && u.IsActive != active {
				return false
			}
		}
	}
	return true
}

// Ensure UserRepository implements identity.UserRepository
var _ identity.UserRepository = (*UserRepository)(nil)
