package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository is a map-backed ContactRepository
type ContactRepository struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]contact.Contact
}

// NewContactRepository creates an empty in-memory contact repository
func NewContactRepository() *ContactRepository {
	return &ContactRepository{contacts: make(map[uuid.UUID]contact.Contact)}
}

// FindByID finds a contact by its ID
func (r *ContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

// FindByEmail finds a contact by its email address
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*contact.Contact, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, c := range r.contacts {
		if c.Email == email {
			match := c
			return &match, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindAll finds all contacts matching the filter
func (r *ContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortByCreated(matched, func(c contact.Contact) time.Time { return c.CreatedAt }, filter)
	return paginate(matched, filter), nil
}

// Save creates or updates a contact
func (r *ContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contacts[c.ID] = *c
	return nil
}

// Delete deletes a contact
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

// Count counts contacts matching the filter
func (r *ContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// ExistsByEmail checks if a contact with the given email exists
func (r *ContactRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, c := range r.contacts {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// match filters contacts under a held read lock
func (r *ContactRepository) match(filter shared.Filter) []contact.Contact {
	matched := make([]contact.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		if filter.Search != "" &&
			!containsFold(c.FirstName, filter.Search) &&
			!containsFold(c.LastName, filter.Search) &&
			!containsFold(c.Email, filter.Search) &&
			!containsFold(c.Company, filter.Search) {
			continue
		}
		if !r.matchesFilters(c, filter.Filters) {
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

func (r *ContactRepository) matchesFilters(c contact.Contact, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "status":
			if string(c.Status) != toString(value) {
				return false
			}
		case "company":
			if c.Company != toString(value) {
				return false
			}
		case "source":
			if c.Source != toString(value) {
				return false
			}
		case "assigned_to":
			if c.AssignedTo == nil || c.AssignedTo.String() != toString(value) {
				return false
			}
		}
	}
	return true
}

// Ensure ContactRepository implements contact.ContactRepository
var _ contact.ContactRepository = (*ContactRepository)(nil)
