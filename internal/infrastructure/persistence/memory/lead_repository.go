package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadRepository is a map-backed LeadRepository
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[uuid.UUID]lead.Lead
}

// NewLeadRepository creates an empty in-memory lead repository
func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[uuid.UUID]lead.Lead)}
}

// FindByID finds a lead by its ID
func (r *LeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

// FindAll finds all leads matching the filter
func (r *LeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortByCreated(matched, func(l lead.Lead) time.Time { return l.CreatedAt }, filter)
	return paginate(matched, filter), nil
}

// Save creates or updates a lead
func (r *LeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leads[l.ID] = *l
	return nil
}

// Delete deletes a lead
func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

// Count counts leads matching the filter
func (r *LeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// CountByStatus counts leads with the given status
func (r *LeadRepository) CountByStatus(ctx context.Context, status lead.LeadStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, l := range r.leads {
		if l.Status == status {
			count++
		}
	}
	return count, nil
}

// match filters leads under a held read lock
func (r *LeadRepository) match(filter shared.Filter) []lead.Lead {
	matched := make([]lead.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if filter.Search != "" &&
			!containsFold(l.Name, filter.Search) &&
			!containsFold(l.Email, filter.Search) &&
			!containsFold(l.Company, filter.Search) {
			continue
		}
		if !matchesLeadFilters(l, filter.Filters) {
			continue
		}
		matched = append(matched, l)
	}
	return matched
}

func matchesLeadFilters(l lead.Lead, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "status":
			if string(l.Status) != toString(value) {
				return false
			}
		case "source":
			if l.Source != toString(value) {
				return false
			}
		case "min_score":
			if minScore, ok := value.(int); ok && l.Score < minScore {
				return false
			}
		}
	}
	return true
}

// Ensure LeadRepository implements lead.LeadRepository
var _ lead.LeadRepository = (*LeadRepository)(nil)
