package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityRepository is a map-backed OpportunityRepository
type OpportunityRepository struct {
	mu            sync.RWMutex
	opportunities map[uuid.UUID]pipeline.Opportunity
}

// NewOpportunityRepository creates an empty in-memory opportunity repository
func NewOpportunityRepository() *OpportunityRepository {
	return &OpportunityRepository{opportunities: make(map[uuid.UUID]pipeline.Opportunity)}
}

// FindByID finds an opportunity by its ID
func (r *OpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.opportunities[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

// FindAll finds all opportunities matching the filter
func (r *OpportunityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortByCreated(matched, func(o pipeline.Opportunity) time.Time { return o.CreatedAt }, filter)
	return paginate(matched, filter), nil
}

// FindByStage finds all opportunities in the given stage, soonest close date first
func (r *OpportunityRepository) FindByStage(ctx context.Context, stage pipeline.Stage, filter shared.Filter) ([]pipeline.Opportunity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]pipeline.Opportunity, 0)
	for _, o := range r.opportunities {
		if o.Stage == stage {
			matched = append(matched, o)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ExpectedCloseDate.Before(matched[j].ExpectedCloseDate)
	})
	return matched, nil
}

// Save creates or updates an opportunity
func (r *OpportunityRepository) Save(ctx context.Context, o *pipeline.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.opportunities[o.ID] = *o
	return nil
}

// Delete deletes an opportunity
func (r *OpportunityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.opportunities[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.opportunities, id)
	return nil
}

// Count counts opportunities matching the filter
func (r *OpportunityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// match filters opportunities under a held read lock
func (r *OpportunityRepository) match(filter shared.Filter) []pipeline.Opportunity {
	matched := make([]pipeline.Opportunity, 0, len(r.opportunities))
	for _, o := range r.opportunities {
		if filter.Search != "" &&
			!containsFold(o.Name, filter.Search) &&
			!containsFold(o.AccountName, filter.Search) {
			continue
		}
		if !matchesOpportunityFilters(o, filter.Filters) {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}

func matchesOpportunityFilters(o pipeline.Opportunity, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "stage":
			if string(o.Stage) != toString(value) {
				return false
			}
		case "contact_id":
			if o.ContactID == nil || o.ContactID.String() != toString(value) {
				return false
			}
		}
	}
	return true
}

// Ensure OpportunityRepository implements pipeline.OpportunityRepository
var _ pipeline.OpportunityRepository = (*OpportunityRepository)(nil)
