package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityRepository is a map-backed, append-only ActivityRepository
type ActivityRepository struct {
	mu         sync.RWMutex
	activities map[uuid.UUID]activity.Activity
}

// NewActivityRepository creates an empty in-memory activity repository
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{activities: make(map[uuid.UUID]activity.Activity)}
}

// FindByID finds an activity by its ID
func (r *ActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

// FindAll finds all activities matching the filter
func (r *ActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortByCreated(matched, func(a activity.Activity) time.Time { return a.CreatedAt }, filter)
	return paginate(matched, filter), nil
}

// FindRecent finds the most recent activities, newest first
func (r *ActivityRepository) FindRecent(ctx context.Context, limit int) ([]activity.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]activity.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		all = append(all, a)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Save appends an activity to the feed
func (r *ActivityRepository) Save(ctx context.Context, a *activity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[a.ID] = *a
	return nil
}

// Count counts activities matching the filter
func (r *ActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// match filters activities under a held read lock
func (r *ActivityRepository) match(filter shared.Filter) []activity.Activity {
	matched := make([]activity.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		if filter.Search != "" && !containsFold(a.Description, filter.Search) {
			continue
		}
		if !matchesActivityFilters(a, filter.Filters) {
			continue
		}
		matched = append(matched, a)
	}
	return matched
}

func matchesActivityFilters(a activity.Activity, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "type":
			if string(a.Type) != toString(value) {
				return false
			}
		case "user_id":
			if a.UserID == nil || a.UserID.String() != toString(value) {
				return false
			}
		case "related_to_id":
			if a.RelatedToID == nil || a.RelatedToID.String() != toString(value) {
				return false
			}
		case "since":
			if since, ok := value.(time.Time); ok && a.CreatedAt.Before(since) {
				return false
			}
		}
	}
	return true
}

// Ensure ActivityRepository implements activity.ActivityRepository
var _ activity.ActivityRepository = (*ActivityRepository)(nil)
