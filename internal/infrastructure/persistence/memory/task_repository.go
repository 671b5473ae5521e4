package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/task"
	"github.com/google/uuid"
)

// TaskRepository is a map-backed TaskRepository
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]task.Task
}

// NewTaskRepository creates an empty in-memory task repository
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[uuid.UUID]task.Task)}
}

// FindByID finds a task by its ID
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

// FindAll finds all tasks matching the filter
func (r *TaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sortByCreated(matched, func(t task.Task) time.Time { return t.CreatedAt }, filter)
	return paginate(matched, filter), nil
}

// Save creates or updates a task
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[t.ID] = *t
	return nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Count counts tasks matching the filter
func (r *TaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.match(filter))), nil
}

// CountActive counts tasks that are not completed
func (r *TaskRepository) CountActive(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, t := range r.tasks {
		if t.IsActive() {
			count++
		}
	}
	return count, nil
}

// match filters tasks under a held read lock
func (r *TaskRepository) match(filter shared.Filter) []task.Task {
	matched := make([]task.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if filter.Search != "" &&
			!containsFold(t.Title, filter.Search) &&
			!containsFold(t.Description, filter.Search) {
			continue
		}
		if !matchesTaskFilters(t, filter.Filters) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

func matchesTaskFilters(t task.Task, filters map[string]interface{}) bool {
	for key, value := range filters {
		switch key {
		case "status":
			if string(t.Status) != toString(value) {
				return false
			}
		case "priority":
			if string(t.Priority) != toString(value) {
				return false
			}
		case "related_to_id":
			if t.RelatedTo == nil || t.RelatedTo.ID.String() != toString(value) {
				return false
			}
		case "overdue":
			if value == true {
				if t.DueDate == nil || !t.DueDate.Before(time.Now()) || t.Status == task.StatusCompleted {
					return false
				}
			}
		}
	}
	return true
}

// Ensure TaskRepository implements task.TaskRepository
var _ task.TaskRepository = (*TaskRepository)(nil)
