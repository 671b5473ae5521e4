package task

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// FindByID finds a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindAll finds all tasks matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Task, error)

	// Save creates or updates a task
	Save(ctx context.Context, t *Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts tasks matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountActive counts tasks that are not yet completed
	CountActive(ctx context.Context) (int64, error)
}
