package activity

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityRepository defines the interface for activity persistence.
// Activities are append-only: there is no update or delete.
type ActivityRepository interface {
	// FindByID finds an activity by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)

	// FindAll finds all activities matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Activity, error)

	// FindRecent finds the most recent activities, newest first
	FindRecent(ctx context.Context, limit int) ([]Activity, error)

	// Save appends a new activity record
	Save(ctx context.Context, a *Activity) error

	// Count counts activities matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
