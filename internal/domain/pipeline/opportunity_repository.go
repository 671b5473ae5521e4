package pipeline

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityRepository defines the interface for opportunity persistence
type OpportunityRepository interface {
	// FindByID finds an opportunity by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)

	// FindAll finds all opportunities matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Opportunity, error)

	// FindByStage finds all opportunities in the given stage
	FindByStage(ctx context.Context, stage Stage, filter shared.Filter) ([]Opportunity, error)

	// Save creates or updates an opportunity
	Save(ctx context.Context, o *Opportunity) error

	// Delete deletes an opportunity
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts opportunities matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
