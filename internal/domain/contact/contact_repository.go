package contact

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByID finds a contact by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// FindByEmail finds a contact by email
	FindByEmail(ctx context.Context, email string) (*Contact, error)

	// FindAll finds all contacts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, error)

	// Save creates or updates a contact
	Save(ctx context.Context, c *Contact) error

	// Delete deletes a contact
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts contacts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if a contact with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
