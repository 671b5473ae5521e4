package contact

import (
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/google/uuid"
)

// CreateContactRequest represents a request to create a new contact
type CreateContactRequest struct {
	FirstName  string     `json:"first_name" binding:"required,min=1,max=100"`
	LastName   string     `json:"last_name" binding:"required,min=1,max=100"`
	Email      string     `json:"email" binding:"required,email,max=200"`
	Phone      string     `json:"phone" binding:"max=50"`
	Company    string     `json:"company" binding:"max=200"`
	Position   string     `json:"position" binding:"max=100"`
	Source     string     `json:"source" binding:"max=100"`
	Tags       []string   `json:"tags"`
	Notes      string     `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	CreatedBy  *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdateContactRequest represents a partial update to a contact.
// Nil fields are left unchanged.
type UpdateContactRequest struct {
	FirstName  *string    `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName   *string    `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email      *string    `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string    `json:"phone" binding:"omitempty,max=50"`
	Company    *string    `json:"company" binding:"omitempty,max=200"`
	Position   *string    `json:"position" binding:"omitempty,max=100"`
	Source     *string    `json:"source" binding:"omitempty,max=100"`
	Status     *string    `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Tags       *[]string  `json:"tags"`
	Notes      *string    `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
	UpdatedBy  *uuid.UUID `json:"-"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID         uuid.UUID  `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Company    string     `json:"company"`
	Position   string     `json:"position"`
	Status     string     `json:"status"`
	Source     string     `json:"source"`
	Tags       []string   `json:"tags"`
	Notes      string     `json:"notes"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=Active Inactive"`
	Company    string `form:"company"`
	Source     string `form:"source"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		FullName:   c.FullName(),
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Position:   c.Position,
		Status:     string(c.Status),
		Source:     c.Source,
		Tags:       c.Tags,
		Notes:      c.Notes,
		AssignedTo: c.AssignedTo,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}

// ToContactResponses converts a slice of domain Contacts
func ToContactResponses(contacts []contact.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}
