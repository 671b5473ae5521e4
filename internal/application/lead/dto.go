package lead

import (
	"time"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest represents a request to create a new lead
type CreateLeadRequest struct {
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Email             string           `json:"email" binding:"required,email,max=200"`
	Phone             string           `json:"phone" binding:"max=50"`
	Company           string           `json:"company" binding:"max=200"`
	Source            string           `json:"source" binding:"required,min=1,max=100"`
	Score             int              `json:"score"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value" binding:"omitempty,gte=0"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Notes             string           `json:"notes"`
	CreatedBy         *uuid.UUID       `json:"-"` // Set from JWT context, not from request body
}

// UpdateLeadRequest represents a partial update to a lead
type UpdateLeadRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email             *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone             *string          `json:"phone" binding:"omitempty,max=50"`
	Company           *string          `json:"company" binding:"omitempty,max=200"`
	Source            *string          `json:"source" binding:"omitempty,min=1,max=100"`
	Score             *int             `json:"score"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value" binding:"omitempty,gte=0"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	Notes             *string          `json:"notes"`
	UpdatedBy         *uuid.UUID       `json:"-"`
}

// ChangeLeadStatusRequest represents a request to move a lead to a new status
type ChangeLeadStatusRequest struct {
	Status    string     `json:"status" binding:"required,oneof=New Contacted Qualified Converted Lost"`
	ChangedBy *uuid.UUID `json:"-"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	Company           string           `json:"company"`
	Status            string           `json:"status"`
	Source            string           `json:"source"`
	Score             int              `json:"score"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value,omitempty"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date,omitempty"`
	Notes             string           `json:"notes"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=New Contacted Qualified Converted Lost"`
	Source   string `form:"source"`
	MinScore *int   `form:"min_score" binding:"omitempty,min=0,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToLeadResponse converts a domain Lead to LeadResponse
func ToLeadResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:                l.ID,
		Name:              l.Name,
		Email:             l.Email,
		Phone:             l.Phone,
		Company:           l.Company,
		Status:            string(l.Status),
		Source:            l.Source,
		Score:             l.Score,
		EstimatedValue:    l.EstimatedValue,
		ExpectedCloseDate: l.ExpectedCloseDate,
		Notes:             l.Notes,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		Version:           l.Version,
	}
}

// ToLeadResponses converts a slice of domain Leads
func ToLeadResponses(leads []lead.Lead) []LeadResponse {
	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		responses[i] = ToLeadResponse(&leads[i])
	}
	return responses
}
