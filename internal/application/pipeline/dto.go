package pipeline

import (
	"time"

	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOpportunityRequest represents a request to create a new opportunity
type CreateOpportunityRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	AccountName       string          `json:"account_name" binding:"required,min=1,max=200"`
	Stage             string          `json:"stage" binding:"omitempty,oneof=Prospecting Qualification Proposal Negotiation 'Closed Won' 'Closed Lost'"`
	Amount            decimal.Decimal `json:"amount" binding:"gte=0"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate time.Time       `json:"expected_close_date" binding:"required"`
	ContactID         *uuid.UUID      `json:"contact_id"`
	Notes             string          `json:"notes"`
	CreatedBy         *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// UpdateOpportunityRequest represents a partial update to an opportunity
type UpdateOpportunityRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	AccountName       *string          `json:"account_name" binding:"omitempty,min=1,max=200"`
	Amount            *decimal.Decimal `json:"amount" binding:"omitempty,gte=0"`
	Probability       *int             `json:"probability"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	ContactID         *uuid.UUID       `json:"contact_id"`
	Notes             *string          `json:"notes"`
	UpdatedBy         *uuid.UUID       `json:"-"`
}

// ChangeStageRequest represents a request to move an opportunity to a new stage
type ChangeStageRequest struct {
	Stage     string     `json:"stage" binding:"required,oneof=Prospecting Qualification Proposal Negotiation 'Closed Won' 'Closed Lost'"`
	ChangedBy *uuid.UUID `json:"-"`
}

// OpportunityResponse represents an opportunity in API responses
type OpportunityResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	AccountName       string          `json:"account_name"`
	Stage             string          `json:"stage"`
	Amount            decimal.Decimal `json:"amount"`
	Probability       int             `json:"probability"`
	WeightedValue     decimal.Decimal `json:"weighted_value"`
	ExpectedCloseDate time.Time       `json:"expected_close_date"`
	ContactID         *uuid.UUID      `json:"contact_id,omitempty"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// OpportunityListFilter represents filter options for the opportunity list
type OpportunityListFilter struct {
	Search    string `form:"search"`
	Stage     string `form:"stage" binding:"omitempty,oneof=Prospecting Qualification Proposal Negotiation 'Closed Won' 'Closed Lost'"`
	ContactID string `form:"contact_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StageGroupResponse is one column of the pipeline board view
type StageGroupResponse struct {
	Stage         string                `json:"stage"`
	Opportunities []OpportunityResponse `json:"opportunities"`
	Count         int                   `json:"count"`
	TotalValue    decimal.Decimal       `json:"total_value"`
}

// PipelineViewResponse is the full pipeline board with aggregate totals
type PipelineViewResponse struct {
	Stages        []StageGroupResponse `json:"stages"`
	TotalCount    int                  `json:"total_count"`
	TotalValue    decimal.Decimal      `json:"total_value"`
	WeightedValue decimal.Decimal      `json:"weighted_value"`
}

// ToOpportunityResponse converts a domain Opportunity to OpportunityResponse
func ToOpportunityResponse(o *pipeline.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:                o.ID,
		Name:              o.Name,
		AccountName:       o.AccountName,
		Stage:             string(o.Stage),
		Amount:            o.Amount,
		Probability:       o.Probability,
		WeightedValue:     o.WeightedValue(),
		ExpectedCloseDate: o.ExpectedCloseDate,
		ContactID:         o.ContactID,
		Notes:             o.Notes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToOpportunityResponses converts a slice of domain Opportunities
func ToOpportunityResponses(opportunities []pipeline.Opportunity) []OpportunityResponse {
	responses := make([]OpportunityResponse, len(opportunities))
	for i := range opportunities {
		responses[i] = ToOpportunityResponse(&opportunities[i])
	}
	return responses
}
