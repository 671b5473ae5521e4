package activity

import (
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// CreateActivityRequest represents a request to log an activity
type CreateActivityRequest struct {
	Type          string     `json:"type" binding:"required,oneof=call email meeting note task stage_change status_change"`
	Description   string     `json:"description" binding:"required,min=1,max=2000"`
	RelatedToID   *uuid.UUID `json:"related_to_id"`
	RelatedToType string     `json:"related_to_type" binding:"omitempty,max=30"`
	UserID        *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	RelatedToID   *uuid.UUID `json:"related_to_id,omitempty"`
	RelatedToType string     `json:"related_to_type,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ActivityListFilter represents filter options for the activity feed
type ActivityListFilter struct {
	Search      string `form:"search"`
	Type        string `form:"type" binding:"omitempty,oneof=call email meeting note task stage_change status_change"`
	UserID      string `form:"user_id" binding:"omitempty,uuid"`
	RelatedToID string `form:"related_to_id" binding:"omitempty,uuid"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToActivityResponse converts a domain Activity to ActivityResponse
func ToActivityResponse(a *activity.Activity) ActivityResponse {
	return ActivityResponse{
		ID:            a.ID,
		Type:          string(a.Type),
		Description:   a.Description,
		UserID:        a.UserID,
		RelatedToID:   a.RelatedToID,
		RelatedToType: a.RelatedToType,
		CreatedAt:     a.CreatedAt,
	}
}

// ToActivityResponses converts a slice of domain Activities
func ToActivityResponses(activities []activity.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = ToActivityResponse(&activities[i])
	}
	return responses
}
