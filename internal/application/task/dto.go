package task

import (
	"time"

	"github.com/crm/backend/internal/domain/task"
	"github.com/google/uuid"
)

// RelatedToRequest links a task to another CRM record. The referenced
// record's display name is captured server-side, not taken from the client.
type RelatedToRequest struct {
	Type string    `json:"type" binding:"required,oneof=Contact Lead Opportunity"`
	ID   uuid.UUID `json:"id" binding:"required"`
}

// CreateTaskRequest represents a request to create a new task
type CreateTaskRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=200"`
	Description string            `json:"description"`
	Priority    string            `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     *time.Time        `json:"due_date"`
	RelatedTo   *RelatedToRequest `json:"related_to"`
	CreatedBy   *uuid.UUID        `json:"-"` // Set from JWT context, not from request body
}

// UpdateTaskRequest represents a partial update to a task
type UpdateTaskRequest struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string           `json:"description"`
	Priority    *string           `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	Status      *string           `json:"status" binding:"omitempty,oneof=Todo 'In Progress' Completed Cancelled"`
	DueDate     *time.Time        `json:"due_date"`
	RelatedTo   *RelatedToRequest `json:"related_to"`
	ClearDue    bool              `json:"clear_due_date"`
	ClearLink   bool              `json:"clear_related_to"`
	UpdatedBy   *uuid.UUID        `json:"-"`
}

// RelatedToResponse is the snapshot of the linked record
type RelatedToResponse struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    string             `json:"priority"`
	Status      string             `json:"status"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	RelatedTo   *RelatedToResponse `json:"related_to,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// TaskListFilter represents filter options for the task list
type TaskListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=Todo 'In Progress' Completed Cancelled"`
	Priority    string     `form:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	RelatedToID string     `form:"related_to_id" binding:"omitempty,uuid"`
	DueBefore   *time.Time `form:"due_before"`
	Overdue     bool       `form:"overdue"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *task.Task) TaskResponse {
	response := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
	if t.RelatedTo != nil {
		response.RelatedTo = &RelatedToResponse{
			Type: string(t.RelatedTo.Type),
			ID:   t.RelatedTo.ID,
			Name: t.RelatedTo.Name,
		}
	}
	return response
}

// ToTaskResponses converts a slice of domain Tasks
func ToTaskResponses(tasks []task.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}
