package task

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

// TaskStatus represents the completion state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "Todo"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
)

// RelatedType identifies which kind of record a task points at
type RelatedType string

const (
	RelatedTypeContact     RelatedType = "Contact"
	RelatedTypeLead        RelatedType = "Lead"
	RelatedTypeOpportunity RelatedType = "Opportunity"
)

// RelatedTo links a task to another CRM record. Name is a denormalized
// snapshot taken when the link is set; deleting the referenced record does
// not cascade here and the snapshot name remains.
type RelatedTo struct {
	Type RelatedType `json:"type"`
	ID   uuid.UUID   `json:"id"`
	Name string      `json:"name"`
}

// Task represents a unit of work, optionally linked to a CRM record.
// It is the aggregate root for task operations.
type Task struct {
	shared.BaseAggregateRoot
	Title       string       `gorm:"type:varchar(200);not null"`
	Description string       `gorm:"type:text"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo';index"`
	DueDate     *time.Time   `gorm:"index"`
	RelatedTo   *RelatedTo   `gorm:"-"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new task with required fields
func NewTask(title string, priority TaskPriority) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}

	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Priority:          priority,
		Status:            StatusTodo,
	}, nil
}

// UpdateTitle updates the task title
func (t *Task) UpdateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title is required")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	t.Title = title
	t.touch()
	return nil
}

// SetDescription replaces the task description
func (t *Task) SetDescription(description string) {
	t.Description = description
	t.touch()
}

// SetPriority changes the task priority
func (t *Task) SetPriority(priority TaskPriority) error {
	if err := ValidatePriority(priority); err != nil {
		return err
	}
	t.Priority = priority
	t.touch()
	return nil
}

// SetStatus changes the task status
func (t *Task) SetStatus(status TaskStatus) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	t.Status = status
	t.touch()
	return nil
}

// SetDueDate sets or clears the due date
func (t *Task) SetDueDate(due *time.Time) {
	t.DueDate = due
	t.touch()
}

// LinkTo sets the related record snapshot
func (t *Task) LinkTo(related *RelatedTo) error {
	if related != nil {
		if err := ValidateRelatedType(related.Type); err != nil {
			return err
		}
		if related.ID == uuid.Nil {
			return shared.NewDomainError("INVALID_RELATED", "Related record ID is required")
		}
	}
	t.RelatedTo = related
	t.touch()
	return nil
}

// IsActive reports whether the task still counts as open work
func (t *Task) IsActive() bool {
	return t.Status != StatusCompleted
}

func (t *Task) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ValidatePriority validates a task priority value
func ValidatePriority(p TaskPriority) error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
}

// ValidateStatus validates a task status value
func ValidateStatus(s TaskStatus) error {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown task status")
	}
}

// ValidateRelatedType validates a related record type
func ValidateRelatedType(rt RelatedType) error {
	switch rt {
	case RelatedTypeContact, RelatedTypeLead, RelatedTypeOpportunity:
		return nil
	default:
		return shared.NewDomainError("INVALID_RELATED", "Unknown related record type")
	}
}
