package activity

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityType classifies an activity feed entry
type ActivityType string

const (
	TypeCall         ActivityType = "call"
	TypeEmail        ActivityType = "email"
	TypeMeeting      ActivityType = "meeting"
	TypeNote         ActivityType = "note"
	TypeTask         ActivityType = "task"
	TypeStageChange  ActivityType = "stage_change"
	TypeStatusChange ActivityType = "status_change"
)

// Activity is an immutable, append-only record of something that happened.
// Activities are never updated or deleted once written.
type Activity struct {
	shared.BaseEntity
	Type          ActivityType `gorm:"type:varchar(30);not null;index"`
	Description   string       `gorm:"type:text;not null"`
	UserID        *uuid.UUID   `gorm:"type:uuid;index"`
	RelatedToID   *uuid.UUID   `gorm:"type:uuid;index"`
	RelatedToType string       `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

// NewActivity creates a new activity record
func NewActivity(activityType ActivityType, description string) (*Activity, error) {
	if err := ValidateType(activityType); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Activity description is required")
	}

	return &Activity{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        activityType,
		Description: description,
	}, nil
}

// WithUser attributes the activity to a user
func (a *Activity) WithUser(userID uuid.UUID) *Activity {
	a.UserID = &userID
	return a
}

// WithRelated links the activity to another CRM record
func (a *Activity) WithRelated(relatedID uuid.UUID, relatedType string) *Activity {
	a.RelatedToID = &relatedID
	a.RelatedToType = relatedType
	return a
}

// Age returns how long ago the activity occurred
func (a *Activity) Age(now time.Time) time.Duration {
	return now.Sub(a.CreatedAt)
}

// ValidateType validates an activity type value
func ValidateType(t ActivityType) error {
	switch t {
	case TypeCall, TypeEmail, TypeMeeting, TypeNote, TypeTask, TypeStageChange, TypeStatusChange:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Unknown activity type")
	}
}
