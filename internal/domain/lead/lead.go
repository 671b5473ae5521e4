package lead

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeadStatus represents the qualification status of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"
)

// Lead represents a potential sale captured from some source.
// It is the aggregate root for lead-related operations.
type Lead struct {
	shared.BaseAggregateRoot
	Name              string           `gorm:"type:varchar(200);not null"`
	Email             string           `gorm:"type:varchar(200);not null;index"`
	Phone             string           `gorm:"type:varchar(50)"`
	Company           string           `gorm:"type:varchar(200)"`
	Status            LeadStatus       `gorm:"type:varchar(20);not null;default:'New'"`
	Source            string           `gorm:"type:varchar(100);not null"`
	Score             int              `gorm:"not null;default:0"`
	EstimatedValue    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ExpectedCloseDate *time.Time
	Notes             string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a new lead with required fields.
// Scores outside [0,100] are clamped rather than rejected.
func NewLead(name, email, source string, score int) (*Lead, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	if err := contact.ValidateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(source) == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Lead source is required")
	}

	lead := &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(email),
		Status:            LeadStatusNew,
		Source:            source,
		Score:             ClampScore(score),
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// ClampScore clamps a lead score to the [0,100] range
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// UpdateBasics updates the lead's identifying fields
func (l *Lead) UpdateBasics(name, email, phone, company string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Lead name is required")
	}
	if err := contact.ValidateEmail(email); err != nil {
		return err
	}

	l.Name = name
	l.Email = strings.ToLower(email)
	l.Phone = phone
	l.Company = company
	l.touch()

	return nil
}

// ChangeStatus moves the lead to a new status. Transitions are free-form.
func (l *Lead) ChangeStatus(status LeadStatus) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	if status == l.Status {
		return nil
	}

	previous := l.Status
	l.Status = status
	l.touch()
	l.AddDomainEvent(NewLeadStatusChangedEvent(l, previous))

	return nil
}

// Convert marks the lead as converted
func (l *Lead) Convert() error {
	return l.ChangeStatus(LeadStatusConverted)
}

// IsConverted reports whether the lead has been converted
func (l *Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}

// SetScore sets the lead score, clamping out-of-range values
func (l *Lead) SetScore(score int) {
	l.Score = ClampScore(score)
	l.touch()
}

// SetSource updates the lead's source
func (l *Lead) SetSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return shared.NewDomainError("INVALID_SOURCE", "Lead source is required")
	}
	l.Source = source
	l.touch()
	return nil
}

// SetEstimate sets the estimated value and expected close date
func (l *Lead) SetEstimate(value *decimal.Decimal, closeDate *time.Time) error {
	if value != nil && value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Estimated value cannot be negative")
	}
	l.EstimatedValue = value
	l.ExpectedCloseDate = closeDate
	l.touch()
	return nil
}

// SetNotes replaces the lead's notes
func (l *Lead) SetNotes(notes string) {
	l.Notes = notes
	l.touch()
}

func (l *Lead) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// ValidateStatus validates a lead status value
func ValidateStatus(status LeadStatus) error {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown lead status")
	}
}
