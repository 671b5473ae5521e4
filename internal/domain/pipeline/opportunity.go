package pipeline

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage represents a step in the sales pipeline
type Stage string

const (
	StageProspecting   Stage = "Prospecting"
	StageQualification Stage = "Qualification"
	StageProposal      Stage = "Proposal"
	StageNegotiation   Stage = "Negotiation"
	StageClosedWon     Stage = "Closed Won"
	StageClosedLost    Stage = "Closed Lost"
)

// Stages lists all pipeline stages in display order
var Stages = []Stage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Opportunity represents a potential deal moving through the pipeline.
// It is the aggregate root for pipeline operations.
type Opportunity struct {
	shared.BaseAggregateRoot
	Name              string          `gorm:"type:varchar(200);not null"`
	AccountName       string          `gorm:"type:varchar(200);not null"`
	Stage             Stage           `gorm:"type:varchar(20);not null;default:'Prospecting';index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Probability       int             `gorm:"not null;default:0"`
	ExpectedCloseDate time.Time       `gorm:"not null"`
	ContactID         *uuid.UUID      `gorm:"type:uuid;index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Opportunity) TableName() string {
	return "opportunities"
}

// NewOpportunity creates a new opportunity.
// Amount must be non-negative; probability is clamped to [0,100].
func NewOpportunity(name, accountName string, amount decimal.Decimal, probability int, closeDate time.Time) (*Opportunity, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Opportunity name is required")
	}
	if strings.TrimSpace(accountName) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account name is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if closeDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_CLOSE_DATE", "Expected close date is required")
	}

	opp := &Opportunity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		AccountName:       accountName,
		Stage:             StageProspecting,
		Amount:            amount,
		Probability:       ClampProbability(probability),
		ExpectedCloseDate: closeDate,
	}

	opp.AddDomainEvent(NewOpportunityCreatedEvent(opp))

	return opp, nil
}

// ClampProbability clamps a win probability to the [0,100] range
func ClampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ChangeStage moves the opportunity to a new pipeline stage.
// Any stage may transition to any other stage, including out of
// the terminal Closed Won / Closed Lost stages.
func (o *Opportunity) ChangeStage(stage Stage) error {
	if err := ValidateStage(stage); err != nil {
		return err
	}
	if stage == o.Stage {
		return nil
	}

	previous := o.Stage
	o.Stage = stage
	o.touch()
	o.AddDomainEvent(NewOpportunityStageChangedEvent(o, previous))

	return nil
}

// UpdateBasics updates the opportunity's identifying fields
func (o *Opportunity) UpdateBasics(name, accountName string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Opportunity name is required")
	}
	if strings.TrimSpace(accountName) == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account name is required")
	}

	o.Name = name
	o.AccountName = accountName
	o.touch()

	return nil
}

// SetAmount sets the deal amount
func (o *Opportunity) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	o.Amount = amount
	o.touch()
	return nil
}

// SetProbability sets the win probability, clamping out-of-range values
func (o *Opportunity) SetProbability(p int) {
	o.Probability = ClampProbability(p)
	o.touch()
}

// SetExpectedCloseDate sets the expected close date
func (o *Opportunity) SetExpectedCloseDate(d time.Time) error {
	if d.IsZero() {
		return shared.NewDomainError("INVALID_CLOSE_DATE", "Expected close date is required")
	}
	o.ExpectedCloseDate = d
	o.touch()
	return nil
}

// LinkContact associates the opportunity with a contact
func (o *Opportunity) LinkContact(contactID *uuid.UUID) {
	o.ContactID = contactID
	o.touch()
}

// SetNotes replaces the opportunity's notes
func (o *Opportunity) SetNotes(notes string) {
	o.Notes = notes
	o.touch()
}

// IsClosed reports whether the opportunity is in a terminal stage
func (o *Opportunity) IsClosed() bool {
	return o.Stage == StageClosedWon || o.Stage == StageClosedLost
}

// IsWon reports whether the opportunity was closed as won
func (o *Opportunity) IsWon() bool {
	return o.Stage == StageClosedWon
}

// WeightedValue returns amount multiplied by probability/100 as an exact decimal
func (o *Opportunity) WeightedValue() decimal.Decimal {
	return o.Amount.Mul(decimal.NewFromInt(int64(o.Probability))).Div(decimal.NewFromInt(100))
}

func (o *Opportunity) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// ValidateStage validates a pipeline stage value
func ValidateStage(stage Stage) error {
	for _, s := range Stages {
		if s == stage {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STAGE", "Unknown pipeline stage")
}
