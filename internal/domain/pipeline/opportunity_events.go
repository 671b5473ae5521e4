package pipeline

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOpportunity = "Opportunity"

// Event type constants
const (
	EventTypeOpportunityCreated      = "OpportunityCreated"
	EventTypeOpportunityStageChanged = "OpportunityStageChanged"
)

// OpportunityCreatedEvent is published when a new opportunity is created
type OpportunityCreatedEvent struct {
	shared.BaseDomainEvent
	OpportunityID uuid.UUID       `json:"opportunity_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewOpportunityCreatedEvent creates a new OpportunityCreatedEvent
func NewOpportunityCreatedEvent(o *Opportunity) *OpportunityCreatedEvent {
	return &OpportunityCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityCreated, AggregateTypeOpportunity, o.ID),
		OpportunityID:   o.ID,
		Name:            o.Name,
		Amount:          o.Amount,
	}
}

// OpportunityStageChangedEvent is published when an opportunity moves stage
type OpportunityStageChangedEvent struct {
	shared.BaseDomainEvent
	OpportunityID uuid.UUID `json:"opportunity_id"`
	PreviousStage Stage     `json:"previous_stage"`
	NewStage      Stage     `json:"new_stage"`
}

// NewOpportunityStageChangedEvent creates a new OpportunityStageChangedEvent
func NewOpportunityStageChangedEvent(o *Opportunity, previous Stage) *OpportunityStageChangedEvent {
	return &OpportunityStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpportunityStageChanged, AggregateTypeOpportunity, o.ID),
		OpportunityID:   o.ID,
		PreviousStage:   previous,
		NewStage:        o.Stage,
	}
}
