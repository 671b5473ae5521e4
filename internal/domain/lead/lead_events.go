package lead

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeLead = "Lead"

// Event type constants
const (
	EventTypeLeadCreated       = "LeadCreated"
	EventTypeLeadStatusChanged = "LeadStatusChanged"
)

// LeadCreatedEvent is published when a new lead is created
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	LeadID uuid.UUID `json:"lead_id"`
	Name   string    `json:"name"`
	Source string    `json:"source"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(l *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadCreated, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		Name:            l.Name,
		Source:          l.Source,
	}
}

// LeadStatusChangedEvent is published when a lead moves to a new status
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	LeadID         uuid.UUID  `json:"lead_id"`
	PreviousStatus LeadStatus `json:"previous_status"`
	NewStatus      LeadStatus `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(l *Lead, previous LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		PreviousStatus:  previous,
		NewStatus:       l.Status,
	}
}
