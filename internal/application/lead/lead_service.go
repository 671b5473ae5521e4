package lead

import (
	"context"
	"fmt"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadService handles lead-related business operations
type LeadService struct {
	leadRepo lead.LeadRepository
	recorder *appactivity.Recorder
}

// NewLeadService creates a new LeadService
func NewLeadService(leadRepo lead.LeadRepository, recorder *appactivity.Recorder) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		recorder: recorder,
	}
}

// Create creates a new lead
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	l, err := lead.NewLead(req.Name, req.Email, req.Source, req.Score)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Company != "" {
		if err := l.UpdateBasics(req.Name, req.Email, req.Phone, req.Company); err != nil {
			return nil, err
		}
	}
	if req.EstimatedValue != nil || req.ExpectedCloseDate != nil {
		if err := l.SetEstimate(req.EstimatedValue, req.ExpectedCloseDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		l.SetNotes(req.Notes)
	}

	if err := s.leadRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Lead created: "+l.Name, req.CreatedBy, &l.ID, "lead")

	response := ToLeadResponse(l)
	return &response, nil
}

// GetByID retrieves a lead by ID
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToLeadResponse(l)
	return &response, nil
}

// List retrieves leads with filtering and pagination
func (s *LeadService) List(ctx context.Context, filter LeadListFilter) ([]LeadResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.MinScore != nil {
		domainFilter.Filters["min_score"] = *filter.MinScore
	}

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeadResponses(leads), total, nil
}

// Update applies a partial update to a lead
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Email != nil || req.Phone != nil || req.Company != nil {
		name := l.Name
		email := l.Email
		phone := l.Phone
		company := l.Company
		if req.Name != nil {
			name = *req.Name
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Company != nil {
			company = *req.Company
		}
		if err := l.UpdateBasics(name, email, phone, company); err != nil {
			return nil, err
		}
	}

	if req.Source != nil {
		if err := l.SetSource(*req.Source); err != nil {
			return nil, err
		}
	}
	if req.Score != nil {
		l.SetScore(*req.Score)
	}
	if req.EstimatedValue != nil || req.ExpectedCloseDate != nil {
		value := l.EstimatedValue
		closeDate := l.ExpectedCloseDate
		if req.EstimatedValue != nil {
			value = req.EstimatedValue
		}
		if req.ExpectedCloseDate != nil {
			closeDate = req.ExpectedCloseDate
		}
		if err := l.SetEstimate(value, closeDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		l.SetNotes(*req.Notes)
	}

	if err := s.leadRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	response := ToLeadResponse(l)
	return &response, nil
}

// ChangeStatus moves a lead to a new status. Any status may follow any
// other, including reopening lost or converted leads.
func (s *LeadService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeLeadStatusRequest) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := l.Status
	if err := l.ChangeStatus(lead.LeadStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	if previous != l.Status {
		s.recorder.Record(ctx, activity.TypeStatusChange,
			fmt.Sprintf("Lead %q moved from %s to %s", l.Name, previous, l.Status),
			req.ChangedBy, &l.ID, "lead")
	}

	response := ToLeadResponse(l)
	return &response, nil
}

// Convert marks a lead as converted
func (s *LeadService) Convert(ctx context.Context, id uuid.UUID, convertedBy *uuid.UUID) (*LeadResponse, error) {
	return s.ChangeStatus(ctx, id, ChangeLeadStatusRequest{
		Status:    string(lead.LeadStatusConverted),
		ChangedBy: convertedBy,
	})
}

// Delete removes a lead
func (s *LeadService) Delete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Lead deleted: "+l.Name, deletedBy, &id, "lead")
	return nil
}
