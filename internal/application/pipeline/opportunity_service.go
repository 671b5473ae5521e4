package pipeline

import (
	"context"
	"fmt"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OpportunityService handles opportunity and pipeline business operations
type OpportunityService struct {
	opportunityRepo pipeline.OpportunityRepository
	recorder        *appactivity.Recorder
}

// NewOpportunityService creates a new OpportunityService
func NewOpportunityService(opportunityRepo pipeline.OpportunityRepository, recorder *appactivity.Recorder) *OpportunityService {
	return &OpportunityService{
		opportunityRepo: opportunityRepo,
		recorder:        recorder,
	}
}

// Create creates a new opportunity. It starts in the first pipeline stage
// unless the request names another one.
func (s *OpportunityService) Create(ctx context.Context, req CreateOpportunityRequest) (*OpportunityResponse, error) {
	o, err := pipeline.NewOpportunity(req.Name, req.AccountName, req.Amount, req.Probability, req.ExpectedCloseDate)
	if err != nil {
		return nil, err
	}

	if req.Stage != "" {
		if err := o.ChangeStage(pipeline.Stage(req.Stage)); err != nil {
			return nil, err
		}
	}
	if req.ContactID != nil {
		o.LinkContact(req.ContactID)
	}
	if req.Notes != "" {
		o.SetNotes(req.Notes)
	}

	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Opportunity created: "+o.Name, req.CreatedBy, &o.ID, "opportunity")

	response := ToOpportunityResponse(o)
	return &response, nil
}

// GetByID retrieves an opportunity by ID
func (s *OpportunityService) GetByID(ctx context.Context, id uuid.UUID) (*OpportunityResponse, error) {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(o)
	return &response, nil
}

// List retrieves opportunities with filtering and pagination
func (s *OpportunityService) List(ctx context.Context, filter OpportunityListFilter) ([]OpportunityResponse, int64, error) {
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
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.ContactID != "" {
		domainFilter.Filters["contact_id"] = filter.ContactID
	}

	opportunities, err := s.opportunityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.opportunityRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOpportunityResponses(opportunities), total, nil
}

// Update applies a partial update to an opportunity
func (s *OpportunityService) Update(ctx context.Context, id uuid.UUID, req UpdateOpportunityRequest) (*OpportunityResponse, error) {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.AccountName != nil {
		name := o.Name
		accountName := o.AccountName
		if req.Name != nil {
			name = *req.Name
		}
		if req.AccountName != nil {
			accountName = *req.AccountName
		}
		if err := o.UpdateBasics(name, accountName); err != nil {
			return nil, err
		}
	}

	if req.Amount != nil {
		if err := o.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Probability != nil {
		o.SetProbability(*req.Probability)
	}
	if req.ExpectedCloseDate != nil {
		if err := o.SetExpectedCloseDate(*req.ExpectedCloseDate); err != nil {
			return nil, err
		}
	}
	if req.ContactID != nil {
		o.LinkContact(req.ContactID)
	}
	if req.Notes != nil {
		o.SetNotes(*req.Notes)
	}

	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOpportunityResponse(o)
	return &response, nil
}

// ChangeStage moves an opportunity to a new pipeline stage. Any stage may
// follow any other, including reopening closed opportunities.
func (s *OpportunityService) ChangeStage(ctx context.Context, id uuid.UUID, req ChangeStageRequest) (*OpportunityResponse, error) {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := o.Stage
	if err := o.ChangeStage(pipeline.Stage(req.Stage)); err != nil {
		return nil, err
	}

	if err := s.opportunityRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	if previous != o.Stage {
		s.recorder.Record(ctx, activity.TypeStageChange,
			fmt.Sprintf("Opportunity %q moved from %s to %s", o.Name, previous, o.Stage),
			req.ChangedBy, &o.ID, "opportunity")
	}

	response := ToOpportunityResponse(o)
	return &response, nil
}

// PipelineView returns all opportunities grouped by stage, with every
// stage present in display order even when it holds no opportunities.
func (s *OpportunityService) PipelineView(ctx context.Context) (*PipelineViewResponse, error) {
	opportunities, err := s.opportunityRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	groups := pipeline.GroupByStage(opportunities)
	view := &PipelineViewResponse{
		Stages:        make([]StageGroupResponse, len(groups)),
		WeightedValue: pipeline.WeightedValue(opportunities),
	}
	for i, group := range groups {
		view.Stages[i] = StageGroupResponse{
			Stage:         string(group.Stage),
			Opportunities: ToOpportunityResponses(group.Opportunities),
			Count:         group.Count,
			TotalValue:    group.TotalValue,
		}
		view.TotalCount += group.Count
		view.TotalValue = view.TotalValue.Add(group.TotalValue)
	}

	return view, nil
}

// Delete removes an opportunity
func (s *OpportunityService) Delete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	o, err := s.opportunityRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.opportunityRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Opportunity deleted: "+o.Name, deletedBy, &id, "opportunity")
	return nil
}
