package activity

import (
	"context"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityService handles activity feed operations
type ActivityService struct {
	activityRepo activity.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo activity.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Create appends a manually logged activity to the feed
func (s *ActivityService) Create(ctx context.Context, req CreateActivityRequest) (*ActivityResponse, error) {
	a, err := activity.NewActivity(activity.ActivityType(req.Type), req.Description)
	if err != nil {
		return nil, err
	}
	if req.UserID != nil {
		a.WithUser(*req.UserID)
	}
	if req.RelatedToID != nil {
		a.WithRelated(*req.RelatedToID, req.RelatedToType)
	}

	if err := s.activityRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	response := ToActivityResponse(a)
	return &response, nil
}

// GetByID retrieves an activity by ID
func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (*ActivityResponse, error) {
	a, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToActivityResponse(a)
	return &response, nil
}

// List retrieves activities with filtering and pagination
func (s *ActivityService) List(ctx context.Context, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.UserID != "" {
		domainFilter.Filters["user_id"] = filter.UserID
	}
	if filter.RelatedToID != "" {
		domainFilter.Filters["related_to_id"] = filter.RelatedToID
	}

	activities, err := s.activityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.activityRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToActivityResponses(activities), total, nil
}

// Recent retrieves the most recent activities, newest first
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]ActivityResponse, error) {
	activities, err := s.activityRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(activities), nil
}
