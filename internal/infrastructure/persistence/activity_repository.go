package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityRepository implements ActivityRepository using GORM.
// The activity feed is append-only, so there are no update or delete paths.
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*activity.Activity, error) {
	var model models.ActivityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all activities matching the filter
func (r *GormActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]activity.Activity, error) {
	var activityModels []models.ActivityModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ActivityModel{}), filter)

	if err := query.Find(&activityModels).Error; err != nil {
		return nil, err
	}

	activities := make([]activity.Activity, len(activityModels))
	for i, model := range activityModels {
		activities[i] = *model.ToDomain()
	}
	return activities, nil
}

// FindRecent finds the most recent activities, newest first
func (r *GormActivityRepository) FindRecent(ctx context.Context, limit int) ([]activity.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	var activityModels []models.ActivityModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&activityModels).Error; err != nil {
		return nil, err
	}

	activities := make([]activity.Activity, len(activityModels))
	for i, model := range activityModels {
		activities[i] = *model.ToDomain()
	}
	return activities, nil
}

// Save appends an activity to the feed
func (r *GormActivityRepository) Save(ctx context.Context, a *activity.Activity) error {
	model := models.ActivityModelFromDomain(a)
	return r.db.WithContext(ctx).Create(model).Error
}

// Count counts activities matching the filter
func (r *GormActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ActivityModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormActivityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ?", searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "related_to_id":
			query = query.Where("related_to_id = ?", value)
		case "since":
			query = query.Where("created_at >= ?", value)
		}
	}

	return query
}

// Ensure GormActivityRepository implements ActivityRepository
var _ activity.ActivityRepository = (*GormActivityRepository)(nil)
