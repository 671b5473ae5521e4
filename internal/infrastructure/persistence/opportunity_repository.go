package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpportunityRepository implements OpportunityRepository using GORM
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewGormOpportunityRepository creates a new GormOpportunityRepository
func NewGormOpportunityRepository(db *gorm.DB) *GormOpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// FindByID finds an opportunity by its ID
func (r *GormOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Opportunity, error) {
	var model models.OpportunityModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all opportunities matching the filter
func (r *GormOpportunityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pipeline.Opportunity, error) {
	var oppModels []models.OpportunityModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OpportunityModel{}), filter)

	if err := query.Find(&oppModels).Error; err != nil {
		return nil, err
	}

	opportunities := make([]pipeline.Opportunity, len(oppModels))
	for i, model := range oppModels {
		opportunities[i] = *model.ToDomain()
	}
	return opportunities, nil
}

// FindByStage finds all opportunities in the given stage
func (r *GormOpportunityRepository) FindByStage(ctx context.Context, stage pipeline.Stage, filter shared.Filter) ([]pipeline.Opportunity, error) {
	var oppModels []models.OpportunityModel
	if err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order("expected_close_date ASC").
		Find(&oppModels).Error; err != nil {
		return nil, err
	}

	opportunities := make([]pipeline.Opportunity, len(oppModels))
	for i, model := range oppModels {
		opportunities[i] = *model.ToDomain()
	}
	return opportunities, nil
}

// Save creates or updates an opportunity
func (r *GormOpportunityRepository) Save(ctx context.Context, o *pipeline.Opportunity) error {
	model := models.OpportunityModelFromDomain(o)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an opportunity
func (r *GormOpportunityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OpportunityModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts opportunities matching the filter
func (r *GormOpportunityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OpportunityModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOpportunityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormOpportunityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR account_name ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "stage":
			query = query.Where("stage = ?", value)
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		case "min_amount":
			query = query.Where("amount >= ?", value)
		}
	}

	return query
}

// Ensure GormOpportunityRepository implements OpportunityRepository
var _ pipeline.OpportunityRepository = (*GormOpportunityRepository)(nil)
