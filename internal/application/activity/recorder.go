package activity

import (
	"context"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder logs CRM events to the activity feed as a side effect of
// other operations. Recording failures are logged and swallowed so a
// feed outage never fails the primary write.
type Recorder struct {
	activityRepo activity.ActivityRepository
	logger       *zap.Logger
	enabled      bool
}

// NewRecorder creates a new Recorder. When enabled is false every
// Record call is a no-op.
func NewRecorder(activityRepo activity.ActivityRepository, logger *zap.Logger, enabled bool) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		activityRepo: activityRepo,
		logger:       logger,
		enabled:      enabled,
	}
}

// Record appends an activity describing something that just happened
func (r *Recorder) Record(ctx context.Context, activityType activity.ActivityType, description string, userID *uuid.UUID, relatedID *uuid.UUID, relatedType string) {
	if !r.enabled {
		return
	}

	a, err := activity.NewActivity(activityType, description)
	if err != nil {
		r.logger.Warn("Failed to build activity record",
			zap.String("type", string(activityType)),
			zap.Error(err))
		return
	}
	if userID != nil {
		a.WithUser(*userID)
	}
	if relatedID != nil {
		a.WithRelated(*relatedID, relatedType)
	}

	if err := r.activityRepo.Save(ctx, a); err != nil {
		r.logger.Warn("Failed to record activity",
			zap.String("type", string(activityType)),
			zap.String("description", description),
			zap.Error(err))
	}
}
