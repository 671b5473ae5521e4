package task

import (
	"context"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/task"
	"github.com/google/uuid"
)

// TaskService handles task-related business operations. It resolves the
// display name of linked records at link time, so the stored snapshot
// survives later edits or deletion of the referenced record.
type TaskService struct {
	taskRepo        task.TaskRepository
	contactRepo     contact.ContactRepository
	leadRepo        lead.LeadRepository
	opportunityRepo pipeline.OpportunityRepository
	recorder        *appactivity.Recorder
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo task.TaskRepository,
	contactRepo contact.ContactRepository,
	leadRepo lead.LeadRepository,
	opportunityRepo pipeline.OpportunityRepository,
	recorder *appactivity.Recorder,
) *TaskService {
	return &TaskService{
		taskRepo:        taskRepo,
		contactRepo:     contactRepo,
		leadRepo:        leadRepo,
		opportunityRepo: opportunityRepo,
		recorder:        recorder,
	}
}

// Create creates a new task
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(req.Title, task.TaskPriority(req.Priority))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		t.SetDescription(req.Description)
	}
	if req.DueDate != nil {
		t.SetDueDate(req.DueDate)
	}
	if req.RelatedTo != nil {
		related, err := s.resolveRelated(ctx, req.RelatedTo)
		if err != nil {
			return nil, err
		}
		if err := t.LinkTo(related); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.TypeTask, "Task created: "+t.Title, req.CreatedBy, &t.ID, "task")

	response := ToTaskResponse(t)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, filter TaskListFilter) ([]TaskResponse, int64, error) {
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
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.RelatedToID != "" {
		domainFilter.Filters["related_to_id"] = filter.RelatedToID
	}
	if filter.DueBefore != nil {
		domainFilter.Filters["due_before"] = *filter.DueBefore
	}
	if filter.Overdue {
		domainFilter.Filters["overdue"] = true
	}

	tasks, err := s.taskRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTaskResponses(tasks), total, nil
}

// Update applies a partial update to a task
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := t.Status

	if req.Title != nil {
		if err := t.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.SetDescription(*req.Description)
	}
	if req.Priority != nil {
		if err := t.SetPriority(task.TaskPriority(*req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := t.SetStatus(task.TaskStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.ClearDue {
		t.SetDueDate(nil)
	} else if req.DueDate != nil {
		t.SetDueDate(req.DueDate)
	}
	if req.ClearLink {
		if err := t.LinkTo(nil); err != nil {
			return nil, err
		}
	} else if req.RelatedTo != nil {
		related, err := s.resolveRelated(ctx, req.RelatedTo)
		if err != nil {
			return nil, err
		}
		if err := t.LinkTo(related); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if previousStatus != task.StatusCompleted && t.Status == task.StatusCompleted {
		s.recorder.Record(ctx, activity.TypeTask, "Task completed: "+t.Title, req.UpdatedBy, &t.ID, "task")
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// Complete marks a task as completed
func (s *TaskService) Complete(ctx context.Context, id uuid.UUID, completedBy *uuid.UUID) (*TaskResponse, error) {
	status := string(task.StatusCompleted)
	return s.Update(ctx, id, UpdateTaskRequest{Status: &status, UpdatedBy: completedBy})
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	t, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.TypeTask, "Task deleted: "+t.Title, deletedBy, &id, "task")
	return nil
}

// resolveRelated looks up the referenced record and captures its display
// name into the link snapshot. A missing record fails the whole operation.
func (s *TaskService) resolveRelated(ctx context.Context, req *RelatedToRequest) (*task.RelatedTo, error) {
	related := &task.RelatedTo{
		Type: task.RelatedType(req.Type),
		ID:   req.ID,
	}

	switch related.Type {
	case task.RelatedTypeContact:
		c, err := s.contactRepo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		related.Name = c.FullName()
	case task.RelatedTypeLead:
		l, err := s.leadRepo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		related.Name = l.Name
	case task.RelatedTypeOpportunity:
		o, err := s.opportunityRepo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		related.Name = o.Name
	default:
		return nil, shared.NewDomainError("INVALID_RELATED", "Unknown related record type")
	}

	return related, nil
}
