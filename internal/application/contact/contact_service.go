package contact

import (
	"context"

	appactivity "github.com/crm/backend/internal/application/activity"
	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactService handles contact-related business operations
type ContactService struct {
	contactRepo contact.ContactRepository
	recorder    *appactivity.Recorder
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo contact.ContactRepository, recorder *appactivity.Recorder) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		recorder:    recorder,
	}
}

// Create creates a new contact
func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*ContactResponse, error) {
	exists, err := s.contactRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Contact with this email already exists")
	}

	c, err := contact.NewContact(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Company != "" || req.Position != "" || req.Source != "" {
		if err := c.UpdateDetails(req.Phone, req.Company, req.Position, req.Source); err != nil {
			return nil, err
		}
	}
	if len(req.Tags) > 0 {
		c.SetTags(req.Tags)
	}
	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}
	if req.AssignedTo != nil {
		c.AssignTo(req.AssignedTo)
	}

	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Contact created: "+c.FullName(), req.CreatedBy, &c.ID, "contact")

	response := ToContactResponse(c)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// List retrieves contacts with filtering and pagination
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) ([]ContactResponse, int64, error) {
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
	if filter.Company != "" {
		domainFilter.Filters["company"] = filter.Company
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters["assigned_to"] = filter.AssignedTo
	}

	contacts, err := s.contactRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contactRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToContactResponses(contacts), total, nil
}

// Update applies a partial update to a contact. Absent fields keep
// their stored values.
func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		firstName := c.FirstName
		lastName := c.LastName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		if req.LastName != nil {
			lastName = *req.LastName
		}
		if err := c.UpdateName(firstName, lastName); err != nil {
			return nil, err
		}
	}

	if req.Email != nil && *req.Email != c.Email {
		exists, err := s.contactRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Contact with this email already exists")
		}
		if err := c.UpdateEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.Company != nil || req.Position != nil || req.Source != nil {
		phone := c.Phone
		company := c.Company
		position := c.Position
		source := c.Source
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Company != nil {
			company = *req.Company
		}
		if req.Position != nil {
			position = *req.Position
		}
		if req.Source != nil {
			source = *req.Source
		}
		if err := c.UpdateDetails(phone, company, position, source); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := c.SetStatus(contact.ContactStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		c.SetTags(*req.Tags)
	}
	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}
	if req.AssignedTo != nil {
		c.AssignTo(req.AssignedTo)
	}

	if err := s.contactRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Contact updated: "+c.FullName(), req.UpdatedBy, &c.ID, "contact")

	response := ToContactResponse(c)
	return &response, nil
}

// Delete removes a contact. Deleting an already deleted contact
// reports not found.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.TypeNote, "Contact deleted: "+c.FullName(), deletedBy, &id, "contact")
	return nil
}
