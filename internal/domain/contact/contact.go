package contact

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactStatus represents the status of a contact
type ContactStatus string

const (
	ContactStatusActive   ContactStatus = "Active"
	ContactStatusInactive ContactStatus = "Inactive"
)

// Contact represents a person or business relationship in the CRM.
// It is the aggregate root for contact-related operations.
type Contact struct {
	shared.BaseAggregateRoot
	FirstName  string        `gorm:"type:varchar(100);not null"`
	LastName   string        `gorm:"type:varchar(100);not null"`
	Email      string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone      string        `gorm:"type:varchar(50)"`
	Company    string        `gorm:"type:varchar(200)"`
	Position   string        `gorm:"type:varchar(100)"`
	Status     ContactStatus `gorm:"type:varchar(20);not null;default:'Active'"`
	Source     string        `gorm:"type:varchar(100)"`
	Tags       []string      `gorm:"-"`
	Notes      string        `gorm:"type:text"`
	AssignedTo *uuid.UUID    `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "contacts"
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewContact creates a new contact with required fields
func NewContact(firstName, lastName, email string) (*Contact, error) {
	if err := validateName(firstName, "first name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	contact := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             strings.ToLower(email),
		Status:            ContactStatusActive,
		Tags:              []string{},
	}

	contact.AddDomainEvent(NewContactCreatedEvent(contact))

	return contact, nil
}

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// UpdateName updates the contact's name
func (c *Contact) UpdateName(firstName, lastName string) error {
	if err := validateName(firstName, "first name"); err != nil {
		return err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return err
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.touch()

	return nil
}

// UpdateEmail updates the contact's email address
func (c *Contact) UpdateEmail(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	c.Email = strings.ToLower(email)
	c.touch()

	return nil
}

// UpdateDetails updates the contact's optional company details
func (c *Contact) UpdateDetails(phone, company, position, source string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if len(company) > 200 {
		return shared.NewDomainError("INVALID_COMPANY", "Company cannot exceed 200 characters")
	}
	if len(position) > 100 {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot exceed 100 characters")
	}

	c.Phone = phone
	c.Company = company
	c.Position = position
	c.Source = source
	c.touch()

	return nil
}

// SetStatus changes the contact's status
func (c *Contact) SetStatus(status ContactStatus) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}

	c.Status = status
	c.touch()

	return nil
}

// SetTags replaces the contact's tags
func (c *Contact) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	c.Tags = tags
	c.touch()
}

// SetNotes replaces the contact's notes
func (c *Contact) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// AssignTo assigns the contact to a user
func (c *Contact) AssignTo(userID *uuid.UUID) {
	c.AssignedTo = userID
	c.touch()
}

func (c *Contact) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewContactUpdatedEvent(c))
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

// ValidateStatus validates a contact status value
func ValidateStatus(status ContactStatus) error {
	switch status {
	case ContactStatusActive, ContactStatusInactive:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Status must be Active or Inactive")
	}
}

func validateName(name, field string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Contact "+field+" is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Contact "+field+" cannot exceed 100 characters")
	}
	return nil
}
