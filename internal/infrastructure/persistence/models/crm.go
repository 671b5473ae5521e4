package models

import (
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/task"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	AggregateModel
	FirstName  string                `gorm:"type:varchar(100);not null"`
	LastName   string                `gorm:"type:varchar(100);not null"`
	Email      string                `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone      string                `gorm:"type:varchar(50)"`
	Company    string                `gorm:"type:varchar(200);index"`
	Position   string                `gorm:"type:varchar(100)"`
	Status     contact.ContactStatus `gorm:"type:varchar(20);not null;default:'Active';index"`
	Source     string                `gorm:"type:varchar(100)"`
	Tags       string                `gorm:"type:text"` // JSON-encoded string array
	Notes      string                `gorm:"type:text"`
	AssignedTo *uuid.UUID            `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *contact.Contact {
	var tags []string
	if m.Tags != "" {
		_ = json.Unmarshal([]byte(m.Tags), &tags)
	}
	if tags == nil {
		tags = []string{}
	}
	return &contact.Contact{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Company:           m.Company,
		Position:          m.Position,
		Status:            m.Status,
		Source:            m.Source,
		Tags:              tags,
		Notes:             m.Notes,
		AssignedTo:        m.AssignedTo,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *contact.Contact) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Company = c.Company
	m.Position = c.Position
	m.Status = c.Status
	m.Source = c.Source
	tags, _ := json.Marshal(c.Tags)
	m.Tags = string(tags)
	m.Notes = c.Notes
	m.AssignedTo = c.AssignedTo
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// LeadModel is the persistence model for the Lead domain entity.
type LeadModel struct {
	AggregateModel
	Name              string           `gorm:"type:varchar(200);not null"`
	Email             string           `gorm:"type:varchar(200);not null;index"`
	Phone             string           `gorm:"type:varchar(50)"`
	Company           string           `gorm:"type:varchar(200)"`
	Status            lead.LeadStatus  `gorm:"type:varchar(20);not null;default:'New';index"`
	Source            string           `gorm:"type:varchar(100);not null;index"`
	Score             int              `gorm:"not null;default:0"`
	EstimatedValue    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ExpectedCloseDate *time.Time
	Notes             string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead entity.
func (m *LeadModel) ToDomain() *lead.Lead {
	return &lead.Lead{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Company:           m.Company,
		Status:            m.Status,
		Source:            m.Source,
		Score:             m.Score,
		EstimatedValue:    m.EstimatedValue,
		ExpectedCloseDate: m.ExpectedCloseDate,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Lead entity.
func (m *LeadModel) FromDomain(l *lead.Lead) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Name = l.Name
	m.Email = l.Email
	m.Phone = l.Phone
	m.Company = l.Company
	m.Status = l.Status
	m.Source = l.Source
	m.Score = l.Score
	m.EstimatedValue = l.EstimatedValue
	m.ExpectedCloseDate = l.ExpectedCloseDate
	m.Notes = l.Notes
}

// LeadModelFromDomain creates a new persistence model from a domain Lead entity.
func LeadModelFromDomain(l *lead.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// OpportunityModel is the persistence model for the Opportunity domain entity.
type OpportunityModel struct {
	AggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	AccountName       string          `gorm:"type:varchar(200);not null"`
	Stage             pipeline.Stage  `gorm:"type:varchar(20);not null;default:'Prospecting';index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Probability       int             `gorm:"not null;default:0"`
	ExpectedCloseDate time.Time       `gorm:"not null"`
	ContactID         *uuid.UUID      `gorm:"type:uuid;index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OpportunityModel) TableName() string {
	return "opportunities"
}

// ToDomain converts the persistence model to a domain Opportunity entity.
func (m *OpportunityModel) ToDomain() *pipeline.Opportunity {
	return &pipeline.Opportunity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		AccountName:       m.AccountName,
		Stage:             m.Stage,
		Amount:            m.Amount,
		Probability:       m.Probability,
		ExpectedCloseDate: m.ExpectedCloseDate,
		ContactID:         m.ContactID,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Opportunity entity.
func (m *OpportunityModel) FromDomain(o *pipeline.Opportunity) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Name = o.Name
	m.AccountName = o.AccountName
	m.Stage = o.Stage
	m.Amount = o.Amount
	m.Probability = o.Probability
	m.ExpectedCloseDate = o.ExpectedCloseDate
	m.ContactID = o.ContactID
	m.Notes = o.Notes
}

// OpportunityModelFromDomain creates a new persistence model from a domain Opportunity entity.
func OpportunityModelFromDomain(o *pipeline.Opportunity) *OpportunityModel {
	m := &OpportunityModel{}
	m.FromDomain(o)
	return m
}

// TaskModel is the persistence model for the Task domain entity.
// The related record link is flattened into three nullable columns.
type TaskModel struct {
	AggregateModel
	Title         string            `gorm:"type:varchar(200);not null"`
	Description   string            `gorm:"type:text"`
	Priority      task.TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'"`
	Status        task.TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo';index"`
	DueDate       *time.Time        `gorm:"index"`
	RelatedToType string            `gorm:"type:varchar(30)"`
	RelatedToID   *uuid.UUID        `gorm:"type:uuid;index"`
	RelatedToName string            `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	t := &task.Task{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Priority:          m.Priority,
		Status:            m.Status,
		DueDate:           m.DueDate,
	}
	if m.RelatedToID != nil {
		t.RelatedTo = &task.RelatedTo{
			Type: task.RelatedType(m.RelatedToType),
			ID:   *m.RelatedToID,
			Name: m.RelatedToName,
		}
	}
	return t
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.Priority = t.Priority
	m.Status = t.Status
	m.DueDate = t.DueDate
	if t.RelatedTo != nil {
		m.RelatedToType = string(t.RelatedTo.Type)
		id := t.RelatedTo.ID
		m.RelatedToID = &id
		m.RelatedToName = t.RelatedTo.Name
	} else {
		m.RelatedToType = ""
		m.RelatedToID = nil
		m.RelatedToName = ""
	}
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}

// ActivityModel is the persistence model for the Activity domain entity.
type ActivityModel struct {
	BaseModel
	Type          activity.ActivityType `gorm:"type:varchar(30);not null;index"`
	Description   string                `gorm:"type:text;not null"`
	UserID        *uuid.UUID            `gorm:"type:uuid;index"`
	RelatedToID   *uuid.UUID            `gorm:"type:uuid;index"`
	RelatedToType string                `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity entity.
func (m *ActivityModel) ToDomain() *activity.Activity {
	return &activity.Activity{
		BaseEntity:    m.BaseModel.ToDomain(),
		Type:          m.Type,
		Description:   m.Description,
		UserID:        m.UserID,
		RelatedToID:   m.RelatedToID,
		RelatedToType: m.RelatedToType,
	}
}

// FromDomain populates the persistence model from a domain Activity entity.
func (m *ActivityModel) FromDomain(a *activity.Activity) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Type = a.Type
	m.Description = a.Description
	m.UserID = a.UserID
	m.RelatedToID = a.RelatedToID
	m.RelatedToType = a.RelatedToType
}

// ActivityModelFromDomain creates a new persistence model from a domain Activity entity.
func ActivityModelFromDomain(a *activity.Activity) *ActivityModel {
	m := &ActivityModel{}
	m.FromDomain(a)
	return m
}

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	FirstName    string        `gorm:"type:varchar(100);not null"`
	LastName     string        `gorm:"type:varchar(100);not null"`
	PasswordHash string        `gorm:"type:varchar(200);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'Sales'"`
	Permissions  string        `gorm:"type:text"` // JSON-encoded string array of explicit grants
	IsActive     bool          `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	var perms []string
	if m.Permissions != "" {
		_ = json.Unmarshal([]byte(m.Permissions), &perms)
	}
	if perms == nil {
		perms = []string{}
	}
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Permissions:       perms,
		IsActive:          m.IsActive,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	perms, _ := json.Marshal(u.Permissions)
	m.Permissions = string(perms)
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
