package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User is the authenticated principal that owns agents and leads
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
}

func (User) TableName() string {
	return "users"
}

// Agent is a worker to whom leads are assigned
type Agent struct {
	BaseModel
	OwnerID            uuid.UUID `gorm:"type:uuid;not null;index;column:owner_id"`
	Name               string    `gorm:"type:varchar(200);not null"`
	Email              string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Mobile             string    `gorm:"type:varchar(50);not null"`
	PasswordHash       string    `gorm:"type:varchar(255);not null;column:password_hash"`
	AssignedLeadsCount int       `gorm:"not null;default:0;column:assigned_leads_count;check:assigned_leads_count >= 0"`
}

func (Agent) TableName() string {
	return "agents"
}

// LeadStatus is a flat enum; any status may follow any other
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusLost      LeadStatus = "Lost"
	LeadStatusConverted LeadStatus = "Converted"
)

// IsValid reports whether s is a known lead status
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost, LeadStatusConverted:
		return true
	}
	return false
}

// LeadSource records how a lead entered the system
type LeadSource string

const (
	LeadSourceFileUpload LeadSource = "File Upload"
	LeadSourceManual     LeadSource = "Manual"
)

// Lead is a contact owned by one principal and assigned to exactly one agent
type Lead struct {
	BaseModel
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index;column:owner_id"`
	AssignedTo uuid.UUID  `gorm:"type:uuid;not null;index;column:assigned_to"`
	Agent      *Agent     `gorm:"foreignKey:AssignedTo"`
	Name       string     `gorm:"type:varchar(200);not null"`
	Email      string     `gorm:"type:varchar(255);not null"`
	Mobile     string     `gorm:"type:varchar(50);not null"`
	Notes      string     `gorm:"type:text"`
	Status     LeadStatus `gorm:"type:varchar(20);not null;default:'New'"`
	Source     LeadSource `gorm:"type:varchar(20);not null;default:'Manual'"`
}

func (Lead) TableName() string {
	return "leads"
}

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{&User{}, &Agent{}, &Lead{}}
}
