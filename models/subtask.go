package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubTask status values
const (
	SubTaskStatusPending    = "pending"
	SubTaskStatusInProgress = "in_progress"
	SubTaskStatusCompleted  = "completed"
)

// SubTask scope values
const (
	ScopeOrder     = "order"
	ScopeComponent = "component"
)

// SubTask represents a workshop-internal unit of work scoped to an order
// or to a specific component of it
type SubTask struct {
	ID                  string            `gorm:"primaryKey" json:"id"`
	OrderID             uint              `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Title               string            `gorm:"not null" json:"title"`
	Description         string            `gorm:"type:text" json:"description"`
	EstimatedHours      float64           `json:"estimated_hours"`
	ActualHours         float64           `json:"actual_hours"`
	Status              string            `gorm:"not null;default:'pending'" json:"status"` // pending, in_progress, completed
	AssignedTo          *string           `json:"assigned_to"`
	ScopeType           string            `gorm:"not null;default:'order'" json:"scope_type"` // order, component
	AssignedComponentID *string           `gorm:"index" json:"assigned_component_id"`
	Documents           []SubTaskDocument `gorm:"foreignKey:SubTaskID" json:"documents,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	DeletedAt           gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the SubTask model
func (SubTask) TableName() string {
	return "sub_tasks"
}

// BeforeCreate assigns a fresh id when missing
func (s *SubTask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SubTaskDocument represents a file attached to a subtask
type SubTaskDocument struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	SubTaskID  string         `gorm:"not null;index" json:"sub_task_id"` // foreign key to sub_tasks table
	Name       string         `gorm:"not null" json:"name"`
	URL        string         `gorm:"not null" json:"url"`
	UploadDate time.Time      `json:"upload_date"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the SubTaskDocument model
func (SubTaskDocument) TableName() string {
	return "sub_task_documents"
}

// BeforeCreate assigns a fresh id and upload timestamp when missing
func (d *SubTaskDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}
