package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Component represents a named sub-assembly within an order
type Component struct {
	ID          string              `gorm:"primaryKey" json:"id"`
	OrderID     uint                `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Title       string              `gorm:"not null" json:"title"`
	Description string              `gorm:"type:text" json:"description"`
	Documents   []ComponentDocument `gorm:"foreignKey:ComponentID" json:"documents,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Component model
func (Component) TableName() string {
	return "components"
}

// BeforeCreate assigns a fresh id when missing
func (c *Component) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
