package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document represents a file uploaded for an order
type Document struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Name       string         `gorm:"not null" json:"name"`
	URL        string         `gorm:"not null" json:"url"` // relative upload path, e.g. /uploads/plan.pdf
	UploadDate time.Time      `json:"upload_date"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns a fresh id and upload timestamp when missing
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}

// ComponentDocument represents a file uploaded for a component of an order
type ComponentDocument struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	ComponentID string         `gorm:"not null;index" json:"component_id"` // foreign key to components table
	Name        string         `gorm:"not null" json:"name"`
	URL         string         `gorm:"not null" json:"url"`
	UploadDate  time.Time      `json:"upload_date"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ComponentDocument model
func (ComponentDocument) TableName() string {
	return "component_documents"
}

// BeforeCreate assigns a fresh id and upload timestamp when missing
func (d *ComponentDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}
