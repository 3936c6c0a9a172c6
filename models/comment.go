package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevisionComment is a workshop-to-client comment attached when the workshop
// sends an order back for revision. Append-only, ordered by CreatedAt.
type RevisionComment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the RevisionComment model
func (RevisionComment) TableName() string {
	return "revision_comments"
}

// BeforeCreate assigns a fresh id when missing
func (r *RevisionComment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReworkComment is a client-to-workshop comment attached when the client
// rejects finished work. Append-only, ordered by CreatedAt. Kept as a
// separate table from RevisionComment because the two logs have different
// actors and consumers.
type ReworkComment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ReworkComment model
func (ReworkComment) TableName() string {
	return "rework_comments"
}

// BeforeCreate assigns a fresh id when missing
func (r *ReworkComment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// NoteHistory archives the previous value of an order's notes field each
// time the notes change. Read newest-first.
type NoteHistory struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"` // foreign key to orders table
	Notes     string    `gorm:"type:text" json:"notes"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the NoteHistory model
func (NoteHistory) TableName() string {
	return "note_history"
}

// BeforeCreate assigns a fresh id when missing
func (n *NoteHistory) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
