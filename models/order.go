package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status values. "waiting_confirmation" is the checkpoint between the
// workshop finishing work and the client signing it off.
const (
	StatusPending             = "pending"
	StatusAccepted            = "accepted"
	StatusInProgress          = "in_progress"
	StatusRevision            = "revision"
	StatusRework              = "rework"
	StatusWaitingConfirmation = "waiting_confirmation"
	StatusCompleted           = "completed"
	StatusArchived            = "archived"
)

// Order types determine the order-number prefix (F-... / S-...)
const (
	OrderTypeFertigung = "fertigung"
	OrderTypeService   = "service"
)

// Priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Order represents a workshop order in the system
type Order struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderNumber string     `gorm:"uniqueIndex;not null" json:"order_number"` // format: {F|S}-YYMM-N
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ClientID    string     `gorm:"index" json:"client_id"`
	ClientName  string     `json:"client_name"`
	Deadline    *time.Time `json:"deadline"`
	CostCenter  string     `json:"cost_center"`
	Priority    string     `gorm:"not null;default:'medium'" json:"priority"`    // low, medium, high
	Status      string     `gorm:"not null;default:'pending'" json:"status"`     // see status constants above
	OrderType   string     `gorm:"not null;default:'fertigung'" json:"order_type"` // fertigung, service

	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	AssignedTo     *string `json:"assigned_to"` // nullable staff id
	Notes          string  `gorm:"type:text" json:"notes"`

	ConfirmationNote string     `json:"confirmation_note"`
	ConfirmationDate *time.Time `json:"confirmation_date"`
	CanEdit          bool       `gorm:"default:false" json:"can_edit"` // true while the client may amend a revision

	MaterialOrderedByWorkshop        bool `gorm:"default:false" json:"material_ordered_by_workshop"`
	MaterialOrderedByClient          bool `gorm:"default:false" json:"material_ordered_by_client"`
	MaterialOrderedByClientConfirmed bool `gorm:"default:false" json:"material_ordered_by_client_confirmed"`
	MaterialAvailable                bool `gorm:"default:false" json:"material_available"`

	TitleImage *string `gorm:"type:text" json:"title_image"` // inline encoded image or null

	// Network folder bookkeeping. NetworkFolderCreated == true implies
	// NetworkPath is non-empty and existed when last verified.
	NetworkPath          *string `json:"network_path"`
	NetworkFolderCreated bool    `gorm:"default:false" json:"network_folder_created"`

	Documents       []Document        `gorm:"foreignKey:OrderID" json:"documents,omitempty"`
	Components      []Component       `gorm:"foreignKey:OrderID" json:"components,omitempty"`
	SubTasks        []SubTask         `gorm:"foreignKey:OrderID" json:"sub_tasks,omitempty"`
	RevisionHistory []RevisionComment `gorm:"foreignKey:OrderID" json:"revision_history,omitempty"` // workshop -> client
	ReworkComments  []ReworkComment   `gorm:"foreignKey:OrderID" json:"rework_comments,omitempty"`  // client -> workshop
	NoteHistory     []NoteHistory     `gorm:"foreignKey:OrderID" json:"note_history,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
