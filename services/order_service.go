package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"gorm.io/gorm"
)

// orderPreloads are the associations returned with a full order
var orderPreloads = []string{
	"Documents",
	"Components.Documents",
	"SubTasks.Documents",
	"RevisionHistory",
	"ReworkComments",
}

// NextOrderNumber computes the next order number for the given order type:
// prefix F (fertigung) or S (service), period key YYMM, numeric suffix one
// above the highest existing suffix for the same prefix and period.
//
// The scan-then-insert pattern is not safe under concurrent creation across
// processes; within one process CreateOrder runs it inside the creating
// transaction.
func NextOrderNumber(tx *gorm.DB, orderType string, now time.Time) (string, error) {
	prefix := "F"
	if orderType == models.OrderTypeService {
		prefix = "S"
	}
	period := now.Format("0601") // YYMM

	var numbers []string
	pattern := fmt.Sprintf("%s-%s-", prefix, period)
	if err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", pattern+"%").
		Pluck("order_number", &numbers).Error; err != nil {
		return "", err
	}

	max := 0
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, pattern)
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s%d", pattern, max+1), nil
}

// CreateOrder persists a new order with a freshly minted order number.
// The draft's Status defaults to pending and OrderType to fertigung when
// unset.
func CreateOrder(draft *models.Order) error {
	if strings.TrimSpace(draft.Title) == "" {
		return &ValidationError{Message: "order title must not be empty"}
	}
	if draft.OrderType == "" {
		draft.OrderType = models.OrderTypeFertigung
	}
	if draft.OrderType != models.OrderTypeFertigung && draft.OrderType != models.OrderTypeService {
		return &ValidationError{Message: fmt.Sprintf("unknown order type %q", draft.OrderType)}
	}
	if draft.Status == "" {
		draft.Status = models.StatusPending
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}

	db := config.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		number, err := NextOrderNumber(tx, draft.OrderType, time.Now())
		if err != nil {
			return err
		}
		draft.OrderNumber = number
		return tx.Create(draft).Error
	})
}

// GetOrder loads an order with all its associations
func GetOrder(id uint) (*models.Order, error) {
	db := config.GetDB()
	query := db
	for _, preload := range orderPreloads {
		query = query.Preload(preload)
	}
	var order models.Order
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, err
	}
	return &order, nil
}

// FindOrderByNumberOrID resolves a scanned code to an order: first as an
// order number, then as a numeric id.
func FindOrderByNumberOrID(code string) (*models.Order, error) {
	db := config.GetDB()
	query := db
	for _, preload := range orderPreloads {
		query = query.Preload(preload)
	}

	var order models.Order
	err := query.Where("order_number = ?", code).First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, convErr := strconv.ParseUint(code, 10, 64)
	if convErr != nil {
		return nil, &NotFoundError{Resource: "order"}
	}
	return GetOrder(uint(id))
}

// ListOrders returns all orders, newest first
func ListOrders() ([]models.Order, error) {
	db := config.GetDB()
	var orders []models.Order
	if err := db.Preload("Documents").Preload("Components.Documents").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderUpdate carries a partial order update. Nil fields are left untouched.
// The comment logs are deliberately absent: they are append-only and only the
// workflow may write to them.
type OrderUpdate struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ClientName     *string    `json:"client_name"`
	Deadline       *time.Time `json:"deadline"`
	CostCenter     *string    `json:"cost_center"`
	Priority       *string    `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	AssignedTo     *string    `json:"assigned_to"`
	Notes          *string    `json:"notes"`
	TitleImage     *string    `json:"title_image"`

	MaterialOrderedByWorkshop        *bool `json:"material_ordered_by_workshop"`
	MaterialOrderedByClient          *bool `json:"material_ordered_by_client"`
	MaterialOrderedByClientConfirmed *bool `json:"material_ordered_by_client_confirmed"`
	MaterialAvailable                *bool `json:"material_available"`

	// Resubmit is set when a client re-submits an order that was sent back
	// for revision: status returns to pending and editing is locked again.
	Resubmit bool `json:"resubmit"`
}

// UpdateOrder merges the defined fields of an update into an order. When the
// notes change, the previous value is archived to the note history before the
// new value is applied.
func UpdateOrder(id uint, update OrderUpdate, actor Actor) (*models.Order, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = *value
		}
	}
	setFloat := func(column string, value *float64) {
		if value != nil {
			fields[column] = *value
		}
	}
	setBool := func(column string, value *bool) {
		if value != nil {
			fields[column] = *value
		}
	}

	setString("title", update.Title)
	setString("description", update.Description)
	setString("client_name", update.ClientName)
	setString("cost_center", update.CostCenter)
	setString("priority", update.Priority)
	setString("assigned_to", update.AssignedTo)
	setString("title_image", update.TitleImage)
	setFloat("estimated_hours", update.EstimatedHours)
	setFloat("actual_hours", update.ActualHours)
	setBool("material_ordered_by_workshop", update.MaterialOrderedByWorkshop)
	setBool("material_ordered_by_client", update.MaterialOrderedByClient)
	setBool("material_ordered_by_client_confirmed", update.MaterialOrderedByClientConfirmed)
	setBool("material_available", update.MaterialAvailable)
	if update.Deadline != nil {
		fields["deadline"] = *update.Deadline
	}

	archiveNotes := update.Notes != nil && *update.Notes != order.Notes
	if update.Notes != nil {
		fields["notes"] = *update.Notes
	}

	if update.Resubmit {
		if order.Status != models.StatusRevision {
			return nil, &ValidationError{Message: "only orders in revision can be resubmitted"}
		}
		fields["status"] = models.StatusPending
		fields["can_edit"] = false
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if archiveNotes {
			history := models.NoteHistory{
				OrderID:   order.ID,
				Notes:     order.Notes,
				ChangedBy: actor.ID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&order).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}

	return GetOrder(order.ID)
}

// DeleteOrder removes an order and everything attached to it: documents,
// components with their documents, subtasks, both comment logs and the note
// history.
func DeleteOrder(id uint) error {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order"}
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var componentIDs []string
		if err := tx.Model(&models.Component{}).Where("order_id = ?", order.ID).
			Pluck("id", &componentIDs).Error; err != nil {
			return err
		}
		if len(componentIDs) > 0 {
			if err := tx.Where("component_id IN ?", componentIDs).
				Delete(&models.ComponentDocument{}).Error; err != nil {
				return err
			}
		}

		var subTaskIDs []string
		if err := tx.Model(&models.SubTask{}).Where("order_id = ?", order.ID).
			Pluck("id", &subTaskIDs).Error; err != nil {
			return err
		}
		if len(subTaskIDs) > 0 {
			if err := tx.Where("sub_task_id IN ?", subTaskIDs).
				Delete(&models.SubTaskDocument{}).Error; err != nil {
				return err
			}
		}

		for _, model := range []interface{}{
			&models.Component{},
			&models.Document{},
			&models.SubTask{},
			&models.RevisionComment{},
			&models.ReworkComment{},
			&models.NoteHistory{},
		} {
			if err := tx.Where("order_id = ?", order.ID).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&order).Error
	})
}

// ListNoteHistory returns the archived note values for an order, newest first
func ListNoteHistory(orderID uint) ([]models.NoteHistory, error) {
	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	var entries []models.NoteHistory
	if err := db.Where("order_id = ?", orderID).
		Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
