package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"gorm.io/gorm"
)

// Actor identifies who is performing a workflow action
type Actor struct {
	ID   string
	Name string
	Role string
}

// Actor roles
const (
	RoleClient   = "client"
	RoleWorkshop = "workshop"
	RoleAdmin    = "admin"
)

// Workflow actions
const (
	ActionAccept          = "accept"
	ActionRequestRevision = "request_revision"
	ActionStart           = "start"
	ActionComplete        = "complete"
	ActionConfirm         = "confirm"
	ActionRequestRework   = "request_rework"
	ActionArchive         = "archive"
	ActionRestore         = "restore"
	ActionReject          = "reject"
)

// Comment log targets for comment-bearing transitions
const (
	logRevision = "revision" // workshop -> client
	logRework   = "rework"   // client -> workshop
)

// transitionRule describes one row of the state machine: which states the
// action is allowed from (nil means any), where it leads, whether it carries
// a mandatory comment and into which log, and which roles may perform it
// (nil means any).
type transitionRule struct {
	from            []string
	to              string
	requiresComment bool
	commentLog      string
	roles           []string
}

// transitionTable is the complete order status state machine. The complete
// action deliberately lands on waiting_confirmation, never on completed:
// finishing work is a checkpoint that the client still has to sign off.
var transitionTable = map[string]transitionRule{
	ActionAccept: {
		from: []string{models.StatusPending},
		to:   models.StatusAccepted,
	},
	ActionRequestRevision: {
		from:            []string{models.StatusPending},
		to:              models.StatusRevision,
		requiresComment: true,
		commentLog:      logRevision,
		roles:           []string{RoleWorkshop, RoleAdmin},
	},
	ActionStart: {
		from: []string{models.StatusAccepted, models.StatusRework},
		to:   models.StatusInProgress,
	},
	ActionComplete: {
		from: []string{models.StatusInProgress},
		to:   models.StatusWaitingConfirmation,
	},
	ActionConfirm: {
		from: []string{models.StatusWaitingConfirmation},
		to:   models.StatusCompleted,
	},
	ActionRequestRework: {
		from:            []string{models.StatusWaitingConfirmation},
		to:              models.StatusRework,
		requiresComment: true,
		commentLog:      logRework,
	},
	ActionArchive: {
		from:  []string{models.StatusCompleted},
		to:    models.StatusArchived,
		roles: []string{RoleAdmin},
	},
	ActionRestore: {
		from:  []string{models.StatusArchived},
		to:    models.StatusRevision,
		roles: []string{RoleWorkshop, RoleAdmin},
	},
	// reject pulls an order back to revision from any state
	ActionReject: {
		to:              models.StatusRevision,
		requiresComment: true,
		commentLog:      logRevision,
		roles:           []string{RoleWorkshop, RoleAdmin},
	},
}

// TransitionRequest carries a workflow action against an order
type TransitionRequest struct {
	Action           string `json:"action" binding:"required"`
	Comment          string `json:"comment"`
	ConfirmationNote string `json:"confirmation_note"`
}

// TransitionOrder applies a workflow action to an order. Comment-bearing
// transitions are validated before any mutation; the comment lands in the
// log matching the action's direction and the other log is never touched.
func TransitionOrder(orderID uint, req TransitionRequest, actor Actor) (*models.Order, error) {
	rule, ok := transitionTable[req.Action]
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown action %q", req.Action)}
	}

	if rule.roles != nil && !roleAllowed(rule.roles, actor.Role) {
		return nil, &ForbiddenError{Message: fmt.Sprintf("role %q may not perform %q", actor.Role, req.Action)}
	}

	comment := strings.TrimSpace(req.Comment)
	if rule.requiresComment && comment == "" {
		return nil, &ValidationError{Message: fmt.Sprintf("action %q requires a comment", req.Action)}
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "order"}
		}
		return nil, err
	}

	if rule.from != nil && !statusAllowed(rule.from, order.Status) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("cannot %s an order in status %q", req.Action, order.Status),
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{"status": rule.to}

		switch req.Action {
		case ActionRequestRevision:
			// the client may amend and resubmit while in revision
			fields["can_edit"] = true
		case ActionConfirm:
			fields["confirmation_date"] = time.Now()
			if note := strings.TrimSpace(req.ConfirmationNote); note != "" {
				fields["confirmation_note"] = note
			}
		case ActionRestore:
			// confirmation note and date survive a restore
		}

		switch rule.commentLog {
		case logRevision:
			entry := models.RevisionComment{
				OrderID:  order.ID,
				Comment:  comment,
				UserID:   actor.ID,
				UserName: actor.Name,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if req.Action == ActionReject {
				fields["can_edit"] = true
			}
		case logRework:
			entry := models.ReworkComment{
				OrderID:  order.ID,
				Comment:  comment,
				UserID:   actor.ID,
				UserName: actor.Name,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		return tx.Model(&order).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}

	return GetOrder(order.ID)
}

func roleAllowed(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func statusAllowed(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
