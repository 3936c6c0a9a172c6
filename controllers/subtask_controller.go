package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
)

// CreateSubTaskRequest represents the request body for creating a subtask
type CreateSubTaskRequest struct {
	Title               string  `json:"title" binding:"required"`
	Description         string  `json:"description"`
	EstimatedHours      float64 `json:"estimated_hours"`
	AssignedTo          *string `json:"assigned_to"`
	ScopeType           string  `json:"scope_type" binding:"omitempty,oneof=order component"`
	AssignedComponentID *string `json:"assigned_component_id"`
}

// CreateSubTask handles POST /api/v1/orders/:id/subtasks - adds a workshop
// subtask to an order, optionally scoped to one of its components
func CreateSubTask(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var req CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	scopeType := req.ScopeType
	if scopeType == "" {
		scopeType = models.ScopeOrder
	}

	if scopeType == models.ScopeComponent {
		if req.AssignedComponentID == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Component-scoped subtasks need an assigned component",
				},
			})
			return
		}
		var component models.Component
		if err := db.Where("id = ? AND order_id = ?", *req.AssignedComponentID, order.ID).
			First(&component).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Component not found on this order",
				},
			})
			return
		}
	}

	subTask := models.SubTask{
		OrderID:             order.ID,
		Title:               req.Title,
		Description:         req.Description,
		EstimatedHours:      req.EstimatedHours,
		AssignedTo:          req.AssignedTo,
		ScopeType:           scopeType,
		AssignedComponentID: req.AssignedComponentID,
		Status:              models.SubTaskStatusPending,
	}
	if err := db.Create(&subTask).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create subtask",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    subTask,
	})
}

// ListSubTasks handles GET /api/v1/orders/:id/subtasks - lists the subtasks
// of an order
func ListSubTasks(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var subTasks []models.SubTask
	if err := db.Where("order_id = ?", order.ID).
		Preload("Documents").
		Order("created_at ASC").
		Find(&subTasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch subtasks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subTasks,
	})
}

// UpdateSubTaskRequest represents the request body for updating a subtask
type UpdateSubTaskRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
	AssignedTo     *string  `json:"assigned_to"`
	Status         *string  `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

// UpdateSubTask handles PUT /api/v1/subtasks/:id - merges the defined fields
// into a subtask
func UpdateSubTask(c *gin.Context) {
	subTaskID := c.Param("id")

	db := config.GetDB()
	var subTask models.SubTask
	if err := db.Where("id = ?", subTaskID).First(&subTask).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Subtask not found",
			},
		})
		return
	}

	var req UpdateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.EstimatedHours != nil {
		fields["estimated_hours"] = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		fields["actual_hours"] = *req.ActualHours
	}
	if req.AssignedTo != nil {
		fields["assigned_to"] = *req.AssignedTo
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	if len(fields) > 0 {
		if err := db.Model(&subTask).Updates(fields).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update subtask",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subTask,
	})
}
