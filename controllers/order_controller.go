package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/middleware"
	"github.com/mbrandt/werkstatt-api/models"
	"github.com/mbrandt/werkstatt-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	ClientName     string     `json:"client_name"`
	Deadline       *time.Time `json:"deadline"`
	CostCenter     string     `json:"cost_center"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	OrderType      string     `json:"order_type" binding:"omitempty,oneof=fertigung service"`
	EstimatedHours float64    `json:"estimated_hours"`
	Notes          string     `json:"notes"`
	TitleImage     *string    `json:"title_image"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
// The network folder is created best-effort afterwards; its result rides
// along in the response and never fails the order creation.
func CreateOrder(c *gin.Context) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateOrderRequest
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

	order := models.Order{
		Title:          req.Title,
		Description:    req.Description,
		ClientID:       actor.ID,
		ClientName:     req.ClientName,
		Deadline:       req.Deadline,
		CostCenter:     req.CostCenter,
		Priority:       req.Priority,
		OrderType:      req.OrderType,
		EstimatedHours: req.EstimatedHours,
		Notes:          req.Notes,
		TitleImage:     req.TitleImage,
		Status:         models.StatusPending,
	}
	if order.ClientName == "" {
		order.ClientName = actor.Name
	}

	if err := services.CreateOrder(&order); err != nil {
		respondError(c, err)
		return
	}

	// best effort: a failed folder step must not fail the creation
	folderResult := services.EnsureOrderFolder(order.OrderNumber, order.ID)

	created, err := services.GetOrder(order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"data":           created,
		"network_folder": folderResult,
	})
}

// ListOrders handles GET /api/v1/orders - lists all orders
func ListOrders(c *gin.Context) {
	orders, err := services.ListOrders()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// LookupOrder handles GET /api/v1/orders/barcode/:code - resolves a scanned
// code to an order, matching by order number first and numeric id second
func LookupOrder(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order code is required",
			},
		})
		return
	}

	order, err := services.FindOrderByNumberOrID(code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - merges the defined fields
// into the order. Comment logs cannot be written through this endpoint.
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, err := middleware.GetActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var update services.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
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

	order, err := services.UpdateOrder(id, update, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an order and all
// linked documents, components and subtasks (admin only, enforced in routing)
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := services.DeleteOrder(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - applies a
// workflow action (accept, start, complete, confirm, request_revision,
// request_rework, archive, restore, reject) to an order
func TransitionOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor, err := middleware.GetActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req services.TransitionRequest
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

	order, err := services.TransitionOrder(id, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListNoteHistory handles GET /api/v1/orders/:id/notes/history - returns the
// archived note values of an order, newest first
func ListNoteHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entries, err := services.ListNoteHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}
