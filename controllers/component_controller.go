package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
)

// CreateComponentRequest represents the request body for creating a component
type CreateComponentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateComponent handles POST /api/v1/orders/:id/components - adds a
// component (sub-assembly) to an order
func CreateComponent(c *gin.Context) {
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

	var req CreateComponentRequest
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

	component := models.Component{
		OrderID:     order.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := db.Create(&component).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create component",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    component,
	})
}

// ListComponents handles GET /api/v1/orders/:id/components - lists the
// components of an order with their documents
func ListComponents(c *gin.Context) {
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

	var components []models.Component
	if err := db.Where("order_id = ?", order.ID).
		Preload("Documents").
		Order("created_at ASC").
		Find(&components).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch components",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    components,
	})
}
