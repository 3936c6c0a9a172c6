package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/services"
)

// EnsureNetworkFolder handles POST /api/v1/orders/:id/network-folder -
// creates or repairs the order's network folder and sweeps uploaded files
// into it. Expected failures (path not configured, base unreachable) come
// back as 200 with success:false.
func EnsureNetworkFolder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	result := services.EnsureOrderFolder(order.OrderNumber, order.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"data":    result,
	})
}

// GetNetworkFolderStatus handles GET /api/v1/orders/:id/network-folder -
// reports the order's bookkeeping fields together with the current
// reachability of the recorded path
func GetNetworkFolderStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	status := gin.H{
		"network_folder_created": order.NetworkFolderCreated,
		"network_path":           order.NetworkPath,
		"reachable":              false,
	}
	if order.NetworkPath != nil && *order.NetworkPath != "" {
		status["reachable"] = services.TestPath(*order.NetworkPath).Reachable
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}

// MigrateNetworkFiles handles POST /api/v1/orders/:id/network-folder/migrate -
// manually re-runs the file migration for an order. Safe to re-invoke:
// folder creation and copies are idempotent.
func MigrateNetworkFiles(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := services.GetOrder(id)
	if err != nil {
		respondError(c, err)
		return
	}

	result := services.EnsureOrderFolder(order.OrderNumber, order.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": result.Success,
		"data":    result,
	})
}
