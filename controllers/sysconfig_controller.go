package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/middleware"
	"github.com/mbrandt/werkstatt-api/services"
)

// GetSystemConfig handles GET /api/v1/system-config/:key - returns a stored
// configuration value
func GetSystemConfig(c *gin.Context) {
	key := c.Param("key")

	value, ok := services.GetSystemConfig(key)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"key":        key,
				"value":      nil,
				"configured": false,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"key":        key,
			"value":      value,
			"configured": true,
		},
	})
}

// SetSystemConfigRequest represents the request body for setting a
// configuration value
type SetSystemConfigRequest struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// SetSystemConfig handles PUT /api/v1/system-config/:key - upserts a
// configuration entry (admin only, enforced in routing). Subsequent reads
// within the same process see the new value immediately because the
// synchronizer reads the store on every operation.
func SetSystemConfig(c *gin.Context) {
	key := c.Param("key")

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

	var req SetSystemConfigRequest
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

	entry, err := services.SetSystemConfig(key, req.Value, req.Description, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
	})
}

// TestPathRequest represents the request body for probing a path
type TestPathRequest struct {
	Path string `json:"path" binding:"required"`
}

// TestNetworkPath handles POST /api/v1/system-config/test-path - probes a
// path for reachability and writability
func TestNetworkPath(c *gin.Context) {
	var req TestPathRequest
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

	status := services.TestPath(services.NormalizeNetworkPath(req.Path))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}
