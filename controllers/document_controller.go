package controllers

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/models"
	"github.com/mbrandt/werkstatt-api/utils"
)

// UploadOrderDocument handles POST /api/v1/orders/:id/documents - stores an
// uploaded file in the local upload area and records a Document for the order
func UploadOrderDocument(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file is required",
			},
		})
		return
	}

	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		uploadErr := err.(*utils.FileUploadError)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	filename, err := utils.SaveUploadedFile(fileHeader, uploadDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store uploaded file",
			},
		})
		return
	}

	document := models.Document{
		OrderID: order.ID,
		Name:    filepath.Base(fileHeader.Filename),
		URL:     utils.GetDocumentURL(filename),
	}
	if err := db.Create(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record document",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    document,
	})
}

// UploadComponentDocument handles POST /api/v1/components/:id/documents -
// stores an uploaded file and records a ComponentDocument
func UploadComponentDocument(c *gin.Context) {
	componentID := c.Param("id")

	db := config.GetDB()
	var component models.Component
	if err := db.Where("id = ?", componentID).First(&component).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Component not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file is required",
			},
		})
		return
	}

	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		uploadErr := err.(*utils.FileUploadError)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	filename, err := utils.SaveUploadedFile(fileHeader, uploadDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store uploaded file",
			},
		})
		return
	}

	document := models.ComponentDocument{
		ComponentID: component.ID,
		Name:        filepath.Base(fileHeader.Filename),
		URL:         utils.GetDocumentURL(filename),
	}
	if err := db.Create(&document).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record document",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    document,
	})
}

// ServeUpload handles GET /uploads/:filename - serves a file from the local
// upload area
func ServeUpload(c *gin.Context) {
	filename := c.Param("filename")

	// Validate filename is not empty
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Filename is required",
			},
		})
		return
	}

	// Security: Prevent directory traversal attacks
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	filePath := filepath.Join(uploadDir(), filename)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "File not found",
			},
		})
		return
	}

	if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
		c.Header("Content-Type", contentType)
	}
	c.File(filePath)
}

// uploadDir resolves the local upload area from the loaded configuration
func uploadDir() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return "./uploads"
}
