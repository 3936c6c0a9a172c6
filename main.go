package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/config"
	"github.com/mbrandt/werkstatt-api/controllers"
	"github.com/mbrandt/werkstatt-api/middleware"
	"github.com/mbrandt/werkstatt-api/models"
	"github.com/mbrandt/werkstatt-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Werkstatt order API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Order{},
		&models.Document{},
		&models.Component{},
		&models.ComponentDocument{},
		&models.SubTask{},
		&models.SubTaskDocument{},
		&models.RevisionComment{},
		&models.ReworkComment{},
		&models.NoteHistory{},
		&models.SystemConfig{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize Gin router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		middleware.HeaderUserID, middleware.HeaderUserName, middleware.HeaderUserRole)
	router.Use(cors.New(corsConfig))
	router.Use(middleware.ExtractActor())

	// Uploaded files
	router.GET("/uploads/:filename", controllers.ServeUpload)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		orders := v1.Group("/orders")
		{
			orders.GET("", controllers.ListOrders)
			orders.POST("", controllers.CreateOrder)
			orders.GET("/barcode/:code", controllers.LookupOrder)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id", controllers.UpdateOrder)
			orders.DELETE("/:id", middleware.RequireRole(services.RoleAdmin), controllers.DeleteOrder)
			orders.POST("/:id/transition", controllers.TransitionOrder)
			orders.GET("/:id/notes/history", controllers.ListNoteHistory)

			orders.POST("/:id/network-folder", controllers.EnsureNetworkFolder)
			orders.GET("/:id/network-folder", controllers.GetNetworkFolderStatus)
			orders.POST("/:id/network-folder/migrate", controllers.MigrateNetworkFiles)

			orders.GET("/:id/components", controllers.ListComponents)
			orders.POST("/:id/components", controllers.CreateComponent)
			orders.GET("/:id/subtasks", controllers.ListSubTasks)
			orders.POST("/:id/subtasks", controllers.CreateSubTask)
			orders.POST("/:id/documents", controllers.UploadOrderDocument)
		}

		v1.POST("/components/:id/documents", controllers.UploadComponentDocument)
		v1.PUT("/subtasks/:id", controllers.UpdateSubTask)

		systemConfig := v1.Group("/system-config")
		{
			systemConfig.GET("/:key", controllers.GetSystemConfig)
			systemConfig.PUT("/:key", middleware.RequireRole(services.RoleAdmin), controllers.SetSystemConfig)
			systemConfig.POST("/test-path", controllers.TestNetworkPath)
		}
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Werkstatt order API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
