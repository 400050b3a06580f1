package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prasadbobby/suraksha-backend/internal/config"
	"github.com/prasadbobby/suraksha-backend/internal/handlers"
	"github.com/prasadbobby/suraksha-backend/internal/middleware"
	"github.com/prasadbobby/suraksha-backend/internal/notify"
	"github.com/prasadbobby/suraksha-backend/internal/repository"
	"github.com/prasadbobby/suraksha-backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize Firebase
	if err := config.InitFirebase(); err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	defer config.CloseFirebase()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Build the notification channels and the fan-out dispatcher
	emailSender := notify.NewEmailSender()
	smsSender := notify.NewSMSSender()
	pushSender := notify.NewPushSender(config.MessagingClient, repository.NewUserRepository())

	dispatcher := services.NewDispatchService([]notify.Sender{emailSender, smsSender, pushSender})

	// Initialize Gin router
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	contactHandler := handlers.NewContactHandler()
	emergencyHandler := handlers.NewEmergencyHandler(services.NewAlertService(dispatcher))
	locationHandler := handlers.NewLocationHandler(services.NewLocationService(dispatcher))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Suraksha API is running",
			"services": gin.H{
				"email": emailSender.Available(),
				"sms":   smsSender.Available(),
				"push":  pushSender.Available(),
			},
		})
	})

	// API routes group
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			// Protected routes
			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware())
			{
				authProtected.POST("/update-notification-token", authHandler.UpdateNotificationToken)
				authProtected.POST("/refresh-token", authHandler.RefreshToken)
				authProtected.POST("/logout", authHandler.Logout)
			}
		}

		// Contacts routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(middleware.AuthMiddleware())
		{
			contacts.GET("", contactHandler.GetContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.PUT("/:contactId", contactHandler.UpdateContact)
			contacts.DELETE("/:contactId", contactHandler.DeleteContact)
		}

		// Location routes (protected)
		location := api.Group("/location")
		location.Use(middleware.AuthMiddleware())
		{
			location.POST("/update", locationHandler.UpdateLocation)
			location.POST("/share", locationHandler.ShareLocation)
			location.GET("/latest", locationHandler.GetLatestLocation)
		}

		// Emergency routes (protected)
		emergency := api.Group("/emergency")
		emergency.Use(middleware.AuthMiddleware())
		{
			emergency.POST("/alert", emergencyHandler.CreateAlert)
			emergency.GET("/alerts", emergencyHandler.GetAlerts)
			emergency.PUT("/alerts/:alertId/resolve", emergencyHandler.ResolveAlert)
		}
	}

	// Start server
	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
