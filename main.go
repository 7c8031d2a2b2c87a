package main

import (
	"fmt"
	"log"

	stream "github.com/GetStream/stream-chat-go/v6"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"telehealth-server/internal/config"
	"telehealth-server/internal/models"
	"telehealth-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env is fine in containerized deploys
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		DSN: cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Stream powers in-app chat and video session tokens. Without keys the
	// /stream/token endpoint reports the integration as unconfigured.
	var streamClient *stream.Client
	if cfg.Stream.APIKey != "" && cfg.Stream.APISecret != "" {
		streamClient, err = stream.NewClient(cfg.Stream.APIKey, cfg.Stream.APISecret)
		if err != nil {
			log.Fatalf("Error initializing Stream client: %v", err)
		}
	} else {
		log.Println("Stream API keys not set; chat token endpoint disabled")
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, streamClient)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
