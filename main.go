package main

import (
	"log"

	"github.com/browngirlclub/membership/config"
	"github.com/browngirlclub/membership/controllers"
	"github.com/browngirlclub/membership/routes"
	"github.com/browngirlclub/membership/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// The period clock fixes the club's timezone for day and week boundaries
	controllers.SetPeriodClock(utils.NewClock(cfg.TimezoneOffsetMinutes))

	// Seed the default admin account
	controllers.CreateSampleAdmin()

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Set up router
	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
