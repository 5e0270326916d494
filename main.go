package main

import (
	"log"

	"classquiz/config"
	"classquiz/handlers"
	"classquiz/models"
	"classquiz/routes"
	"classquiz/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.TestAttempt{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, redisClient, cfg.SessionSecret, cfg.SessionTTL, logger)
	dashboardService := services.NewDashboardService(db, logger)
	quizService := services.NewQuizService(db, logger)
	attemptService := services.NewAttemptService(db, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.SessionTTL, logger)
	adminHandler := handlers.NewAdminHandler(dashboardService, authService, logger)
	testHandler := handlers.NewTestHandler(quizService, authService, logger)
	studentHandler := handlers.NewStudentHandler(attemptService, authService, logger)

	// Setup Gin router
	router := gin.Default()
	router.LoadHTMLGlob("templates/*.html")

	// Setup routes
	routes.SetupRoutes(router, authHandler, adminHandler, testHandler, studentHandler, authService)

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
