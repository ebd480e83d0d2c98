package main

import (
	"log"

	"quizapi/config"
	"quizapi/export"
	"quizapi/handlers"
	"quizapi/middleware"
	"quizapi/models"
	"quizapi/routes"
	"quizapi/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	if err := models.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis cache, if configured
	var cache services.QuizCache
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		cache = services.NewRedisQuizCache(redisClient, cfg.CacheTTL)
		log.Printf("Caching quiz details in Redis at %s:%s", cfg.RedisHost, cfg.RedisPort)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize services
	registry := export.Default()
	log.Printf("Export formats: %v", registry.Formats())

	questionService := services.NewQuestionService(db)
	quizService := services.NewQuizService(db, cache, hub)
	exportService := services.NewExportService(quizService, registry)

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(questionService)
	quizHandler := handlers.NewQuizHandler(quizService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, questionHandler, quizHandler, exportHandler, hub)

	// Start server
	log.Printf("Server starting on %s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
