package main

import (
	"log"
	"os"
	"time"

	"quizarena/database"
	"quizarena/handlers"
	"quizarena/middleware"
	"quizarena/models"
	"quizarena/realtime"
	"quizarena/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()
	db := database.GetDB()

	// Wire services. The room registry is owned here and handed to the
	// handlers that need it.
	registry := realtime.NewRegistry()
	quizzes := services.NewQuizService(db)
	store := services.NewGormSessionStore(db)
	matches := services.NewMatchService(store, quizzes)
	tournaments := services.NewTournamentService(db, matches)
	duos := services.NewDuoService(db, matches)
	users := services.NewUserService(db)
	stats := services.NewStatsService(db)

	// A session deleted through the generic session routes takes its
	// tournament or duo record with it.
	cleanup := handlers.RecordCleanup(func(kind, sessionID string) error {
		switch kind {
		case models.KindTournament:
			return tournaments.DeleteBySession(sessionID)
		case models.KindDuo:
			return duos.DeleteBySession(sessionID)
		}
		return nil
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register(db))
	authGroup.Post("/login", handlers.Login(db))
	authGroup.Post("/guest", handlers.GuestLogin(db))

	// Quiz routes
	api.Get("/quizzes", handlers.GetQuizzes(quizzes))
	api.Get("/quizzes/:id", handlers.GetQuiz(quizzes))
	api.Get("/quizzes/:id/full", middleware.AuthMiddleware, handlers.GetFullQuiz(quizzes))
	api.Post("/quizzes", middleware.AuthMiddleware, handlers.CreateQuiz(quizzes))
	api.Put("/quizzes/:id", middleware.AuthMiddleware, handlers.UpdateQuiz(quizzes))
	api.Delete("/quizzes/:id", middleware.AuthMiddleware, handlers.DeleteQuiz(quizzes))

	// Tournament routes
	api.Get("/tournaments", handlers.GetTournaments(tournaments))
	api.Get("/tournaments/:id", handlers.GetTournament(tournaments))
	api.Post("/tournaments", middleware.AuthMiddleware, handlers.CreateTournament(tournaments))
	api.Post("/tournaments/:id/join", middleware.AuthMiddleware, handlers.JoinTournament(tournaments, matches, registry))
	api.Post("/tournaments/:id/start", middleware.AuthMiddleware, handlers.StartTournament(tournaments, matches, registry))
	api.Post("/tournaments/:id/leave", middleware.AuthMiddleware, handlers.LeaveTournament(tournaments, matches, registry))
	api.Delete("/tournaments/:id", middleware.AuthMiddleware, handlers.DeleteTournament(tournaments, matches, registry))

	// Duo routes
	api.Post("/duos", middleware.AuthMiddleware, handlers.CreateDuo(duos))
	api.Get("/duos/:id", handlers.GetDuo(duos))

	// Session routes (shared by every match kind)
	api.Get("/sessions/:id", handlers.GetSession(matches))
	api.Post("/sessions/:id/join", middleware.AuthMiddleware, handlers.JoinSession(matches, registry))
	api.Post("/sessions/:id/start", middleware.AuthMiddleware, handlers.StartSession(matches, registry))
	api.Post("/sessions/:id/leave", middleware.AuthMiddleware, handlers.LeaveSession(matches, registry, cleanup))
	api.Delete("/sessions/:id", middleware.AuthMiddleware, handlers.DeleteSession(matches, registry, cleanup))

	// User routes
	api.Get("/users/leaderboard", handlers.GetLeaderboard(users))
	api.Get("/users/profile/:id", handlers.GetProfile(users))
	api.Put("/users/profile", middleware.AuthMiddleware, handlers.UpdateProfile(users))
	api.Put("/users/stats", middleware.AuthMiddleware, handlers.UpdateStats(users))

	// Statistics routes
	api.Post("/statistics", middleware.AuthMiddleware, handlers.CreateStatistic(stats))
	api.Get("/statistics/user/:id", handlers.GetUserStatistics(stats))

	// Debug endpoints for troubleshooting rooms (remove in production)
	api.Get("/debug/rooms", handlers.GetActiveRooms(registry))

	// Real-time channel
	app.Use("/ws", handlers.WebSocketUpgrade)
	app.Get("/ws", handlers.WebSocketHandler(registry, matches))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🌐 WebSocket available at ws://localhost:%s/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
