package main

import (
	"fmt"
	"os"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a multi-tenant expense tracking API with categories, budgets, and spending analytics.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token. Cookie auth is also accepted.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	budgetService := services.NewBudgetService(db)
	analyticsService := services.NewAnalyticsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	healthHandler := handlers.NewHealthHandler(dbManager)

	// Rate limiters: a strict budget for credential endpoints, a general
	// budget for the rest of the API, and a tighter one for expense writes.
	authLimiter := middleware.NewWindowLimiter(15*time.Minute, 5)
	apiLimiter := middleware.NewWindowLimiter(15*time.Minute, 100)
	expenseLimiter := middleware.NewWindowLimiter(time.Minute, 30)
	defer authLimiter.Stop()
	defer apiLimiter.Stop()
	defer expenseLimiter.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(appConfig.CORSOrigins))

	api := router.Group("/api")

	// Health probes stay outside auth and rate limiting so orchestrators
	// are never locked out.
	health := api.Group("/health")
	health.GET("/health", healthHandler.Health)
	health.GET("/ping", healthHandler.Ping)

	// Auth routes
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/users", middleware.AuthMiddleware(), authHandler.GetUsers)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.RateLimit(apiLimiter))
	protected.Use(middleware.AuthMiddleware())

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.Use(middleware.RateLimit(expenseLimiter))
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/export/csv", expenseHandler.ExportCSV)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Analytics routes
	analytics := protected.Group("/analytics")
	analytics.GET("/summary", analyticsHandler.GetSummary)
	analytics.GET("/category-breakdown", analyticsHandler.GetCategoryBreakdown)
	analytics.GET("/monthly-trends", analyticsHandler.GetMonthlyTrends)
	analytics.GET("/top-categories", analyticsHandler.GetTopCategories)

	log.Infof("Starting Fintrack API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
