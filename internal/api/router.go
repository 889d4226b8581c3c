package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sukhirthan10/expense-tracker/internal/api/handler"
	"github.com/Sukhirthan10/expense-tracker/internal/api/middleware"
	"github.com/Sukhirthan10/expense-tracker/internal/core/service"
	mongodb "github.com/Sukhirthan10/expense-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/Sukhirthan10/expense-tracker/internal/infrastructure/db/redis"
	"github.com/Sukhirthan10/expense-tracker/internal/infrastructure/http/handlers"
	"github.com/Sukhirthan10/expense-tracker/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, dispatcher *queue.Dispatcher, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expense_tracker"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, jwtSecret, tokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	expenseRepo := mongodb.NewExpenseRepository(db)
	listCache := redisdb.NewListCache(rdb, log)
	expenseService := service.NewExpenseService(expenseRepo, listCache, dispatcher, log)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Expense routes (bearer token required) ---
	expenses := e.Group("/expenses", authMiddleware)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("", expenseHandler.List)
	expenses.DELETE("/:id", expenseHandler.Delete)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
