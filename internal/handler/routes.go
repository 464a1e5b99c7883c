package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/servana/servana-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, earningsHandler *EarningsHandler, goalHandler *GoalHandler, exportHandler *ExportHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Earnings routes (protected)
	earnings := api.Group("/earnings")
	earnings.Use(authMiddleware.Authenticate())
	earnings.Use(middleware.RateLimitMiddleware(rateLimiter))
	earnings.GET("/daily", earningsHandler.GetDaily)
	earnings.GET("/monthly/:year/:month", earningsHandler.GetMonthly)
	earnings.GET("/range", earningsHandler.GetRange)
	earnings.GET("/categories", earningsHandler.GetCategories)
	earnings.GET("/heatmap", earningsHandler.GetHeatmap)
	earnings.GET("/export", exportHandler.GenerateExport)

	// Goal routes (protected)
	goals := api.Group("/goals")
	goals.Use(authMiddleware.Authenticate())
	goals.Use(middleware.RateLimitMiddleware(rateLimiter))
	goals.POST("", goalHandler.SetGoal)
	goals.GET("", goalHandler.GetActiveGoals)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
}
