package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/handler"
	"github.com/omrtrack/attempt-tracker/internal/middleware"
	"github.com/omrtrack/attempt-tracker/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Exam      *handler.ExamHandler
	AnswerKey *handler.AnswerKeyHandler
	Attempt   *handler.AttemptHandler
	Analytics *handler.AnalyticsHandler
	Export    *handler.ExportHandler
	Feed      *handler.FeedHandler
}

// SetupRouter configures the Gin engine and all route groups.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		// Exam profiles
		api.GET("/exams", handlers.Exam.List)
		api.POST("/exams", handlers.Exam.Create)
		api.GET("/exams/:id", handlers.Exam.Get)
		api.PUT("/exams/:id", handlers.Exam.Update)
		api.DELETE("/exams/:id", handlers.Exam.Delete)
		api.POST("/exams/:id/clone", handlers.Exam.Clone)
		api.GET("/exams/:id/validation", handlers.Exam.Validate)

		// Answer keys
		api.GET("/exams/:id/answer-key", handlers.AnswerKey.Get)
		api.PUT("/exams/:id/answer-key", handlers.AnswerKey.Replace)

		// Submission and attempt history
		api.POST("/attempts", handlers.Attempt.Submit)
		api.GET("/attempts", handlers.Attempt.ListRecent)
		api.GET("/attempts/:id", handlers.Attempt.Get)
		api.DELETE("/attempts/:id", handlers.Attempt.Delete)
		api.DELETE("/exams/:id/attempts", handlers.Attempt.Purge)

		// Analytics
		api.GET("/exams/:id/analytics", handlers.Analytics.ForExam)
		api.GET("/analytics", handlers.Analytics.Global)

		// Exports
		api.GET("/exams/:id/attempts/export", handlers.Export.AttemptsCSV)
		api.GET("/backup", handlers.Export.BackupZip)

		// Live attempt feed
		api.GET("/exams/:id/feed", handlers.Feed.StreamExamFeed)
	}

	return router
}
