package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omrtrack/attempt-tracker/internal/response"
	"github.com/omrtrack/attempt-tracker/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// ForExam godoc
// GET /api/v1/exams/:id/analytics
func (h *AnalyticsHandler) ForExam(c *gin.Context) {
	analytics, err := h.analyticsService.ForExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"analytics": analytics})
}

// Global godoc
// GET /api/v1/analytics
func (h *AnalyticsHandler) Global(c *gin.Context) {
	analytics, err := h.analyticsService.Global(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"analytics": analytics})
}
