package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/response"
	"github.com/omrtrack/attempt-tracker/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// AttemptsCSV godoc
// GET /api/v1/exams/:id/export.csv
func (h *ExportHandler) AttemptsCSV(c *gin.Context) {
	examID := model.SanitizeID(c.Param("id"))
	raw, err := h.exportService.AttemptsCSV(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("attempts_%s_%s.csv", examID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", raw)
}

// BackupZip godoc
// GET /api/v1/backup.zip
func (h *ExportHandler) BackupZip(c *gin.Context) {
	raw, err := h.exportService.BackupZip(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := fmt.Sprintf("backup_%s.zip", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/zip", raw)
}
