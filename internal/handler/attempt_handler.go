package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/response"
	"github.com/omrtrack/attempt-tracker/internal/service"
	"github.com/omrtrack/attempt-tracker/internal/validator"
)

type AttemptHandler struct {
	submissionService *service.SubmissionService
	attemptService    *service.AttemptService
}

func NewAttemptHandler(submissionService *service.SubmissionService, attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{
		submissionService: submissionService,
		attemptService:    attemptService,
	}
}

// Submit godoc
// POST /api/v1/attempts
func (h *AttemptHandler) Submit(c *gin.Context) {
	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.submissionService.Submit(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": attempt})
}

// ListRecent godoc
// GET /api/v1/attempts?exam_id=X&limit=N
func (h *AttemptHandler) ListRecent(c *gin.Context) {
	examID := c.Query("exam_id")
	if examID == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	attempts, err := h.attemptService.Recent(c.Request.Context(), examID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if attempts == nil {
		attempts = []model.Attempt{}
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// Get godoc
// GET /api/v1/attempts/:id
func (h *AttemptHandler) Get(c *gin.Context) {
	attempt, err := h.attemptService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrAttemptNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// Delete godoc
// DELETE /api/v1/attempts/:id
func (h *AttemptHandler) Delete(c *gin.Context) {
	err := h.attemptService.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrAttemptNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "attempt deleted successfully"})
}

// Purge godoc
// DELETE /api/v1/exams/:id/attempts
func (h *AttemptHandler) Purge(c *gin.Context) {
	removed, err := h.attemptService.PurgeByExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}
