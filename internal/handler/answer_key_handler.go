package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/response"
	"github.com/omrtrack/attempt-tracker/internal/service"
	"github.com/omrtrack/attempt-tracker/internal/validator"
)

type AnswerKeyHandler struct {
	examService *service.ExamService
}

func NewAnswerKeyHandler(examService *service.ExamService) *AnswerKeyHandler {
	return &AnswerKeyHandler{examService: examService}
}

// Get godoc
// GET /api/v1/exams/:id/key
func (h *AnswerKeyHandler) Get(c *gin.Context) {
	examID := model.SanitizeID(c.Param("id"))
	if _, err := h.examService.Get(c.Request.Context(), examID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	answers, err := h.examService.AnswerKey(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// Replace godoc
// PUT /api/v1/exams/:id/key
func (h *AnswerKeyHandler) Replace(c *gin.Context) {
	var req model.ReplaceAnswerKeyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answers, err := h.examService.ReplaceAnswerKey(c.Request.Context(), c.Param("id"), req.Answers)
	if errors.Is(err, service.ErrProfileNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}
