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

type ExamHandler struct {
	examService *service.ExamService
}

func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// List godoc
// GET /api/v1/exams
func (h *ExamHandler) List(c *gin.Context) {
	profiles, err := h.examService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if profiles == nil {
		profiles = []model.ExamProfile{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": profiles})
}

// Get godoc
// GET /api/v1/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	profile, err := h.examService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProfileNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": profile})
}

// Create godoc
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.SaveExamProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.examService.Create(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrProfileExists):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	case errors.Is(err, service.ErrInvalidProfile):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": profile})
}

// Update godoc
// PUT /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	var req model.SaveExamProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.examService.Update(c.Request.Context(), c.Param("id"), &req)
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	case errors.Is(err, service.ErrProfileExists):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	case errors.Is(err, service.ErrInvalidProfile):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": profile})
}

// Delete godoc
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	err := h.examService.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	case errors.Is(err, service.ErrLastProfile):
		response.Fail(c, http.StatusConflict, response.ErrLastProfile)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "exam deleted successfully"})
}

// Clone godoc
// POST /api/v1/exams/:id/clone
func (h *ExamHandler) Clone(c *gin.Context) {
	clone, err := h.examService.Clone(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProfileNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": clone})
}

// Validate godoc
// GET /api/v1/exams/:id/validate
func (h *ExamHandler) Validate(c *gin.Context) {
	warnings, err := h.examService.Validate(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProfileNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if warnings == nil {
		warnings = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"warnings": warnings})
}
