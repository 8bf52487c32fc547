package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eliahealth/elia/internal/ai"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/domain/report"
	"github.com/eliahealth/elia/internal/service"
	"github.com/eliahealth/elia/internal/storage"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondOKMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, patient.ErrIndicatorsNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, audio.ErrAudioNotFound),
		errors.Is(err, service.ErrFileMissing):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, audio.ErrAudioAlreadyExists),
		errors.Is(err, audio.ErrAlreadyTranscribed),
		errors.Is(err, audio.ErrTranscriptionActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, audio.ErrUnsupportedFormat),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, service.ErrTranscriptionMissing):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})

	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "AI features are not configured",
			Code:  "AI_NOT_CONFIGURED",
		})

	case errors.Is(err, ai.ErrBadResponse):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "AI processing failed",
			Code:  "AI_BAD_RESPONSE",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return defaultVal
}
