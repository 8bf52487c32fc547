package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/report"
	"github.com/eliahealth/elia/internal/service"
)

type AppointmentHandler struct {
	appointments *service.AppointmentService
}

func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) List(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{
		Search: c.Query("search"),
		Offset: parseQueryInt(c, "skip", 0),
		Limit:  parseQueryInt(c, "limit", 100),
	}

	appointments, err := h.appointments.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appointments)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	app, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, app)
}

func (h *AppointmentHandler) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rep, err := h.appointments.GetReport(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rep)
}

type saveReportRequest struct {
	Purpose    *string `json:"purpose"`
	Complaints *string `json:"complaints"`
	Anamnesis  *string `json:"anamnesis"`
}

func (h *AppointmentHandler) SaveReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req saveReportRequest
	if !bindJSON(c, &req) {
		return
	}

	rep, err := h.appointments.SaveReport(c.Request.Context(), &report.UpsertCommand{
		AppointmentID: id,
		Purpose:       req.Purpose,
		Complaints:    req.Complaints,
		Anamnesis:     req.Anamnesis,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOKMessage(c, rep, "Отчёт сохранён")
}

func (h *AppointmentHandler) ExtractAnamnesis(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rep, err := h.appointments.ExtractAnamnesis(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOKMessage(c, rep, "Анамнез извлечён из транскрипции")
}

type misSubmissionResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	SubmittedAt *string `json:"submitted_at"`
}

func (h *AppointmentHandler) SubmitToMIS(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rep, err := h.appointments.SubmitToMIS(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var submittedAt *string
	if rep.SubmittedAt != nil {
		s := rep.SubmittedAt.Format(time.RFC3339)
		submittedAt = &s
	}
	c.JSON(http.StatusOK, misSubmissionResponse{
		Success:     true,
		Message:     "Отчёт успешно передан в МИС (MVP)",
		SubmittedAt: submittedAt,
	})
}

func (h *AppointmentHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.appointments.GeneratePDF(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", doc.ContentDisposition())
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
