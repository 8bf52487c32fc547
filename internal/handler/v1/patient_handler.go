package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/service"
)

type PatientHandler struct {
	patients *service.PatientService
}

func NewPatientHandler(patients *service.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

type patientView struct {
	*patient.Patient
	FullName string `json:"full_name"`
	Age      int    `json:"age"`
}

func newPatientView(p *patient.Patient) patientView {
	return patientView{Patient: p, FullName: p.FullName(), Age: p.Age()}
}

func (h *PatientHandler) List(c *gin.Context) {
	q := &patient.ListPatientsQuery{
		Search: c.Query("search"),
		Offset: parseQueryInt(c, "skip", 0),
		Limit:  parseQueryInt(c, "limit", 100),
	}

	patients, err := h.patients.List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]patientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, newPatientView(p))
	}
	respondOK(c, views)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, newPatientView(p))
}

// DigitalPortrait serves the full patient card: identity, attachments,
// conditions and latest vitals.
func (h *PatientHandler) DigitalPortrait(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.patients.DigitalPortrait(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, newPatientView(p))
}

type bloodPressureRequest struct {
	Systolic  int    `json:"systolic" binding:"required"`
	Diastolic int    `json:"diastolic" binding:"required"`
	Pulse     *int   `json:"pulse"`
	Source    string `json:"source"`
}

func (h *PatientHandler) UpdateBloodPressure(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bloodPressureRequest
	if !bindJSON(c, &req) {
		return
	}

	hi, err := h.patients.UpdateBloodPressure(c.Request.Context(), &service.BloodPressureInput{
		PatientID: id,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Pulse:     req.Pulse,
		Source:    req.Source,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOKMessage(c, hi, "Давление сохранено")
}

type recognizeBloodPressureRequest struct {
	Image string `json:"image" binding:"required"` // base64-encoded photo
}

type recognizeBloodPressureResponse struct {
	Success    bool                     `json:"success"`
	Systolic   int                      `json:"systolic,omitempty"`
	Diastolic  int                      `json:"diastolic,omitempty"`
	Pulse      int                      `json:"pulse,omitempty"`
	Confidence string                   `json:"confidence,omitempty"`
	Error      string                   `json:"error,omitempty"`
	Saved      bool                     `json:"saved"`
	Indicators *patient.HealthIndicator `json:"indicators,omitempty"`
}

func (h *PatientHandler) RecognizeBloodPressure(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req recognizeBloodPressureRequest
	if !bindJSON(c, &req) {
		return
	}

	reading, hi, err := h.patients.RecognizeBloodPressure(c.Request.Context(), id, req.Image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, recognizeBloodPressureResponse{
		Success:    reading.Success,
		Systolic:   reading.Systolic,
		Diastolic:  reading.Diastolic,
		Pulse:      reading.Pulse,
		Confidence: reading.Confidence,
		Error:      reading.Error,
		Saved:      hi != nil,
		Indicators: hi,
	})
}
