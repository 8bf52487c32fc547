package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eliahealth/elia/internal/service"
)

type AudioHandler struct {
	audio *service.AudioService
}

func NewAudioHandler(audioSvc *service.AudioService) *AudioHandler {
	return &AudioHandler{audio: audioSvc}
}

type audioUploadResponse struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

// Upload accepts a multipart "file" for the appointment named in the
// appointment_id query parameter.
func (h *AudioHandler) Upload(c *gin.Context) {
	rawID := c.Query("appointment_id")
	appointmentID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || appointmentID == 0 {
		respondError(c, http.StatusBadRequest, "invalid appointment_id: must be a positive integer")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()

	rec, err := h.audio.Upload(
		c.Request.Context(),
		uint(appointmentID),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, audioUploadResponse{
		ID:       rec.ID,
		Filename: rec.Filename,
		FileSize: rec.FileSize,
		Message:  "Аудиофайл успешно загружен",
	})
}

func (h *AudioHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.audio.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rec)
}

func (h *AudioHandler) Transcribe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.audio.Transcribe(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOKMessage(c, rec, "Транскрибация завершена (MVP)")
}

func (h *AudioHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rec, err := h.audio.Download(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", rec.MimeType)
	c.FileAttachment(rec.Filepath, rec.Filename)
}
