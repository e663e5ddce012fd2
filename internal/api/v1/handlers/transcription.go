package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"whisper-api/internal/api/errors"
	"whisper-api/internal/api/middleware"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/api/v1/services"
)

// multipartMemory is how much of a multipart body is kept in memory before
// file parts spill to disk.
const multipartMemory = 8 << 20

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	service  services.TranscriptionService
	maxBytes int64
}

// NewTranscriptionHandler creates a new transcription handler. Request bodies
// larger than maxBytes are rejected; zero disables the limit.
func NewTranscriptionHandler(service services.TranscriptionService, maxBytes int64) *TranscriptionHandler {
	return &TranscriptionHandler{
		service:  service,
		maxBytes: maxBytes,
	}
}

// Transcribe handles POST /api/v1/transcribe
//
// @Summary Transcribe an audio file
// @Description Uploads one audio file and returns its transcript with per-segment timings.
// @Description The language is read from the query string, then from the form; only the primary subtag is used.
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file (audio/*)"
// @Param language query string false "Language tag, e.g. en or en-US; omitted for auto-detection"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} errors.APIError "Invalid content type or empty audio file"
// @Failure 413 {object} errors.APIError "Upload too large"
// @Failure 422 {object} errors.APIError "Missing audio field"
// @Failure 500 {object} errors.APIError "Speech model unavailable or transcription failed"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	// Non-multipart bodies fall through to binding, which reports the
	// missing audio field.
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && isBodyTooLarge(err) {
		middleware.HandleError(c, errors.NewPayloadTooLargeError(h.maxBytes))
		return
	}

	var req dto.TranscribeRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := req.Audio.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Unreadable audio upload"))
		return
	}
	defer file.Close()

	language := c.Query("language")
	if language == "" {
		language = req.Language
	}

	response, err := h.service.Transcribe(c.Request.Context(), &dto.AudioUpload{
		Filename:    req.Audio.Filename,
		ContentType: req.Audio.Header.Get("Content-Type"),
		Body:        file,
		Language:    language,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return stderrors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
