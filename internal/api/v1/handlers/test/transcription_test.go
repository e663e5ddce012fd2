package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"whisper-api/internal/api/errors"
	"whisper-api/internal/api/middleware"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/api/v1/routes"
	"whisper-api/internal/app/testutil"
)

func setupTestRouter(t *testing.T, maxBytes int64) (*gin.Engine, *testutil.MockTranscriptionService) {
	gin.SetMode(gin.TestMode)
	service := testutil.NewMockTranscriptionService(t)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(zap.NewNop()))
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		TranscriptionService: service,
		UploadMaxBytes:       maxBytes,
	})
	return router, service
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	router, _ := setupTestRouter(t, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTranscribe_Success(t *testing.T) {
	router, service := setupTestRouter(t, 0)

	duration := 3.0
	service.On("Transcribe", mock.Anything, mock.MatchedBy(func(u *dto.AudioUpload) bool {
		return u.Filename == "clip.webm" && u.ContentType == "audio/webm" && u.Language == "en-US"
	})).Return(&dto.TranscriptionResponse{
		Text: "Hello world.",
		Segments: []dto.SegmentResponse{
			{Start: 0, End: 3, Text: " Hello world.", AvgLogprob: testutil.Float(-0.25)},
		},
		Language: "en",
		Duration: &duration,
	}, nil)

	body, contentType := testutil.MultipartBody(t, []testutil.AudioPart{
		{Field: "audio", Filename: "clip.webm", ContentType: "audio/webm", Body: testutil.SilentWAV()},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe?language=en-US", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"text": "Hello world.",
		"segments": [{"start": 0, "end": 3, "text": " Hello world.", "avg_logprob": -0.25, "no_speech_prob": null}],
		"language": "en",
		"duration": 3
	}`, rec.Body.String())
}

func TestTranscribe_LanguageFallsBackToFormField(t *testing.T) {
	router, service := setupTestRouter(t, 0)
	service.On("Transcribe", mock.Anything, mock.MatchedBy(func(u *dto.AudioUpload) bool {
		return u.Language == "pt-BR"
	})).Return(&dto.TranscriptionResponse{Segments: []dto.SegmentResponse{}}, nil)

	body, contentType := testutil.MultipartBody(t, []testutil.AudioPart{
		{Field: "audio", Filename: "a.wav", ContentType: "audio/wav", Body: []byte("x")},
	}, map[string]string{"language": "pt-BR"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name           string
		maxBytes       int64
		parts          []testutil.AudioPart
		setupMocks     func(*testutil.MockTranscriptionService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:           "missing audio field",
			parts:          []testutil.AudioPart{{Field: "file", Filename: "a.wav", Body: []byte("x")}},
			setupMocks:     func(*testutil.MockTranscriptionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				fields := body["fields"].(map[string]interface{})
				assert.Equal(t, "is required", fields["audio"])
			},
		},
		{
			name:  "service rejects content type",
			parts: []testutil.AudioPart{{Field: "audio", Filename: "a.mp4", ContentType: "video/mp4", Body: []byte("x")}},
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything).
					Return(nil, errors.NewBadRequestError("Invalid content type. Expect audio/*"))
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Invalid content type. Expect audio/*", body["detail"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
		{
			name:  "model unavailable",
			parts: []testutil.AudioPart{{Field: "audio", Filename: "a.wav", ContentType: "audio/wav", Body: []byte("x")}},
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything).
					Return(nil, errors.NewInternalError("Speech model is not available"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "internal", body["kind"])
				assert.Equal(t, "Speech model is not available", body["detail"])
			},
		},
		{
			name:     "upload too large",
			maxBytes: 512,
			parts: []testutil.AudioPart{
				{Field: "audio", Filename: "a.wav", ContentType: "audio/wav", Body: bytes.Repeat([]byte("a"), 4096)},
			},
			setupMocks:     func(*testutil.MockTranscriptionService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "payload_too_large", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, service := setupTestRouter(t, tt.maxBytes)
			tt.setupMocks(service)

			body, contentType := testutil.MultipartBody(t, tt.parts, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			tt.validateBody(t, decode(t, rec))
		})
	}
}

func TestTranscribe_NotMultipart(t *testing.T) {
	router, _ := setupTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", bytes.NewBufferString(`{"audio":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTranscribe_UnexpectedErrorIsRecovered(t *testing.T) {
	router, service := setupTestRouter(t, 0)
	service.On("Transcribe", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	body, contentType := testutil.MultipartBody(t, []testutil.AudioPart{
		{Field: "audio", Filename: "a.wav", ContentType: "audio/wav", Body: []byte("x")},
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Internal server error", resp["detail"])
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
