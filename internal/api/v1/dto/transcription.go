package dto

import (
	"io"
	"mime/multipart"
)

// TranscribeRequest is the multipart form accepted by POST /transcribe.
type TranscribeRequest struct {
	Audio    *multipart.FileHeader `form:"audio" binding:"required"`
	Language string                `form:"language" binding:"omitempty,max=35"`
}

// AudioUpload is one uploaded audio file handed to the transcription service.
// Body is read at most once.
type AudioUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	// Language is a BCP-47 style tag ("en-US"); empty means auto-detect.
	Language string
}

// SegmentResponse is one transcript segment. Times are in seconds.
type SegmentResponse struct {
	Start        float64  `json:"start" example:"0"`
	End          float64  `json:"end" example:"2.5"`
	Text         string   `json:"text" example:" Hello world."`
	AvgLogprob   *float64 `json:"avg_logprob" example:"-0.25"`
	NoSpeechProb *float64 `json:"no_speech_prob" example:"0.01"`
}

// TranscriptionResponse is the result of a transcription.
type TranscriptionResponse struct {
	Text     string            `json:"text" example:"Hello world."`
	Segments []SegmentResponse `json:"segments"`
	Language string            `json:"language" example:"en"`
	Duration *float64          `json:"duration" example:"2.5"`
}
