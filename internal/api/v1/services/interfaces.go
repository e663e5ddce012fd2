package services

import (
	"context"
	"time"

	"whisper-api/internal/api/v1/dto"
)

// TranscriptionService defines the interface for transcription operations
type TranscriptionService interface {
	Transcribe(ctx context.Context, upload *dto.AudioUpload) (*dto.TranscriptionResponse, error)
}

// TranscriptionObserver records the outcome of every transcription request.
type TranscriptionObserver interface {
	ObserveTranscription(outcome string, elapsed time.Duration)
}
