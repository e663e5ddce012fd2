package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"whisper-api/internal/api/v1/dto"
)

// MockTranscriptionService is a mock implementation of TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

// NewMockTranscriptionService creates a mock bound to t.
func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTranscriptionService) Transcribe(ctx context.Context, upload *dto.AudioUpload) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}
