package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"whisper-api/internal/api/errors"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/speech"
	"whisper-api/internal/app/staging"
)

// Client-facing error details.
const (
	DetailInvalidContentType = "Invalid content type. Expect audio/*"
	DetailEmptyAudio         = "Empty audio file"
	DetailModelUnavailable   = "Speech model is not available"
	DetailTranscriptionError = "Transcription failed"
	DetailStagingError       = "Failed to store uploaded audio"
)

// ModelSource hands out the shared speech model. *speech.Handle implements it.
type ModelSource interface {
	Get(ctx context.Context) (speech.Model, error)
}

// TranscriptionServiceImpl implements TranscriptionService
type TranscriptionServiceImpl struct {
	models   ModelSource
	stager   *staging.Stager
	observer TranscriptionObserver
	logger   *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(
	models ModelSource,
	stager *staging.Stager,
	observer TranscriptionObserver,
	logger *zap.Logger,
) TranscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptionServiceImpl{
		models:   models,
		stager:   stager,
		observer: observer,
		logger:   logger,
	}
}

// Transcribe validates, stages and transcribes one upload. The staged file is
// removed on every return path. Once started, model work is not cancelled
// when the client goes away.
func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, upload *dto.AudioUpload) (*dto.TranscriptionResponse, error) {
	start := time.Now()
	resp, outcome, err := s.transcribe(context.WithoutCancel(ctx), upload)
	if s.observer != nil {
		s.observer.ObserveTranscription(outcome, time.Since(start))
	}
	return resp, err
}

func (s *TranscriptionServiceImpl) transcribe(ctx context.Context, upload *dto.AudioUpload) (*dto.TranscriptionResponse, string, error) {
	if ct := upload.ContentType; ct != "" && !strings.HasPrefix(ct, "audio") {
		return nil, metrics.OutcomeRejected, errors.NewBadRequestError(DetailInvalidContentType)
	}

	model, err := s.models.Get(ctx)
	if err != nil {
		s.logger.Error("speech model unavailable", zap.Error(err))
		return nil, metrics.OutcomeModelUnavailable, errors.NewInternalError(DetailModelUnavailable)
	}

	staged, err := s.stager.Stage(upload.Body, upload.Filename)
	if err != nil {
		if stderrors.Is(err, staging.ErrEmptyUpload) {
			return nil, metrics.OutcomeRejected, errors.NewBadRequestError(DetailEmptyAudio)
		}
		s.logger.Error("failed to stage upload", zap.String("filename", upload.Filename), zap.Error(err))
		return nil, metrics.OutcomeFailed, errors.NewInternalError(DetailStagingError)
	}
	defer staged.Remove()

	language := speech.PrimaryLanguage(upload.Language)
	it, info, err := model.Transcribe(ctx, staged.Path(), speech.DecodeOptions(language))
	if err != nil {
		s.logger.Error("transcription failed", zap.String("model", model.Name()), zap.Error(err))
		return nil, metrics.OutcomeFailed, errors.NewInternalError(DetailTranscriptionError)
	}

	segments, err := speech.Collect(it)
	if err != nil {
		s.logger.Error("reading transcript segments failed", zap.String("model", model.Name()), zap.Error(err))
		return nil, metrics.OutcomeFailed, errors.NewInternalError(DetailTranscriptionError)
	}

	s.logger.Debug("transcription complete",
		zap.String("model", model.Name()),
		zap.String("language", info.Language),
		zap.Int("segments", len(segments)),
		zap.Int64("bytes", staged.Size()),
	)
	return buildResponse(segments, info), metrics.OutcomeSuccess, nil
}

func buildResponse(segments []speech.Segment, info speech.Info) *dto.TranscriptionResponse {
	texts := lo.Map(segments, func(s speech.Segment, _ int) string { return s.Text })

	var duration *float64
	if info.Duration != 0 {
		d := info.Duration
		duration = &d
	}

	return &dto.TranscriptionResponse{
		Text: strings.TrimSpace(strings.Join(texts, " ")),
		Segments: lo.Map(segments, func(s speech.Segment, _ int) dto.SegmentResponse {
			return dto.SegmentResponse{
				Start:        s.Start,
				End:          s.End,
				Text:         s.Text,
				AvgLogprob:   s.AvgLogprob,
				NoSpeechProb: s.NoSpeechProb,
			}
		}),
		Language: info.Language,
		Duration: duration,
	}
}
