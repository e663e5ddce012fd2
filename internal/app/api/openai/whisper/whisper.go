package whisper

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"whisper-api/internal/app/speech"
)

// RemoteTranscriber implements speech.Model on top of the OpenAI
// transcription endpoint.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model string, logger *zap.Logger) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTranscriber{client: client, model: model, logger: logger}
}

// Name identifies the remote model.
func (rt *RemoteTranscriber) Name() string {
	return "openai/" + rt.model
}

// Transcribe uploads audioPath and requests verbose_json so that segment
// timings and confidence values come back. Beam search and VAD settings are
// server-side concerns of the API and are not forwarded.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audioPath string, opts speech.Options) (speech.SegmentIterator, speech.Info, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: audioPath,
		Language: opts.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	rt.logger.Debug("requesting remote transcription",
		zap.String("model", rt.model),
		zap.String("language", opts.Language),
	)

	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, speech.Info{}, fmt.Errorf("createTranscription failed: %w", err)
	}

	segments := make([]speech.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		avg, noSpeech := s.AvgLogprob, s.NoSpeechProb
		segments = append(segments, speech.Segment{
			Start:        s.Start,
			End:          s.End,
			Text:         s.Text,
			AvgLogprob:   &avg,
			NoSpeechProb: &noSpeech,
		})
	}

	// plain json responses carry no segments
	if len(segments) == 0 && resp.Text != "" {
		segments = append(segments, speech.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}

	return speech.NewSliceIterator(segments), speech.Info{
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}
