package whisper

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	openaiclient "whisper-api/internal/app/api/openai"
	"whisper-api/internal/app/speech"
	"whisper-api/internal/config"
)

func init() {
	speech.RegisterBackend(config.BackendOpenAI, createLoader)
}

func createLoader(cfg *config.Config, logger *zap.Logger) (speech.Loader, error) {
	return NewLoader(cfg.Speech.OpenAI, logger), nil
}

// Loader builds a RemoteTranscriber once credentials are available.
type Loader struct {
	cfg    config.OpenAIConfig
	logger *zap.Logger
}

// NewLoader returns a loader for the OpenAI backend.
func NewLoader(cfg config.OpenAIConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load implements speech.Loader. No network call is made here.
func (l *Loader) Load(_ context.Context) (speech.Model, error) {
	client, err := openaiclient.NewClient(l.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrDependencyMissing, err)
	}
	l.logger.Info("openai transcription client ready", zap.String("model", l.cfg.Model))
	return NewRemoteTranscriber(client, l.cfg.Model, l.logger), nil
}
