package whisper_cpp

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
	"whisper-api/internal/app/modelstore"
	"whisper-api/internal/app/speech"
	"whisper-api/internal/config"
)

func init() {
	speech.RegisterBackend(config.BackendWhisperCpp, createLoader)
}

func createLoader(cfg *config.Config, logger *zap.Logger) (speech.Loader, error) {
	store := modelstore.New(cfg.Speech.WhisperCpp.ModelsDir, modelstore.WithLogger(logger))
	return NewLoader(cfg.Speech.WhisperCpp, store, logger), nil
}

// Loader resolves the whisper.cpp runtime and fetches the model weights.
type Loader struct {
	cfg    config.WhisperCppConfig
	store  *modelstore.Store
	logger *zap.Logger
}

// NewLoader creates a loader for the fixed tiny/int8 model.
func NewLoader(cfg config.WhisperCppConfig, store *modelstore.Store, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, store: store, logger: logger}
}

// Load implements speech.Loader.
func (l *Loader) Load(ctx context.Context) (speech.Model, error) {
	binaryPath, err := lookPath("whisper.cpp", l.cfg.Binary)
	if err != nil {
		return nil, err
	}
	ffmpegPath, err := lookPath("ffmpeg", l.cfg.FFmpeg)
	if err != nil {
		return nil, err
	}
	ffprobePath, err := lookPath("ffprobe", l.cfg.FFprobe)
	if err != nil {
		return nil, err
	}

	modelAsset, ok := modelstore.WhisperModelAsset(speech.ModelSize, speech.ComputeType)
	if !ok {
		return nil, fmt.Errorf("%w: no ggml file for model %s/%s", speech.ErrDependencyMissing, speech.ModelSize, speech.ComputeType)
	}
	modelPath, err := l.store.Ensure(ctx, modelAsset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrDependencyMissing, err)
	}

	vadAsset, _ := modelstore.LookupAsset(modelstore.AssetSileroVAD)
	vadPath, err := l.store.Ensure(ctx, vadAsset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrDependencyMissing, err)
	}

	l.logger.Info("whisper.cpp runtime resolved",
		zap.String("binary", binaryPath),
		zap.String("model", modelPath),
		zap.String("vad_model", vadPath),
	)

	return NewLocalTranscriber(binaryPath, modelPath, vadPath, ffmpegPath, ffprobePath, l.cfg.Threads, l.logger), nil
}

func lookPath(tool, name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s executable %q not found: %v", speech.ErrDependencyMissing, tool, name, err)
	}
	return path, nil
}
