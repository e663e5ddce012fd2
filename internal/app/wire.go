//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"whisper-api/internal/api/server"
	"whisper-api/internal/api/v1/services"
	"whisper-api/internal/config"
)

// InitializeServer wires the HTTP server with the configured speech backend.
func InitializeServer(cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	wire.Build(serverSet)
	return nil, nil
}

// InitializeTranscriptionService wires the transcription pipeline without the
// HTTP layer, for the command line.
func InitializeTranscriptionService(cfg *config.Config, logger *zap.Logger) (services.TranscriptionService, error) {
	wire.Build(speechSet)
	return nil, nil
}
