package config

import "time"

// Speech backends
const (
	BackendWhisperCpp = "whisper_cpp"
	BackendOpenAI     = "openai"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "8000"

	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// 100 MiB
	DefaultUploadMaxBytes int64 = 100 << 20

	DefaultOpenAIModel = "whisper-1"
	DefaultConfigPath  = "config.yaml"
)
