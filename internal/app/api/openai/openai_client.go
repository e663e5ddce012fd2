package openai

import (
	"errors"

	"github.com/sashabaranov/go-openai"
	"whisper-api/internal/config"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// NewClient builds a go-openai client from the speech configuration.
func NewClient(cfg config.OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig), nil
}
