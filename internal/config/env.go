package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the first .env file found.
// Variables already present in the environment win over the file.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// ConfigPath returns the YAML config location, honouring WHISPER_API_CONFIG.
func ConfigPath() string {
	if p := os.Getenv("WHISPER_API_CONFIG"); p != "" {
		return p
	}
	return DefaultConfigPath
}

// InitializeConfig loads .env, then the YAML file and environment overrides.
// This is the main entry point for configuration loading.
func InitializeConfig() (*Config, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := Load(ConfigPath())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
