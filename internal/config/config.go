package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration. It is assembled from defaults,
// an optional YAML file and environment variables, in that order.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CORS    CORSConfig    `yaml:"cors"`
	Speech  SpeechConfig  `yaml:"speech"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CORSConfig lists the front-end origins allowed to call the API with credentials.
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// SpeechConfig selects the model backend and where its runtime lives.
type SpeechConfig struct {
	Backend    string           `yaml:"backend"`
	WhisperCpp WhisperCppConfig `yaml:"whisper_cpp"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
}

// WhisperCppConfig holds local whisper.cpp paths
type WhisperCppConfig struct {
	Binary    string `yaml:"binary"`
	FFmpeg    string `yaml:"ffmpeg"`
	FFprobe   string `yaml:"ffprobe"`
	ModelsDir string `yaml:"models_dir"`
	Threads   int    `yaml:"threads"`
}

// OpenAIConfig holds the remote transcription API settings
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// UploadConfig bounds and places staged uploads
type UploadConfig struct {
	MaxBytes int64  `yaml:"max_bytes"`
	TempDir  string `yaml:"temp_dir"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Environment:     "development",
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
		},
		Speech: SpeechConfig{
			Backend: BackendWhisperCpp,
			WhisperCpp: WhisperCppConfig{
				Binary:    "whisper-cli",
				FFmpeg:    "ffmpeg",
				FFprobe:   "ffprobe",
				ModelsDir: defaultModelsDir(),
			},
			OpenAI: OpenAIConfig{
				Model: DefaultOpenAIModel,
			},
		},
		Upload: UploadConfig{
			MaxBytes: DefaultUploadMaxBytes,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Environment, "APP_ENV")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Speech.Backend, "SPEECH_BACKEND")
	setString(&cfg.Speech.WhisperCpp.Binary, "WHISPER_CPP_BINARY")
	setString(&cfg.Speech.WhisperCpp.ModelsDir, "WHISPER_MODELS_DIR")
	setString(&cfg.Speech.WhisperCpp.FFmpeg, "FFMPEG_BINARY")
	setString(&cfg.Speech.WhisperCpp.FFprobe, "FFPROBE_BINARY")
	setString(&cfg.Speech.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Speech.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Upload.TempDir, "UPLOAD_TEMP_DIR")

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.CORS.AllowOrigins = origins
	}

	if v := strings.TrimSpace(os.Getenv("LOG_JSON")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_JSON value %q: %w", v, err)
		}
		cfg.Logging.JSON = b
	}

	if v := strings.TrimSpace(os.Getenv("UPLOAD_MAX_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid UPLOAD_MAX_BYTES value %q: %w", v, err)
		}
		cfg.Upload.MaxBytes = n
	}

	if v := strings.TrimSpace(os.Getenv("WHISPER_CPP_THREADS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WHISPER_CPP_THREADS value %q: %w", v, err)
		}
		cfg.Speech.WhisperCpp.Threads = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func defaultModelsDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "whisper-api", "models")
	}
	return filepath.Join(os.TempDir(), "whisper-api", "models")
}
