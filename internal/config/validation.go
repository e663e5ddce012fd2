package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate checks the configuration and fails fast on the first problem.
func (c *Config) Validate() error {
	if err := ValidatePort(c.Server.Port); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.ReadTimeout, "read"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.WriteTimeout, "write"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.ShutdownTimeout, "shutdown"); err != nil {
		return err
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}
	if c.Speech.WhisperCpp.Threads < 0 {
		return fmt.Errorf("whisper.cpp threads cannot be negative")
	}
	if err := ValidateBackend(c.Speech.Backend); err != nil {
		return err
	}
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	for _, origin := range c.CORS.AllowOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard CORS origin cannot be combined with credentials")
		}
	}
	return nil
}

// ValidatePort validates a TCP port string
func ValidatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	if n <= 0 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateBackend validates the speech backend name
func ValidateBackend(backend string) error {
	switch backend {
	case BackendWhisperCpp, BackendOpenAI:
		return nil
	default:
		return fmt.Errorf("unknown speech backend %q (valid: %s)", backend,
			strings.Join([]string{BackendWhisperCpp, BackendOpenAI}, ", "))
	}
}

// ValidateLogLevel validates a zap level name
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q", level)
	}
}
