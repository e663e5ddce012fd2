// Package setup loads configuration and logging for subcommands.
package setup

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"whisper-api/internal/app/common"
	"whisper-api/internal/config"
)

// Load reads .env, the YAML file and environment overrides, then builds the
// logger. --config and --verbose from the root command take precedence.
func Load(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := os.Setenv("WHISPER_API_CONFIG", path); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := common.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
