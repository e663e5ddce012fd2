package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"whisper-api/cmd/whisper-api/cmd/model"
	"whisper-api/cmd/whisper-api/cmd/serve"
	"whisper-api/cmd/whisper-api/cmd/transcribe"
	"whisper-api/cmd/whisper-api/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-api",
	Short: "Speech-to-text HTTP service backed by whisper",
	Long: `Speech-to-text HTTP service backed by whisper.

- serve starts the HTTP API (POST /api/v1/transcribe)
- transcribe runs the same pipeline on a local file
- model pull fetches the model weights ahead of time`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(model.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().String("config", "", "config file (default is $WHISPER_API_CONFIG or ./config.yaml)")
}
