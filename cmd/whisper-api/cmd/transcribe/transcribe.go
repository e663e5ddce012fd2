package transcribe

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"whisper-api/cmd/whisper-api/cmd/setup"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/app"
)

var (
	language    string
	contentType string
)

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language tag (en, en-US); empty for auto-detection")
	Cmd.Flags().StringVar(&contentType, "content-type", "", "declared content type (default derived from the file extension)")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a local audio file and print the JSON result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup.Load(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		service, err := app.InitializeTranscriptionService(cfg, logger)
		if err != nil {
			return err
		}

		path := args[0]
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		declared := contentType
		if declared == "" {
			declared = mime.TypeByExtension(filepath.Ext(path))
		}

		result, err := service.Transcribe(cmd.Context(), &dto.AudioUpload{
			Filename:    filepath.Base(path),
			ContentType: declared,
			Body:        file,
			Language:    language,
		})
		if err != nil {
			return fmt.Errorf("transcribe %s: %w", path, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}
