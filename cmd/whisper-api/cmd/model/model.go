package model

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"whisper-api/cmd/whisper-api/cmd/setup"
	"whisper-api/internal/app/modelstore"
	"whisper-api/internal/app/speech"
)

// Cmd groups model asset commands.
var Cmd = &cobra.Command{
	Use:   "model",
	Short: "Manage whisper.cpp model files",
}

var pullCmd = &cobra.Command{
	Use:   "pull [asset...]",
	Short: "Download model assets into the models directory",
	Long: `Download model assets into the models directory.

Without arguments the model used by the server and the VAD model are fetched.
Files already present are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup.Load(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		assets, err := resolveAssets(args)
		if err != nil {
			return err
		}

		bars := modelstore.NewBarTracker(cmd.ErrOrStderr())
		store := modelstore.New(cfg.Speech.WhisperCpp.ModelsDir,
			modelstore.WithProgress(bars),
			modelstore.WithLogger(logger),
		)

		for _, asset := range assets {
			path, err := store.Ensure(cmd.Context(), asset)
			if err != nil {
				bars.Wait()
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", asset.Name, path)
		}
		bars.Wait()
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known model assets and whether they are present",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup.Load(cmd)
		if err != nil {
			return err
		}
		store := modelstore.New(cfg.Speech.WhisperCpp.ModelsDir)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tFILE\tPRESENT")
		for _, name := range modelstore.AssetNames() {
			asset, _ := modelstore.LookupAsset(name)
			_, statErr := os.Stat(store.Path(asset))
			fmt.Fprintf(w, "%s\t%s\t%t\n", asset.Name, asset.FileName, statErr == nil)
		}
		return w.Flush()
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [asset...]",
	Short: "Check present model assets against their published SHA-256",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup.Load(cmd)
		if err != nil {
			return err
		}
		assets, err := resolveAssets(args)
		if err != nil {
			return err
		}
		store := modelstore.New(cfg.Speech.WhisperCpp.ModelsDir)

		failed := 0
		for _, asset := range assets {
			status := "ok"
			switch err := store.Verify(asset); {
			case errors.Is(err, modelstore.ErrNoChecksum):
				status = "unverified"
			case err != nil:
				status = err.Error()
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", asset.Name, status)
		}
		if failed > 0 {
			return fmt.Errorf("%d asset(s) failed verification", failed)
		}
		return nil
	},
}

func init() {
	Cmd.AddCommand(pullCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(verifyCmd)
}

func resolveAssets(names []string) ([]modelstore.Asset, error) {
	if len(names) == 0 {
		whisperModel, ok := modelstore.WhisperModelAsset(speech.ModelSize, speech.ComputeType)
		if !ok {
			return nil, fmt.Errorf("no model asset for %s/%s", speech.ModelSize, speech.ComputeType)
		}
		vad, _ := modelstore.LookupAsset(modelstore.AssetSileroVAD)
		return []modelstore.Asset{whisperModel, vad}, nil
	}

	assets := make([]modelstore.Asset, 0, len(names))
	for _, name := range names {
		asset, ok := modelstore.LookupAsset(name)
		if !ok {
			return nil, fmt.Errorf("unknown asset %q (known: %v)", name, modelstore.AssetNames())
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
