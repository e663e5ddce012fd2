package modelstore

import (
	"sort"
)

// Asset is a downloadable model file.
type Asset struct {
	Name     string
	FileName string
	URL      string
	// SHA256 is checked after download when set.
	SHA256 string
}

const (
	AssetTiny      = "tiny"
	AssetTinyQ8    = "tiny-q8_0"
	AssetSileroVAD = "silero-v5.1.2"
)

var registry = map[string]Asset{
	AssetTiny: {
		Name:     AssetTiny,
		FileName: "ggml-tiny.bin",
		URL:      "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin",
		SHA256:   "be07e048e1e599ad46341c8d2a135645097a538221678b7acdd1b1919c6e1b21",
	},
	AssetTinyQ8: {
		Name:     AssetTinyQ8,
		FileName: "ggml-tiny-q8_0.bin",
		URL:      "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny-q8_0.bin",
	},
	AssetSileroVAD: {
		Name:     AssetSileroVAD,
		FileName: "ggml-silero-v5.1.2.bin",
		URL:      "https://huggingface.co/ggml-org/whisper-vad/resolve/main/ggml-silero-v5.1.2.bin",
	},
}

// LookupAsset returns a known asset by name.
func LookupAsset(name string) (Asset, bool) {
	asset, ok := registry[name]
	return asset, ok
}

// AssetNames lists the known asset names, sorted.
func AssetNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WhisperModelAsset maps a model size and compute type onto a ggml file.
// int8 selects the q8_0 quantisation.
func WhisperModelAsset(size, computeType string) (Asset, bool) {
	name := size
	if computeType == "int8" {
		name = size + "-q8_0"
	}
	return LookupAsset(name)
}
