package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"whisper-api/internal/app/modelstore"
)

func TestResolveAssets(t *testing.T) {
	assets, err := resolveAssets(nil)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "ggml-tiny-q8_0.bin", assets[0].FileName)
	assert.Equal(t, modelstore.AssetSileroVAD, assets[1].Name)

	assets, err = resolveAssets([]string{"tiny"})
	require.NoError(t, err)
	assert.Equal(t, "ggml-tiny.bin", assets[0].FileName)

	_, err = resolveAssets([]string{"enormous"})
	assert.ErrorContains(t, err, "unknown asset")
}
