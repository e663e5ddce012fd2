package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"whisper-api/internal/app/testutil"
)

func TestGetAudioDuration(t *testing.T) {
	dir := t.TempDir()
	ffprobe := testutil.FakeFFprobe(t, dir, "3.250000")

	duration, err := GetAudioDuration(context.Background(), ffprobe, "/any/file.webm")
	require.NoError(t, err)
	assert.InDelta(t, 3.25, duration, 1e-9)
}

func TestGetAudioDuration_Unparseable(t *testing.T) {
	dir := t.TempDir()
	ffprobe := testutil.WriteScript(t, dir, "ffprobe", `echo "N/A"`)

	_, err := GetAudioDuration(context.Background(), ffprobe, "/any/file.webm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "N/A")
}

func TestIs16kHzMonoWavFile(t *testing.T) {
	dir := t.TempDir()

	wav := testutil.WriteScript(t, dir, "probe-wav",
		`echo '{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}]}'`)
	ok, err := Is16kHzMonoWavFile(context.Background(), wav, "x.wav")
	require.NoError(t, err)
	assert.True(t, ok)

	stereo := testutil.WriteScript(t, dir, "probe-stereo",
		`echo '{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":2}]}'`)
	ok, err = Is16kHzMonoWavFile(context.Background(), stereo, "x.wav")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConvertTo16kHzWav(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := testutil.FakeFFmpeg(t, dir)

	input := filepath.Join(dir, "in.webm")
	require.NoError(t, os.WriteFile(input, []byte("opus bytes"), 0o600))
	output := filepath.Join(dir, "out.wav")

	require.NoError(t, ConvertTo16kHzWav(context.Background(), ffmpeg, input, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "opus bytes", string(data))
}

func TestConvertTo16kHzWav_ReportsStderr(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := testutil.WriteScript(t, dir, "ffmpeg", `echo "Invalid data found when processing input" >&2; exit 1`)

	err := ConvertTo16kHzWav(context.Background(), ffmpeg, "in.bin", filepath.Join(dir, "out.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid data found")
}
