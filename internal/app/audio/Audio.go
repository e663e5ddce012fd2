package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// TargetSampleRate is the sample rate whisper.cpp decodes at.
const TargetSampleRate = 16000

// FFProbeOutput is the subset of `ffprobe -print_format json` we read.
type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// GetAudioDuration returns the container duration in seconds as reported by ffprobe.
func GetAudioDuration(ctx context.Context, ffprobe, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}

// Is16kHzMonoWavFile reports whether filePath already is the PCM layout whisper.cpp expects.
func Is16kHzMonoWavFile(ctx context.Context, ffprobe, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("ffprobe streams: %w", err)
	}

	var probeOutput FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" &&
			stream.SampleRate == TargetSampleRate && stream.Channels == 1 {
			return true, nil
		}
	}

	return false, nil
}

// ConvertTo16kHzWav decodes any ffmpeg-readable input into 16 kHz mono PCM WAV.
// outputWavPath is overwritten.
func ConvertTo16kHzWav(ctx context.Context, ffmpeg, inputFilePath, outputWavPath string) error {
	cmd := exec.CommandContext(ctx, ffmpeg,
		"-nostdin", "-y",
		"-i", inputFilePath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", "1",
		outputWavPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
