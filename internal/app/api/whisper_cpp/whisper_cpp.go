package whisper_cpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"whisper-api/internal/app/audio"
	"whisper-api/internal/app/speech"
)

// LocalTranscriber runs the whisper.cpp command line tool against a local
// ggml model. One instance serves all requests; every call works in its own
// scratch directory.
type LocalTranscriber struct {
	binaryPath   string
	modelPath    string
	vadModelPath string
	ffmpegPath   string
	ffprobePath  string
	threads      int
	logger       *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(binaryPath, modelPath, vadModelPath, ffmpegPath, ffprobePath string, threads int, logger *zap.Logger) *LocalTranscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTranscriber{
		binaryPath:   binaryPath,
		modelPath:    modelPath,
		vadModelPath: vadModelPath,
		ffmpegPath:   ffmpegPath,
		ffprobePath:  ffprobePath,
		threads:      threads,
		logger:       logger,
	}
}

// Name identifies the loaded model.
func (lt *LocalTranscriber) Name() string {
	return "whisper.cpp/" + strings.TrimSuffix(filepath.Base(lt.modelPath), ".bin")
}

// Transcribe converts inputFilePath to 16 kHz mono WAV when needed, runs
// whisper-cli with JSON output and maps the result onto speech segments.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, inputFilePath string, opts speech.Options) (speech.SegmentIterator, speech.Info, error) {
	workDir, err := os.MkdirTemp(filepath.Dir(inputFilePath), "whisper-")
	if err != nil {
		return nil, speech.Info{}, fmt.Errorf("create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			lt.logger.Debug("failed to remove whisper work directory", zap.String("dir", workDir), zap.Error(err))
		}
	}()

	wavPath, err := lt.prepareInput(ctx, inputFilePath, workDir)
	if err != nil {
		return nil, speech.Info{}, err
	}

	outputBase := filepath.Join(workDir, "transcript")
	args := lt.buildArgs(wavPath, outputBase, opts)

	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("running whisper.cpp",
		zap.String("binary", lt.binaryPath),
		zap.Strings("args", args),
	)

	if err := command.Run(); err != nil {
		return nil, speech.Info{}, fmt.Errorf("command execution error: %v, stderr: %s", err, lastLines(stderr.String(), 5))
	}

	output, err := readOutput(outputBase + ".json")
	if err != nil {
		return nil, speech.Info{}, err
	}

	duration, err := audio.GetAudioDuration(ctx, lt.ffprobePath, inputFilePath)
	if err != nil {
		lt.logger.Warn("could not determine audio duration", zap.String("file", inputFilePath), zap.Error(err))
		duration = 0
	}

	segments := output.segments()
	lt.logger.Debug("whisper.cpp transcription complete",
		zap.Int("segments", len(segments)),
		zap.String("language", output.Result.Language),
	)

	return speech.NewSliceIterator(segments), speech.Info{
		Language: output.Result.Language,
		Duration: duration,
	}, nil
}

func (lt *LocalTranscriber) prepareInput(ctx context.Context, inputFilePath, workDir string) (string, error) {
	ready, err := audio.Is16kHzMonoWavFile(ctx, lt.ffprobePath, inputFilePath)
	if err == nil && ready {
		return inputFilePath, nil
	}

	wavPath := filepath.Join(workDir, "audio_16khz.wav")
	if err := audio.ConvertTo16kHzWav(ctx, lt.ffmpegPath, inputFilePath, wavPath); err != nil {
		return "", fmt.Errorf("error converting input file: %w", err)
	}
	return wavPath, nil
}

func (lt *LocalTranscriber) buildArgs(wavPath, outputBase string, opts speech.Options) []string {
	language := opts.Language
	if language == speech.AutoDetectLanguage {
		language = "auto"
	}

	args := []string{
		"-m", lt.modelPath,
		"-f", wavPath,
		"-of", outputBase,
		"-oj", "-ojf",
		"-np",
		"-ng",
		"-l", language,
	}
	if opts.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(opts.BeamSize))
	}
	if opts.BestOf > 0 {
		args = append(args, "-bo", strconv.Itoa(opts.BestOf))
	}
	if lt.threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.threads))
	}
	if opts.VADFilter && lt.vadModelPath != "" {
		args = append(args,
			"--vad",
			"-vm", lt.vadModelPath,
			"-vsd", strconv.Itoa(opts.VADMinSilenceMs),
		)
	}
	return args
}

// jsonOutput mirrors the file written by `whisper-cli -oj -ojf`.
type jsonOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []jsonSegment `json:"transcription"`
}

type jsonSegment struct {
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text   string      `json:"text"`
	Tokens []jsonToken `json:"tokens"`
}

type jsonToken struct {
	Text string  `json:"text"`
	P    float64 `json:"p"`
}

func readOutput(path string) (*jsonOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}
	var output jsonOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("failed to parse output file: %w", err)
	}
	return &output, nil
}

func (o *jsonOutput) segments() []speech.Segment {
	segments := make([]speech.Segment, 0, len(o.Transcription))
	for _, s := range o.Transcription {
		start := float64(s.Offsets.From) / 1000
		end := float64(s.Offsets.To) / 1000
		if end < start {
			end = start
		}
		segments = append(segments, speech.Segment{
			Start:      start,
			End:        end,
			Text:       s.Text,
			AvgLogprob: averageLogprob(s.Tokens),
			// whisper.cpp does not expose a no-speech probability
			NoSpeechProb: nil,
		})
	}
	return segments
}

// averageLogprob is the mean natural log probability of the text tokens.
// Special tokens ([_BEG_], [_TT_150], ...) are ignored.
func averageLogprob(tokens []jsonToken) *float64 {
	var sum float64
	var n int
	for _, tok := range tokens {
		if strings.HasPrefix(tok.Text, "[_") || tok.P <= 0 {
			continue
		}
		sum += math.Log(tok.P)
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
