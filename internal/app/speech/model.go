package speech

import (
	"context"
	"errors"
	"io"
)

// Fixed model identity and decoding parameters. They are not exposed through
// the HTTP API or the config file.
const (
	ModelSize   = "tiny"
	Device      = "cpu"
	ComputeType = "int8"

	BeamSize           = 5
	BestOf             = 5
	VADMinSilenceMs    = 300
	AutoDetectLanguage = ""
)

// ErrDependencyMissing is wrapped by loaders when the model runtime, binaries or
// weights cannot be obtained.
var ErrDependencyMissing = errors.New("speech model dependency missing")

// Options controls a single transcription call.
type Options struct {
	// Language is a primary language subtag ("en"). Empty requests detection.
	Language string

	VADFilter       bool
	VADMinSilenceMs int
	BeamSize        int
	BestOf          int
}

// DecodeOptions returns the options every request is decoded with.
func DecodeOptions(language string) Options {
	return Options{
		Language:        language,
		VADFilter:       true,
		VADMinSilenceMs: VADMinSilenceMs,
		BeamSize:        BeamSize,
		BestOf:          BestOf,
	}
}

// Segment is one time-bounded span of decoded audio. Start and End are seconds.
type Segment struct {
	Start        float64
	End          float64
	Text         string
	AvgLogprob   *float64
	NoSpeechProb *float64
}

// Info describes the whole input as reported by the model.
type Info struct {
	Language string
	Duration float64
}

// SegmentIterator yields segments in chronological order. Next returns io.EOF
// once exhausted. An iterator is consumed once and cannot be restarted.
type SegmentIterator interface {
	Next() (Segment, error)
}

// Model is a loaded speech-recognition model. Implementations must be safe for
// concurrent Transcribe calls.
type Model interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (SegmentIterator, Info, error)
	Name() string
}

// Loader constructs a Model. It may be slow (downloads, process checks).
type Loader interface {
	Load(ctx context.Context) (Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (Model, error)

func (f LoaderFunc) Load(ctx context.Context) (Model, error) {
	return f(ctx)
}

// SliceIterator serves segments that were already decoded in full.
type SliceIterator struct {
	segments []Segment
	pos      int
}

func NewSliceIterator(segments []Segment) *SliceIterator {
	return &SliceIterator{segments: segments}
}

func (it *SliceIterator) Next() (Segment, error) {
	if it.pos >= len(it.segments) {
		return Segment{}, io.EOF
	}
	seg := it.segments[it.pos]
	it.pos++
	return seg, nil
}

// Collect drains it into a slice.
func Collect(it SegmentIterator) ([]Segment, error) {
	var segments []Segment
	for {
		seg, err := it.Next()
		if errors.Is(err, io.EOF) {
			return segments, nil
		}
		if err != nil {
			return segments, err
		}
		segments = append(segments, seg)
	}
}
