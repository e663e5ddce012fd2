package testutil

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"whisper-api/internal/app/speech"
)

// TranscriptionCall records one FakeModel.Transcribe invocation.
type TranscriptionCall struct {
	AudioPath string
	Options   speech.Options
	// Content is the file content at call time; nil if it could not be read.
	Content  []byte
	Canceled bool
}

// FakeModel is a configurable speech.Model for tests.
type FakeModel struct {
	mu sync.Mutex

	ModelName string
	Segments  []speech.Segment
	Info      speech.Info
	Err       error
	// IterErr is returned by the iterator after all segments.
	IterErr error
	Latency time.Duration

	calls []TranscriptionCall
}

// NewFakeModel returns a model answering with SampleSegments in English.
func NewFakeModel() *FakeModel {
	return &FakeModel{
		ModelName: "fake/tiny",
		Segments:  SampleSegments(),
		Info:      speech.Info{Language: "en", Duration: 3.0},
	}
}

// Name implements speech.Model.
func (m *FakeModel) Name() string { return m.ModelName }

// Transcribe implements speech.Model.
func (m *FakeModel) Transcribe(ctx context.Context, audioPath string, opts speech.Options) (speech.SegmentIterator, speech.Info, error) {
	content, err := os.ReadFile(audioPath)
	if err != nil {
		content = nil
	}
	if m.Latency > 0 {
		time.Sleep(m.Latency)
	}

	m.mu.Lock()
	m.calls = append(m.calls, TranscriptionCall{
		AudioPath: audioPath,
		Options:   opts,
		Content:   content,
		Canceled:  ctx.Err() != nil,
	})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, speech.Info{}, m.Err
	}
	return &errIterator{inner: speech.NewSliceIterator(m.Segments), err: m.IterErr}, m.Info, nil
}

// Calls returns a copy of the recorded calls.
func (m *FakeModel) Calls() []TranscriptionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriptionCall(nil), m.calls...)
}

type errIterator struct {
	inner speech.SegmentIterator
	err   error
}

func (it *errIterator) Next() (speech.Segment, error) {
	seg, err := it.inner.Next()
	if err != nil && it.err != nil {
		return speech.Segment{}, it.err
	}
	return seg, err
}

// FakeLoader counts loads and returns Model or Err.
type FakeLoader struct {
	Model speech.Model
	Err   error
	Delay time.Duration

	loads atomic.Int32
}

// Load implements speech.Loader.
func (l *FakeLoader) Load(ctx context.Context) (speech.Model, error) {
	l.loads.Add(1)
	if l.Delay > 0 {
		time.Sleep(l.Delay)
	}
	if l.Err != nil {
		return nil, l.Err
	}
	return l.Model, nil
}

// Loads returns how many times Load ran.
func (l *FakeLoader) Loads() int { return int(l.loads.Load()) }
