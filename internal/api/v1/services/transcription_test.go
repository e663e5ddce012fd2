package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"whisper-api/internal/api/errors"
	"whisper-api/internal/api/v1/dto"
	"whisper-api/internal/app/metrics"
	"whisper-api/internal/app/speech"
	"whisper-api/internal/app/staging"
	"whisper-api/internal/app/testutil"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingObserver) ObserveTranscription(outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

type fixture struct {
	service  TranscriptionService
	model    *testutil.FakeModel
	loader   *testutil.FakeLoader
	observer *recordingObserver
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	model := testutil.NewFakeModel()
	loader := &testutil.FakeLoader{Model: model}
	observer := &recordingObserver{}
	dir := t.TempDir()
	handle := speech.NewHandle(loader, nil, nil)
	return &fixture{
		service:  NewTranscriptionService(handle, staging.New(dir, nil), observer, nil),
		model:    model,
		loader:   loader,
		observer: observer,
		dir:      dir,
	}
}

func (f *fixture) assertNoStagedFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged files must be removed")
}

func upload(body []byte, contentType, language string) *dto.AudioUpload {
	return &dto.AudioUpload{
		Filename:    "clip.webm",
		ContentType: contentType,
		Body:        bytes.NewReader(body),
		Language:    language,
	}
}

func requireAPIError(t *testing.T, err error, kind errors.ErrorKind, detail string) {
	t.Helper()
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, kind, apiErr.Kind)
	assert.Equal(t, detail, apiErr.Detail)
}

func TestTranscribe_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Transcribe(context.Background(), upload(testutil.SilentWAV(), "audio/webm", "en-US"))
	require.NoError(t, err)

	assert.Equal(t, "Hello  world.", resp.Text)
	require.Len(t, resp.Segments, 2)
	assert.Equal(t, " Hello", resp.Segments[0].Text)
	assert.Equal(t, 1.5, resp.Segments[0].End)
	assert.Equal(t, -0.2, *resp.Segments[0].AvgLogprob)
	assert.Nil(t, resp.Segments[1].NoSpeechProb)
	assert.Equal(t, "en", resp.Language)
	require.NotNil(t, resp.Duration)
	assert.Equal(t, 3.0, *resp.Duration)

	calls := f.model.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, testutil.SilentWAV(), calls[0].Content, "model sees the uploaded bytes")
	assert.True(t, strings.HasSuffix(calls[0].AudioPath, ".webm"))
	assert.Equal(t, speech.DecodeOptions("en"), calls[0].Options)

	f.assertNoStagedFiles(t)
	assert.Equal(t, []string{metrics.OutcomeSuccess}, f.observer.outcomes)
}

func TestTranscribe_ContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"audio subtype", "audio/wav", false},
		{"audio prefix only", "audio", false},
		{"missing content type", "", false},
		{"video", "video/mp4", true},
		{"json", "application/json", true},
		{"octet stream", "application/octet-stream", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), tt.contentType, ""))
			if tt.wantErr {
				requireAPIError(t, err, errors.KindBadRequest, DetailInvalidContentType)
				assert.Zero(t, f.loader.Loads(), "rejected before the model is touched")
				assert.Empty(t, f.model.Calls())
			} else {
				require.NoError(t, err)
			}
			f.assertNoStagedFiles(t)
		})
	}
}

func TestTranscribe_EmptyBody(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Transcribe(context.Background(), upload(nil, "audio/wav", ""))
	requireAPIError(t, err, errors.KindBadRequest, DetailEmptyAudio)

	assert.Empty(t, f.model.Calls())
	f.assertNoStagedFiles(t)
	assert.Equal(t, []string{metrics.OutcomeRejected}, f.observer.outcomes)
}

func TestTranscribe_LanguageForwarding(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"en-US", "en"},
		{"fr", "fr"},
		{"zh-Hant-TW", "zh"},
		{"", speech.AutoDetectLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", tt.language))
			require.NoError(t, err)

			calls := f.model.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Options.Language)
			assert.True(t, calls[0].Options.VADFilter)
			assert.Equal(t, 300, calls[0].Options.VADMinSilenceMs)
			assert.Equal(t, 5, calls[0].Options.BeamSize)
			assert.Equal(t, 5, calls[0].Options.BestOf)
		})
	}
}

func TestTranscribe_ModelUnavailable(t *testing.T) {
	f := newFixture(t)
	f.loader.Err = stderrors.New("whisper-cli not found")

	_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
	requireAPIError(t, err, errors.KindInternal, DetailModelUnavailable)
	assert.NotContains(t, err.Error(), "whisper-cli", "internal details are not leaked")
	f.assertNoStagedFiles(t)

	// next request retries the load
	f.loader.Err = nil
	_, err = f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
	require.NoError(t, err)
	assert.Equal(t, 2, f.loader.Loads())
	assert.Equal(t, []string{metrics.OutcomeModelUnavailable, metrics.OutcomeSuccess}, f.observer.outcomes)
}

func TestTranscribe_ModelFailureCleansUp(t *testing.T) {
	t.Run("invoke error", func(t *testing.T) {
		f := newFixture(t)
		f.model.Err = stderrors.New("decoder crashed")

		_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
		requireAPIError(t, err, errors.KindInternal, DetailTranscriptionError)
		f.assertNoStagedFiles(t)
		assert.Equal(t, []string{metrics.OutcomeFailed}, f.observer.outcomes)
	})

	t.Run("iteration error", func(t *testing.T) {
		f := newFixture(t)
		f.model.IterErr = stderrors.New("stream broke")

		_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
		requireAPIError(t, err, errors.KindInternal, DetailTranscriptionError)
		f.assertNoStagedFiles(t)
	})
}

func TestTranscribe_Shaping(t *testing.T) {
	t.Run("no segments", func(t *testing.T) {
		f := newFixture(t)
		f.model.Segments = nil
		f.model.Info = speech.Info{Language: "de", Duration: 0}

		resp, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
		require.NoError(t, err)
		assert.Equal(t, "", resp.Text)
		assert.NotNil(t, resp.Segments)
		assert.Empty(t, resp.Segments)
		assert.Nil(t, resp.Duration, "zero duration is reported as null")
		assert.Equal(t, "de", resp.Language)
	})

	t.Run("segment order is preserved", func(t *testing.T) {
		f := newFixture(t)
		f.model.Segments = []speech.Segment{
			{Start: 0, End: 1, Text: "a"},
			{Start: 1, End: 2, Text: "b"},
			{Start: 2, End: 3, Text: "c"},
		}

		resp, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
		require.NoError(t, err)
		assert.Equal(t, "a b c", resp.Text)
		for i := 1; i < len(resp.Segments); i++ {
			assert.LessOrEqual(t, resp.Segments[i-1].Start, resp.Segments[i].Start)
		}
	})
}

func TestTranscribe_IgnoresClientCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Transcribe(ctx, upload([]byte("data"), "audio/wav", ""))
	require.NoError(t, err)

	calls := f.model.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Canceled)
}

func TestTranscribe_ConcurrentFirstRequestsShareOneLoad(t *testing.T) {
	f := newFixture(t)
	f.loader.Delay = 50 * time.Millisecond

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Transcribe(context.Background(), upload([]byte("data"), "audio/wav", ""))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.loader.Loads())
	assert.Len(t, f.model.Calls(), n)
	f.assertNoStagedFiles(t)
}
