package modelstore

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// BarTracker draws one mpb bar per downloaded asset.
type BarTracker struct {
	container *mpb.Progress
	mu        sync.Mutex
}

// NewBarTracker renders bars to w (stderr when nil).
func NewBarTracker(w io.Writer) *BarTracker {
	if w == nil {
		w = os.Stderr
	}
	return &BarTracker{
		container: mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(120*time.Millisecond),
			mpb.WithWaitGroup(&sync.WaitGroup{}),
		),
	}
}

// Track implements ProgressTracker.
func (t *BarTracker) Track(name string, total int64, w io.Writer) io.WriteCloser {
	t.mu.Lock()
	defer t.mu.Unlock()

	// unknown length
	if total < 0 {
		total = 0
	}

	bar := t.container.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+" ", decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)
	return &barWriter{bar: bar, w: w}
}

// Wait blocks until every bar has rendered its final state.
func (t *BarTracker) Wait() {
	t.container.Wait()
}

type barWriter struct {
	bar   *mpb.Bar
	w     io.Writer
	start time.Time
}

func (b *barWriter) Write(p []byte) (int, error) {
	if b.start.IsZero() {
		b.start = time.Now()
	}
	n, err := b.w.Write(p)
	b.bar.EwmaIncrBy(n, time.Since(b.start))
	b.start = time.Now()
	return n, err
}

// Close completes the bar at its current value so Wait never blocks on a
// short or unsized body.
func (b *barWriter) Close() error {
	if !b.bar.Completed() {
		b.bar.SetTotal(-1, true)
	}
	return nil
}
