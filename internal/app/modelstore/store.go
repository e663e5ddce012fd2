package modelstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"whisper-api/internal/app/utils"
)

// ProgressTracker wraps a download body writer so progress can be displayed.
type ProgressTracker interface {
	Track(name string, total int64, w io.Writer) io.WriteCloser
}

// Store keeps model assets in a directory and fetches missing ones.
type Store struct {
	dir        string
	httpClient *http.Client
	logger     *zap.Logger
	progress   ProgressTracker

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient overrides the download client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) { s.httpClient = client }
}

// WithProgress reports download progress to tracker.
func WithProgress(tracker ProgressTracker) Option {
	return func(s *Store) { s.progress = tracker }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:        dir,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory assets are kept in.
func (s *Store) Dir() string {
	return s.dir
}

// Path is where asset lives once present.
func (s *Store) Path(asset Asset) string {
	return filepath.Join(s.dir, asset.FileName)
}

// ErrNoChecksum is returned by Verify for assets without a published digest.
var ErrNoChecksum = errors.New("no checksum published for asset")

// Verify checks a present asset against its published SHA-256.
func (s *Store) Verify(asset Asset) error {
	if asset.SHA256 == "" {
		return ErrNoChecksum
	}
	return utils.VerifyFileHash(s.Path(asset), asset.SHA256)
}

// Ensure returns the local path of asset, downloading it when missing.
func (s *Store) Ensure(ctx context.Context, asset Asset) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(asset)
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return path, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat model path: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	s.logger.Info("downloading model asset",
		zap.String("asset", asset.Name),
		zap.String("url", asset.URL),
		zap.String("destination", path),
	)

	if err := s.download(ctx, asset, path); err != nil {
		return "", fmt.Errorf("download %s: %w", asset.Name, err)
	}

	s.logger.Info("model asset ready", zap.String("asset", asset.Name), zap.String("path", path))
	return path, nil
}

func (s *Store) download(ctx context.Context, asset Asset, destination string) error {
	tempPath := destination + ".part"
	_ = os.Remove(tempPath)

	outFile, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	success := false
	defer func() {
		_ = outFile.Close()
		if !success {
			_ = os.Remove(tempPath)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	hasher := sha256.New()
	var w io.Writer = io.MultiWriter(outFile, hasher)
	if s.progress != nil {
		tracked := s.progress.Track(asset.Name, resp.ContentLength, w)
		defer tracked.Close()
		w = tracked
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	if expected := strings.ToLower(strings.TrimSpace(asset.SHA256)); expected != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if actual != expected {
			return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, actual)
		}
	}

	if err := outFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, destination); err != nil {
		return fmt.Errorf("move download into place: %w", err)
	}

	success = true
	return nil
}
