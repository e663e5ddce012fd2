// Package staging writes uploaded audio to short-lived files on local disk
// so that file-based model runtimes can read them.
package staging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultExtension is used when the client filename carries no extension.
const DefaultExtension = ".wav"

// ErrEmptyUpload is returned when the upload body has no bytes.
var ErrEmptyUpload = errors.New("empty audio file")

// File is one staged upload. Remove must be called once the file is no
// longer needed.
type File struct {
	path   string
	size   int64
	logger *zap.Logger
	once   sync.Once
}

// Path returns the absolute location of the staged bytes.
func (f *File) Path() string { return f.path }

// Size returns the number of bytes written.
func (f *File) Size() int64 { return f.size }

// Remove deletes the staged file. It is safe to call more than once and
// never fails; removal errors are logged at debug level.
func (f *File) Remove() {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			f.logger.Debug("failed to remove staged upload", zap.String("path", f.path), zap.Error(err))
		}
	})
}

// Stager creates staged files in one directory.
type Stager struct {
	dir    string
	logger *zap.Logger
}

// New returns a Stager writing into dir (the system temp dir when empty).
func New(dir string, logger *zap.Logger) *Stager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stager{dir: dir, logger: logger}
}

// Stage copies r into a new uniquely named file. The extension follows
// filename; an empty body is rejected with ErrEmptyUpload and leaves nothing
// on disk.
func (s *Stager) Stage(r io.Reader, filename string) (*File, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("create staging directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(s.dir, "upload-*"+Extension(filename))
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	path := tmp.Name()

	n, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("write staging file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("close staging file: %w", closeErr)
	case n == 0:
		err = ErrEmptyUpload
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	s.logger.Debug("staged upload", zap.String("path", path), zap.Int64("bytes", n))
	return &File{path: path, size: n, logger: s.logger}, nil
}

// Extension returns the suffix of the last path element of filename,
// including the dot, or DefaultExtension when there is none. A name that is
// only a leading dot followed by text (".bashrc") has no extension.
func Extension(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	trimmed := strings.TrimLeft(base, ".")
	ext := filepath.Ext(trimmed)
	if ext == "" {
		return DefaultExtension
	}
	// os.CreateTemp treats the last '*' in the pattern as the random part
	return strings.ReplaceAll(ext, "*", "_")
}
