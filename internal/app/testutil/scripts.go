package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteScript writes an executable /bin/sh script into dir and returns its path.
// Tests that exercise external binaries (ffmpeg, ffprobe, whisper-cli) use it
// to stand in for the real tools.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes are not supported on windows")
	}

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// FakeFFmpeg copies its input to its last argument.
func FakeFFmpeg(t *testing.T, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "ffmpeg", `in=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-i" ]; then in="$a"; fi
  prev="$a"
  last="$a"
done
cp "$in" "$last"`)
}

// FakeFFprobe answers duration queries with seconds and stream queries with a
// non-16kHz stream so conversion always runs.
func FakeFFprobe(t *testing.T, dir, seconds string) string {
	t.Helper()
	return WriteScript(t, dir, "ffprobe", `case "$*" in
  *format=duration*) echo "`+seconds+`" ;;
  *) echo '{"streams":[{"codec_type":"audio","codec_name":"opus","sample_rate":"48000","channels":2}]}' ;;
esac`)
}
