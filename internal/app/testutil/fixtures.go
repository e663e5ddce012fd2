package testutil

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"whisper-api/internal/app/speech"
)

// SilentWAV returns a minimal 16 kHz mono PCM WAV file of 2048 bytes of silence.
func SilentWAV() []byte {
	wavHeader := []byte{
		0x52, 0x49, 0x46, 0x46, // "RIFF"
		0x24, 0x08, 0x00, 0x00, // File size (2084 bytes)
		0x57, 0x41, 0x56, 0x45, // "WAVE"
		0x66, 0x6D, 0x74, 0x20, // "fmt "
		0x10, 0x00, 0x00, 0x00, // Chunk size
		0x01, 0x00, // Audio format (PCM)
		0x01, 0x00, // Channels (mono)
		0x80, 0x3E, 0x00, 0x00, // Sample rate (16000)
		0x00, 0x7D, 0x00, 0x00, // Byte rate
		0x02, 0x00, // Block align
		0x10, 0x00, // Bits per sample
		0x64, 0x61, 0x74, 0x61, // "data"
		0x00, 0x08, 0x00, 0x00, // Data size (2048 bytes)
	}
	return append(wavHeader, make([]byte, 2048)...)
}

// CreateTestAudioFile writes SilentWAV into a temp dir under name.
func CreateTestAudioFile(t *testing.T, name string) string {
	t.Helper()
	fullPath := filepath.Join(t.TempDir(), filepath.Base(name))
	if err := os.WriteFile(fullPath, SilentWAV(), 0o644); err != nil {
		t.Fatalf("Failed to create test audio file: %v", err)
	}
	return fullPath
}

// AudioPart describes one file part of a multipart upload.
type AudioPart struct {
	Field       string
	Filename    string
	ContentType string
	Body        []byte
}

// MultipartBody encodes parts and plain form fields and returns the body and
// its Content-Type header value.
func MultipartBody(t *testing.T, parts []AudioPart, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Field, p.Filename))
		if p.ContentType != "" {
			h.Set("Content-Type", p.ContentType)
		}
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := pw.Write(p.Body); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// SampleSegments is a two-segment transcript used across tests.
func SampleSegments() []speech.Segment {
	return []speech.Segment{
		{Start: 0, End: 1.5, Text: " Hello", AvgLogprob: Float(-0.2), NoSpeechProb: Float(0.01)},
		{Start: 1.5, End: 3.0, Text: " world. ", AvgLogprob: Float(-0.3), NoSpeechProb: nil},
	}
}
