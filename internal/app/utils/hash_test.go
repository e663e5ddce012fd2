package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256("hello")
const helloSHA = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestCalculateFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	sum, err := CalculateFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, helloSHA, sum)

	assert.NoError(t, VerifyFileHash(path, "  "+helloSHA+"\n"))
	assert.NoError(t, VerifyFileHash(path, "2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"))
	assert.ErrorContains(t, VerifyFileHash(path, "deadbeef"), "checksum mismatch")
}

func TestCalculateFileHash_Missing(t *testing.T) {
	_, err := CalculateFileHash(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorContains(t, err, "failed to open file")
}
