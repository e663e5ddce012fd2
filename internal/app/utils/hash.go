package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// CalculateFileHash calculates the hex SHA-256 of a file
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// VerifyFileHash compares the file's SHA-256 with expected, ignoring case and
// surrounding space.
func VerifyFileHash(filePath, expected string) error {
	actual, err := CalculateFileHash(filePath)
	if err != nil {
		return err
	}
	if want := strings.ToLower(strings.TrimSpace(expected)); actual != want {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", filePath, want, actual)
	}
	return nil
}
