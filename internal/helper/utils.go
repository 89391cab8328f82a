package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateUUID creates a random unique UUID string
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %w", err)
	}
	return id.String(), nil
}

// WritePretty writes v to w as indented JSON.
func WritePretty(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// CreateFolder creates the directory at path, including parents.
func CreateFolder(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes data to path, creating the parent folder first.
func WriteFile(path string, data []byte) error {
	if err := CreateFolder(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create folder for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}
