// Package output persists synthesized audio to local storage.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// DefaultPath is where audio lands when no path is configured. It is relative
// to the working directory.
const DefaultPath = "output_speech.mp3"

// ErrEmptyPath is returned when Write is called without a target.
var ErrEmptyPath = errors.New("output path is empty")

// Writer writes whole payloads to files, replacing any previous content.
type Writer struct {
	// Perm is applied when the file is created. Defaults to 0o644.
	Perm os.FileMode
}

// Resolve expands a leading ~ and returns the absolute form of path.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("unable to get absolute path: %w", err)
	}
	return abs, nil
}

// Write truncates (or creates) path and writes data to it. The file handle is
// closed on every return path; a failed close is reported as a write error.
// A failed write may leave a partial file behind.
func (w Writer) Write(path string, data []byte) (n int, err error) {
	if path == "" {
		return 0, ErrEmptyPath
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close output file: %w", cerr)
		}
	}()

	n, err = f.Write(data)
	if err != nil {
		return n, fmt.Errorf("unable to write output file: %w", err)
	}
	return n, nil
}
