// Package download saves response streams to disk. Writes go through a
// temporary file that is always cleaned up on failure, so a broken stream
// never leaves a half-written download behind.
package download

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ecsproull/edandlinda/internal/metrics"
)

// Saver persists a named stream and returns the final path.
type Saver interface {
	Save(name string, r io.Reader) (string, error)
}

// DirSaver saves files into one directory.
type DirSaver struct {
	Dir string
}

// NewDirSaver creates a saver writing into dir.
func NewDirSaver(dir string) DirSaver {
	return DirSaver{Dir: dir}
}

// Save streams r into dir under name. The temporary file is removed if the
// copy or rename fails.
func (s DirSaver) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	dest := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize %s: %w", name, err)
	}

	metrics.RecordDownloadBytes(written)
	return dest, nil
}
