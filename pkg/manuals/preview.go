package manuals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ecsproull/edandlinda/internal/metrics"
)

// ErrPreviewUnavailable means the entry is not a previewable PDF.
var ErrPreviewUnavailable = errors.New("preview is only available for PDF files")

// Preview is a scoped handle on fetched preview bytes. Close releases the
// backing file and must run on every exit path: viewing done, cancel, or
// teardown.
type Preview struct {
	Entry Entry
	Path  string

	mu       sync.Mutex
	released bool
}

// Close removes the backing file. Safe to call more than once.
func (p *Preview) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	p.released = true
	err := os.Remove(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Preview fetches the file's bytes into a temporary artifact for viewing.
// The caller owns the returned handle and must Close it.
func (b *Browser) Preview(ctx context.Context, id int) (*Preview, error) {
	key, _ := b.snapshot()
	b.mu.Lock()
	e, ok := b.entryByID(id)
	b.mu.Unlock()
	if !ok || !e.IsFile() {
		return nil, fmt.Errorf("no such file entry %d", id)
	}
	if e.Extension != ".pdf" {
		return nil, ErrPreviewUnavailable
	}

	rc, _, err := b.svc.DownloadFile(ctx, key.yearMake, key.model, e.Name, e.ParentDirectory)
	if err != nil {
		return nil, fmt.Errorf("load preview: %w", err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "manual-preview-*.pdf")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write preview: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	metrics.RecordDownload("preview")
	return &Preview{Entry: e, Path: tmp.Name()}, nil
}
