package manuals

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecsproull/edandlinda/internal/metrics"
	"github.com/ecsproull/edandlinda/pkg/download"
	"github.com/ecsproull/edandlinda/pkg/roles"
)

var (
	// ErrNoSelection means a bulk download was requested with nothing
	// selected.
	ErrNoSelection = errors.New("select at least one file to download")
	// ErrForbidden means the session lacks the role a download requires.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNoFiles means the listing has nothing to download.
	ErrNoFiles = errors.New("no files available to download")
)

// ArchiveFileName encodes one file reference for the download-selected
// endpoint: "parent__name" for files inside a directory, the bare name for
// root files. This is the wire contract with the archive bundler.
func ArchiveFileName(parentDirectory, name string) string {
	if parentDirectory != "" {
		return parentDirectory + "__" + name
	}
	return name
}

// DownloadFile saves one file under its own name.
func (b *Browser) DownloadFile(ctx context.Context, sv download.Saver, id int) (string, error) {
	key, _ := b.snapshot()
	b.mu.Lock()
	e, ok := b.entryByID(id)
	b.mu.Unlock()
	if !ok || !e.IsFile() {
		return "", fmt.Errorf("no such file entry %d", id)
	}

	rc, _, err := b.svc.DownloadFile(ctx, key.yearMake, key.model, e.Name, e.ParentDirectory)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", e.Name, err)
	}
	defer rc.Close()

	path, err := sv.Save(e.Name, rc)
	if err != nil {
		return "", err
	}
	metrics.RecordDownload("file")
	return path, nil
}

// DownloadSelected saves the selection: a single file directly under its own
// name, several files as one archive.
func (b *Browser) DownloadSelected(ctx context.Context, sv download.Saver) (string, error) {
	key, _ := b.snapshot()
	selected := b.SelectedFiles()
	if len(selected) == 0 {
		return "", ErrNoSelection
	}

	if len(selected) == 1 {
		return b.DownloadFile(ctx, sv, selected[0].ID)
	}

	names := make([]string, len(selected))
	for i, e := range selected {
		names[i] = ArchiveFileName(e.ParentDirectory, e.Name)
	}

	rc, _, err := b.svc.DownloadSelected(ctx, key.yearMake, key.model, names)
	if err != nil {
		return "", fmt.Errorf("download selected: %w", err)
	}
	defer rc.Close()

	archive := fmt.Sprintf("%s_%s_selected_pdfs.zip", key.yearMake, key.model)
	path, err := sv.Save(archive, rc)
	if err != nil {
		return "", err
	}
	metrics.RecordDownload("selected")
	return path, nil
}

// DownloadAll saves the whole listing as one archive. Admin only; the
// client-side check just saves a round trip — the server enforces it too.
func (b *Browser) DownloadAll(ctx context.Context, sv download.Saver) (string, error) {
	if !b.session.HasRole(roles.Admin) {
		return "", fmt.Errorf("%w to download all files", ErrForbidden)
	}

	key, entries := b.snapshot()
	if len(entries) == 0 {
		return "", ErrNoFiles
	}

	rc, _, err := b.svc.DownloadAll(ctx, key.yearMake, key.model)
	if err != nil {
		return "", fmt.Errorf("download all: %w", err)
	}
	defer rc.Close()

	archive := fmt.Sprintf("%s_%s_all_drawings.zip", key.yearMake, key.model)
	path, err := sv.Save(archive, rc)
	if err != nil {
		return "", err
	}
	metrics.RecordDownload("all")
	return path, nil
}

// DownloadDirectory saves every file under one directory as an archive named
// {yearMake}_{model}_{dirName}.zip.
func (b *Browser) DownloadDirectory(ctx context.Context, sv download.Saver, dirName string) (string, error) {
	key, entries := b.snapshot()

	var dir *Entry
	for i := range entries {
		if entries[i].Type == EntryDirectory && entries[i].Name == dirName {
			dir = &entries[i]
			break
		}
	}
	if dir == nil {
		return "", fmt.Errorf("no such directory %q", dirName)
	}
	if !dir.IsDownloadable {
		return "", fmt.Errorf("directory %q is not downloadable", dirName)
	}

	rc, _, err := b.svc.DownloadDirectory(ctx, key.yearMake, key.model, dirName)
	if err != nil {
		return "", fmt.Errorf("download directory %s: %w", dirName, err)
	}
	defer rc.Close()

	archive := fmt.Sprintf("%s_%s_%s.zip", key.yearMake, key.model, dirName)
	path, err := sv.Save(archive, rc)
	if err != nil {
		return "", err
	}
	metrics.RecordDownload("directory")
	return path, nil
}
