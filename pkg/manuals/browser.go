// Package manuals drives the technical-manuals file browser: cascading
// year/make and model selection, the per-listing selection set, and the
// download bundling rules.
package manuals

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/ecsproull/edandlinda/internal/logging"
	"github.com/ecsproull/edandlinda/pkg/api"
	"github.com/ecsproull/edandlinda/pkg/roles"
)

// State is the browser's listing state.
type State int

const (
	// StateIdle — no year/make chosen.
	StateIdle State = iota
	// StateModelPending — year/make chosen, no model yet.
	StateModelPending
	// StateLoading — a listing fetch is in flight.
	StateLoading
	// StateLoaded — a listing is available.
	StateLoaded
	// StateErrored — the last fetch failed; Err holds the message.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateModelPending:
		return "model-pending"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Service is the slice of the API gateway the browser consumes.
type Service interface {
	GetFileStructure(ctx context.Context) (*api.DirectoryStructure, error)
	GetFiles(ctx context.Context, yearMake, model string) ([]api.FileInfo, error)
	DownloadFile(ctx context.Context, yearMake, model, fileName, parentDir string) (io.ReadCloser, int64, error)
	DownloadDirectory(ctx context.Context, yearMake, model, dirName string) (io.ReadCloser, int64, error)
	DownloadAll(ctx context.Context, yearMake, model string) (io.ReadCloser, int64, error)
	DownloadSelected(ctx context.Context, yearMake, model string, fileNames []string) (io.ReadCloser, int64, error)
}

// RoleChecker is the slice of session state the browser consumes.
type RoleChecker interface {
	HasRole(r roles.Role) bool
	HasAnyRole(rs ...roles.Role) bool
}

// EntryType discriminates listing entries.
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
)

// Entry is one row of the loaded listing. IDs are assigned by position and
// are only meaningful within the listing they came from.
type Entry struct {
	ID              int
	Name            string
	Type            EntryType
	Size            int64
	FileCount       int64
	Modified        string
	Extension       string
	ParentDirectory string
	IsDownloadable  bool
}

// IsFile reports whether the entry is a plain file.
func (e Entry) IsFile() bool {
	return e.Type == EntryFile
}

// listingKey identifies one fetch; results whose key no longer matches the
// browser's current selection are stale and discarded.
type listingKey struct {
	yearMake string
	model    string
}

// Browser is the file-browser state machine.
type Browser struct {
	svc     Service
	session RoleChecker

	mu        sync.Mutex
	state     State
	errMsg    string
	structure []api.YearMakeStructure
	current   listingKey
	entries   []Entry
	selected  map[int]bool
}

// New creates an idle browser.
func New(svc Service, session RoleChecker) *Browser {
	return &Browser{
		svc:      svc,
		session:  session,
		state:    StateIdle,
		selected: make(map[int]bool),
	}
}

// LoadStructure fetches the year/make tree. Callers typically wrap this in
// the gateway's retry helper; it is an idempotent read.
func (b *Browser) LoadStructure(ctx context.Context) error {
	st, err := b.svc.GetFileStructure(ctx)
	if err != nil {
		logging.Error("failed to load manuals structure", zap.Error(err))
		return fmt.Errorf("load structure: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.structure = st.Structure
	return nil
}

// Structure returns the loaded year/make tree.
func (b *Browser) Structure() []api.YearMakeStructure {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.YearMakeStructure, len(b.structure))
	copy(out, b.structure)
	return out
}

// AvailableModels lists the models for the chosen year/make.
func (b *Browser) AvailableModels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ym := range b.structure {
		if ym.YearMake == b.current.yearMake {
			out := make([]string, len(ym.Models))
			copy(out, ym.Models)
			return out
		}
	}
	return nil
}

// SetYearMake chooses a year/make, clearing the model, listing, and
// selection. An empty value returns the browser to idle.
func (b *Browser) SetYearMake(yearMake string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = listingKey{yearMake: yearMake}
	b.entries = nil
	b.selected = make(map[int]bool)
	b.errMsg = ""
	if yearMake == "" {
		b.state = StateIdle
	} else {
		b.state = StateModelPending
	}
}

// SetModel chooses a model and fetches its listing. Re-selecting the
// unchanged pair is a no-op: the listing is not refetched. A fetch whose
// (yearMake, model) no longer matches the browser state when it resolves is
// discarded, so switching models mid-fetch can never surface a stale
// listing.
func (b *Browser) SetModel(ctx context.Context, model string) error {
	b.mu.Lock()
	if b.current.yearMake == "" {
		b.mu.Unlock()
		return fmt.Errorf("no year/make selected")
	}
	if model == b.current.model && (b.state == StateLoaded || b.state == StateLoading) {
		b.mu.Unlock()
		return nil
	}

	key := listingKey{yearMake: b.current.yearMake, model: model}
	b.current = key
	b.state = StateLoading
	b.entries = nil
	b.selected = make(map[int]bool)
	b.errMsg = ""
	b.mu.Unlock()

	infos, err := b.svc.GetFiles(ctx, key.yearMake, key.model)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != key {
		// A newer selection superseded this fetch.
		logging.Debug("discarding stale listing",
			zap.String("yearMake", key.yearMake),
			zap.String("model", key.model))
		return nil
	}

	if err != nil {
		b.state = StateErrored
		b.errMsg = "Failed to load files for selected model"
		b.entries = nil
		b.selected = make(map[int]bool)
		logging.Error("listing fetch failed", zap.Error(err))
		return fmt.Errorf("load files: %w", err)
	}

	b.entries = make([]Entry, len(infos))
	for i, fi := range infos {
		b.entries[i] = Entry{
			ID:              i,
			Name:            fi.Name,
			Type:            EntryType(fi.Type),
			Size:            fi.Size,
			FileCount:       fi.FileCount,
			Modified:        fi.Modified,
			Extension:       fi.Extension,
			ParentDirectory: fi.ParentDirectory,
			IsDownloadable:  fi.IsDownloadable,
		}
	}
	b.state = StateLoaded
	return nil
}

// State returns the current listing state.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err returns the user-facing message of the last failed fetch.
func (b *Browser) Err() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errMsg
}

// YearMake returns the chosen year/make.
func (b *Browser) YearMake() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current.yearMake
}

// Model returns the chosen model.
func (b *Browser) Model() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current.model
}

// Entries returns a copy of the loaded listing.
func (b *Browser) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// ToggleFile flips the selection of a file entry. Directory ids and unknown
// ids are ignored.
func (b *Browser) ToggleFile(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entryByID(id)
	if !ok || !e.IsFile() {
		return
	}
	if b.selected[id] {
		delete(b.selected, id)
	} else {
		b.selected[id] = true
	}
}

// SelectAllFiles toggles between every file selected and none: if all files
// are already selected it clears the selection, otherwise it selects them
// all.
func (b *Browser) SelectAllFiles() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var fileIDs []int
	for _, e := range b.entries {
		if e.IsFile() {
			fileIDs = append(fileIDs, e.ID)
		}
	}

	selectedFiles := 0
	for _, id := range fileIDs {
		if b.selected[id] {
			selectedFiles++
		}
	}

	b.selected = make(map[int]bool)
	if selectedFiles == len(fileIDs) {
		return // was fully selected; now none
	}
	for _, id := range fileIDs {
		b.selected[id] = true
	}
}

// IsSelected reports whether the entry id is in the selection set.
func (b *Browser) IsSelected(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected[id]
}

// SelectedFileCount counts selected file entries. Directories never count
// even if an id somehow landed in the set.
func (b *Browser) SelectedFileCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.selectedFilesLocked())
}

// SelectedFiles returns the selected file entries in listing order.
func (b *Browser) SelectedFiles() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedFilesLocked()
}

func (b *Browser) selectedFilesLocked() []Entry {
	var out []Entry
	for _, e := range b.entries {
		if e.IsFile() && b.selected[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func (b *Browser) entryByID(id int) (Entry, bool) {
	for _, e := range b.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// snapshot returns the current key and listing for download operations.
func (b *Browser) snapshot() (listingKey, []Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return b.current, out
}
