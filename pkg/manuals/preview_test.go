package manuals

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ecsproull/edandlinda/pkg/roles"
)

func TestPreviewPDF(t *testing.T) {
	b := loadedBrowser(t, &fakeService{}, roles.Manuals)

	p, err := b.Preview(context.Background(), 3) // index.pdf
	if err != nil {
		t.Fatal(err)
	}
	if p.Entry.Name != "index.pdf" {
		t.Errorf("preview entry %q", p.Entry.Name)
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		t.Fatalf("backing file unreadable: %v", err)
	}
	if string(data) != "file-bytes" {
		t.Errorf("backing file content %q", data)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(p.Path); !os.IsNotExist(err) {
		t.Error("close must remove the backing file")
	}

	// Closing again is a no-op.
	if err := p.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestPreviewNonPDF(t *testing.T) {
	b := loadedBrowser(t, &fakeService{}, roles.Manuals)
	if _, err := b.Preview(context.Background(), 4); !errors.Is(err, ErrPreviewUnavailable) {
		t.Fatalf("expected ErrPreviewUnavailable for .txt, got %v", err)
	}
}

func TestPreviewDirectory(t *testing.T) {
	b := loadedBrowser(t, &fakeService{}, roles.Manuals)
	if _, err := b.Preview(context.Background(), 0); err == nil {
		t.Fatal("expected error for directory id")
	}
}
