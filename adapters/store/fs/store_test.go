package storefs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-invoicedesk/books"
)

func TestStore_PutOpenDelete(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	ref, err := store.Put(context.Background(), "INV-0001.pdf", bytes.NewBufferString("%PDF"), DocumentMeta{JobID: "job-1"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref.Meta.Size != 4 {
		t.Fatalf("expected size 4, got %d", ref.Meta.Size)
	}
	if ref.Meta.ContentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", ref.Meta.ContentType)
	}
	if ref.Meta.Filename != "INV-0001.pdf" {
		t.Fatalf("expected filename, got %q", ref.Meta.Filename)
	}

	reader, meta, err := store.Open(context.Background(), ref.Key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF" {
		t.Fatalf("expected payload, got %q", string(data))
	}
	if meta.JobID != "job-1" {
		t.Fatalf("expected job id metadata, got %q", meta.JobID)
	}

	if err := store.Delete(context.Background(), ref.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, _, err = store.Open(context.Background(), ref.Key)
	if books.KindFromError(err) != books.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStore_PutKeepsExistingFiles(t *testing.T) {
	store := NewStore(t.TempDir())
	first, err := store.Put(context.Background(), "Invoice-INV-0001.pdf", bytes.NewBufferString("one"), DocumentMeta{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := store.Put(context.Background(), "Invoice-INV-0001.pdf", bytes.NewBufferString("two"), DocumentMeta{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first.Key == second.Key {
		t.Fatalf("expected a new name for the second download")
	}
	if second.Key != "Invoice-INV-0001 (1).pdf" {
		t.Fatalf("unexpected key %q", second.Key)
	}
}

func TestStore_PutCancelledLeavesNoFile(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "INV-0002.pdf", bytes.NewBufferString("%PDF"), DocumentMeta{}); err == nil {
		t.Fatalf("expected cancelled put to fail")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty downloads directory, got %d entries", len(entries))
	}
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	store := NewStore(t.TempDir())
	ref, err := store.Put(context.Background(), "../outside.pdf", bytes.NewBufferString("x"), DocumentMeta{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if filepath.Dir(ref.Path) != filepath.Clean(store.Root) {
		abs, _ := filepath.Abs(store.Root)
		if filepath.Dir(ref.Path) != abs {
			t.Fatalf("expected key to be confined to root, got %s", ref.Path)
		}
	}
}

func TestStore_URL(t *testing.T) {
	store := NewStore(t.TempDir())
	store.BaseURL = "https://desk.test/downloads/"
	if got := store.URL(DocumentRef{Key: "INV-0001.pdf"}); got != "https://desk.test/downloads/INV-0001.pdf" {
		t.Fatalf("unexpected url %q", got)
	}
}
