package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-invoicedesk/books"
)

// DocumentMeta describes a saved download.
type DocumentMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	JobID       string    `json:"job_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentRef points at a saved download.
type DocumentRef struct {
	Key  string
	Path string
	Meta DocumentMeta
}

// Store saves exported documents into a downloads directory. Files appear
// under their final name only once fully written.
type Store struct {
	Root string
	// BaseURL, when set, is used to build links to saved documents.
	BaseURL string
	// Overwrite replaces existing files instead of picking "name (n).ext".
	Overwrite bool
	Now       func() time.Time
}

// NewStore creates a downloads store rooted at root.
func NewStore(root string) *Store {
	return &Store{Root: root, Now: time.Now}
}

// Put writes a document. The context is checked before the final rename, so a
// cancelled export never leaves a file behind.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta DocumentMeta) (DocumentRef, error) {
	if err := s.validate(key); err != nil {
		return DocumentRef{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return DocumentRef{}, err
	}

	dir := filepath.Dir(pathOnDisk)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "create downloads directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "create temp file", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "write download", err)
	}
	if err := tmp.Sync(); err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "sync download", err)
	}
	if err := tmp.Close(); err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "close download", err)
	}

	if err := ctx.Err(); err != nil {
		return DocumentRef{}, err
	}
	if !s.Overwrite {
		pathOnDisk = availablePath(pathOnDisk)
	}
	if err := os.Rename(tmp.Name(), pathOnDisk); err != nil {
		return DocumentRef{}, books.NewError(books.KindInternal, "move download into place", err)
	}

	meta.Size = size
	if meta.Filename == "" {
		meta.Filename = filepath.Base(pathOnDisk)
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if err := s.writeMeta(pathOnDisk, meta); err != nil {
		return DocumentRef{}, err
	}

	root, _ := filepath.Abs(s.Root)
	rel, err := filepath.Rel(root, pathOnDisk)
	if err != nil {
		rel = key
	}
	return DocumentRef{Key: filepath.ToSlash(rel), Path: pathOnDisk, Meta: meta}, nil
}

// Open reads a saved document.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, DocumentMeta, error) {
	_ = ctx
	if err := s.validate(key); err != nil {
		return nil, DocumentMeta{}, err
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, DocumentMeta{}, err
	}

	file, err := os.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, DocumentMeta{}, books.NewError(books.KindNotFound, fmt.Sprintf("document %q not found", key), err)
		}
		return nil, DocumentMeta{}, books.NewError(books.KindInternal, "open document", err)
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}
	return file, meta, nil
}

// Delete removes a saved document and its metadata.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	if err := s.validate(key); err != nil {
		return err
	}
	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	_ = os.Remove(pathOnDisk)
	_ = os.Remove(metaPath(pathOnDisk))
	return nil
}

// URL returns a link to a saved document, or a file URL when no base URL is
// configured.
func (s *Store) URL(ref DocumentRef) string {
	if s.BaseURL == "" {
		return "file://" + filepath.ToSlash(ref.Path)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(ref.Key, "/")
}

func (s *Store) validate(key string) error {
	if s == nil {
		return books.NewError(books.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return books.NewError(books.KindValidation, "downloads directory is required", nil)
	}
	if key == "" {
		return books.NewError(books.KindValidation, "document key is required", nil)
	}
	return nil
}

func (s *Store) resolvePath(key string) (string, error) {
	clean := path.Clean("/" + key)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "" || rel == "." {
		return "", books.NewError(books.KindValidation, "invalid document key", nil)
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", books.NewError(books.KindInternal, "resolve downloads directory", err)
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, root+string(os.PathSeparator)) && target != root {
		return "", books.NewError(books.KindValidation, "document key escapes downloads directory", nil)
	}
	return target, nil
}

// availablePath returns pathOnDisk, or "name (n).ext" for the first n that is
// not taken yet.
func availablePath(pathOnDisk string) string {
	if _, err := os.Stat(pathOnDisk); os.IsNotExist(err) {
		return pathOnDisk
	}
	ext := filepath.Ext(pathOnDisk)
	base := strings.TrimSuffix(pathOnDisk, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func (s *Store) writeMeta(pathOnDisk string, meta DocumentMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return books.NewError(books.KindInternal, "encode document metadata", err)
	}
	if err := os.WriteFile(metaPath(pathOnDisk), payload, 0o644); err != nil {
		return books.NewError(books.KindInternal, "write document metadata", err)
	}
	return nil
}

func (s *Store) readMeta(pathOnDisk string) DocumentMeta {
	data, err := os.ReadFile(metaPath(pathOnDisk))
	if err != nil {
		return DocumentMeta{}
	}
	var meta DocumentMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return DocumentMeta{}
	}
	return meta
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func metaPath(pathOnDisk string) string {
	return filepath.Join(filepath.Dir(pathOnDisk), "."+filepath.Base(pathOnDisk)+".json")
}
