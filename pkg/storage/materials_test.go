package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	apperrors "campushub/pkg/errors"
)

func newStore(t *testing.T, maxSize int64) *FilesystemStore {
	t.Helper()
	store, err := NewFilesystemStore(t.TempDir(), maxSize)
	if err != nil {
		t.Fatalf("NewFilesystemStore: %v", err)
	}
	return store
}

func TestSaveAndOpen_RoundTrip(t *testing.T) {
	store := newStore(t, 1024)

	key, err := store.Save(context.Background(), "cs301", "notes.pdf", strings.NewReader("lecture notes"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !strings.HasPrefix(key, "CS301/") {
		t.Errorf("expected key under the canonical course code, got %q", key)
	}
	if !strings.HasSuffix(key, "_notes.pdf") {
		t.Errorf("expected key to keep the sanitized file name, got %q", key)
	}

	reader, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading material: %v", err)
	}
	if string(content) != "lecture notes" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestSave_RejectsDisallowedExtension(t *testing.T) {
	store := newStore(t, 1024)

	_, err := store.Save(context.Background(), "cs301", "malware.exe", strings.NewReader("x"))
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	store := newStore(t, 8)

	_, err := store.Save(context.Background(), "cs301", "notes.txt", strings.NewReader("this is more than eight bytes"))
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpen_UnknownKeyReturnsNotFound(t *testing.T) {
	store := newStore(t, 1024)

	_, err := store.Open(context.Background(), "CS301/missing.pdf")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestOpen_NeutralizesPathEscape(t *testing.T) {
	store := newStore(t, 1024)

	// Traversal keys resolve inside the base directory, so the escape
	// reads as a missing material rather than a file outside the store.
	_, err := store.Open(context.Background(), "../../etc/passwd")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRemove_MissingFileIsNoop(t *testing.T) {
	store := newStore(t, 1024)

	if err := store.Remove(context.Background(), "CS301/gone.pdf"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
}

func TestRemove_DeletesStoredFile(t *testing.T) {
	store := newStore(t, 1024)

	key, err := store.Save(context.Background(), "cs301", "notes.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Remove(context.Background(), key); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := store.Open(context.Background(), key); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected removed material to be gone, got %v", err)
	}
}
