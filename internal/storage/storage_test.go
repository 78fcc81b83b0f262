package storage

import (
	"os"
	"path/filepath"
	"testing"

	_ "github.com/tliron/commonlog/simple"
)

func TestPathFor(t *testing.T) {
	b := NewBacking(".narrow-")

	got := b.PathFor(filepath.Join("src", "app", "main.js"))
	want := filepath.Join("src", "app", ".narrow-main.js")
	if got != want {
		t.Errorf("PathFor = %q, want %q", got, want)
	}
}

func TestCreateWriteRemove(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "index.html")
	b := NewBacking(".narrow-")

	path, err := b.Create(source, "hello")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Base(path) != ".narrow-index.html" {
		t.Errorf("unexpected backing name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading backing file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", data, "hello")
	}

	if err := b.Write(path, "edited"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "edited" {
		t.Errorf("content after Write = %q, want %q", data, "edited")
	}

	if err := b.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("backing file should be gone")
	}
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	b := NewBacking(".narrow-")
	if err := b.Remove(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("removing a missing file should succeed: %v", err)
	}
}

func TestCreateInMissingDirectoryFails(t *testing.T) {
	b := NewBacking(".narrow-")
	if _, err := b.Create(filepath.Join(t.TempDir(), "no", "such", "dir", "f.js"), "x"); err == nil {
		t.Error("expected error creating backing file in missing directory")
	}
}
