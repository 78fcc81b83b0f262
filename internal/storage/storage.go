// Package storage manages the hidden temporary files that back detached
// buffers. Each backing file lives next to its source file, named by
// prefixing the source's base name with a fixed marker, and is removed
// when the narrow session ends.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
)

// Backing creates and removes the temp files behind detached buffers.
type Backing struct {
	prefix string
	log    commonlog.Logger
}

// NewBacking returns a Backing using the given file name prefix, e.g.
// ".narrow-".
func NewBacking(prefix string) *Backing {
	return &Backing{
		prefix: prefix,
		log:    commonlog.GetLogger("narrowd.storage"),
	}
}

// Prefix returns the configured file name prefix.
func (b *Backing) Prefix() string {
	return b.prefix
}

// PathFor returns the backing file path for a source file, colocated with
// the source and hidden by the prefix.
func (b *Backing) PathFor(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	return filepath.Join(dir, b.prefix+base)
}

// Create writes a backing file for sourcePath holding content and returns
// its path.
func (b *Backing) Create(sourcePath, content string) (string, error) {
	path := b.PathFor(sourcePath)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("creating backing file %s: %w", path, err)
	}
	b.log.Debugf("created backing file %s", path)
	return path, nil
}

// Write replaces the content of an existing backing file. The detached
// buffer's edits are mirrored here so its content survives an editor
// crash mid-session.
func (b *Backing) Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing backing file %s: %w", path, err)
	}
	return nil
}

// Remove deletes a backing file. A file that is already gone is not an
// error; session teardown must succeed even when the backing file was
// removed behind our back.
func (b *Backing) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing backing file %s: %w", path, err)
	}
	b.log.Debugf("removed backing file %s", path)
	return nil
}
