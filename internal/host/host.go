// Package host defines the editor collaborators the narrowing engine
// consumes. The concrete host is an LSP client on the other side of a
// stdio transport, but nothing in this package assumes that; tests use
// in-memory fakes.
package host

import "github.com/dshills/narrowd/internal/engine/span"

// DocumentID is an opaque handle identifying a document in the host
// editor. It must remain resolvable even if the document is closed and
// reopened; the LSP host uses the document URI.
type DocumentID string

// BufferID is an opaque handle identifying a detached scratch buffer.
type BufferID string

// Selection is an active selection in the host editor.
type Selection struct {
	Doc      DocumentID
	Range    span.Range
	Language string // language mode of the source document, may be empty
}

// Editor is the set of host operations the narrowing engine requires.
// All failures are I/O failures at the host boundary; the engine treats
// them as recoverable and never lets them escape to the host's top-level
// handler.
type Editor interface {
	// ActiveSelection reports the current selection, if any.
	ActiveSelection() (Selection, bool)

	// Text returns the text spanned by r in the given document.
	Text(doc DocumentID, r span.Range) (string, error)

	// CreateDetachedBuffer creates a scratch buffer holding text,
	// optionally tagged with the source's language mode. The buffer is
	// backed by temporary storage colocated with the source document.
	CreateDetachedBuffer(source DocumentID, text, language string) (BufferID, error)

	// OpenBuffer asks the host to present the buffer to the user.
	OpenBuffer(id BufferID) error

	// CloseBuffer asks the host to dismiss the buffer. When discard is
	// true the buffer's content is not persisted anywhere.
	CloseBuffer(id BufferID, discard bool) error

	// ApplyReplace replaces the text spanned by r in doc with newText.
	// The boolean reports whether the host applied the edit; a false
	// result with nil error means the host rejected it.
	ApplyReplace(doc DocumentID, r span.Range, newText string) (bool, error)

	// FocusDocument brings doc to the foreground with sel selected.
	FocusDocument(doc DocumentID, sel span.Range) error

	// DeleteBackingStorage removes the temporary storage behind a
	// detached buffer.
	DeleteBackingStorage(id BufferID) error
}
