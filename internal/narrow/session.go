package narrow

import (
	"github.com/dshills/narrowd/internal/engine/span"
	"github.com/dshills/narrowd/internal/host"
)

// Session holds the state of one active narrow. A Session exists exactly
// while a narrow is active; the Controller enforces at most one at a
// time.
type Session struct {
	// ID uniquely identifies the session, for logging and hooks.
	ID string

	// SourceDoc identifies the original document. It stays resolvable
	// even if the document is closed and reopened.
	SourceDoc host.DocumentID

	// TrackedRange is the live span in the source mirrored by the
	// detached buffer. Its end is recomputed after every successful
	// write-back, never assumed stable.
	TrackedRange span.Range

	// BaseIndent is the common leading-whitespace prefix removed during
	// extraction. Computed once at narrow time and never recomputed.
	BaseIndent string

	// Buffer identifies the detached buffer holding the de-indented
	// text.
	Buffer host.BufferID

	// Language is the source document's language mode, passed through to
	// the detached buffer's syntax handling.
	Language string
}
