package narrow

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dshills/narrowd/internal/config"
	"github.com/dshills/narrowd/internal/engine/indent"
	"github.com/dshills/narrowd/internal/host"
)

// Notifier receives session lifecycle events, e.g. for user hook scripts.
// Implementations must be fast; notifications run on the controller's
// event path.
type Notifier interface {
	NarrowStarted(source, language string)
	Synced(source string)
	Widened(source string)
}

// NopNotifier is a Notifier that ignores every event.
type NopNotifier struct{}

func (NopNotifier) NarrowStarted(string, string) {}
func (NopNotifier) Synced(string)                {}
func (NopNotifier) Widened(string)               {}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the lifecycle event notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// Controller owns the narrowing state machine. It holds at most one
// Session and is its only writer: every command and host notification is
// serialized through the controller's mutex, so two in-flight operations
// can never interleave their edits into the same tracked range.
type Controller struct {
	mu       sync.Mutex
	cfg      *config.Config
	editor   host.Editor
	notifier Notifier
	log      commonlog.Logger

	session  *Session
	latest   string // most recent detached-buffer content
	debounce *Debouncer
}

// NewController creates a Controller using the given host editor and
// configuration.
func NewController(editor host.Editor, cfg *config.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg.Clone(),
		editor:   editor,
		notifier: NopNotifier{},
		log:      commonlog.GetLogger("narrowd.session"),
		debounce: NewDebouncer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetConfig swaps in new settings, e.g. after a config file reload. The
// active session's captured state (tracked range, base indent, buffer) is
// never disturbed.
func (c *Controller) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg.Clone()
}

// Active reports whether a narrow session is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Session returns a copy of the active session, if any.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Narrow starts a session from the host's active selection: Idle ->
// Narrowed. It fails without touching any state if no usable selection
// exists, if the source language is excluded by configuration, or if a
// session is already active.
func (c *Controller) Narrow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrSessionActive
	}

	sel, ok := c.editor.ActiveSelection()
	if !ok || sel.Range.IsEmpty() || !sel.Range.IsValid() {
		return ErrNoSelection
	}
	if !c.cfg.LanguageAllowed(sel.Language) {
		return ErrLanguageNotAllowed
	}

	text, err := c.editor.Text(sel.Doc, sel.Range)
	if err != nil {
		return &OpError{Op: "narrow", Target: string(sel.Doc), Err: err}
	}

	base := indent.Common(text)
	stripped := indent.Strip(text, base)

	buf, err := c.editor.CreateDetachedBuffer(sel.Doc, stripped, sel.Language)
	if err != nil {
		return &OpError{Op: "narrow", Target: string(sel.Doc), Err: err}
	}
	if err := c.editor.OpenBuffer(buf); err != nil {
		// The buffer exists and syncs will work; presentation failed.
		c.log.Warningf("open detached buffer %s: %v", buf, err)
	}

	c.session = &Session{
		ID:           uuid.NewString(),
		SourceDoc:    sel.Doc,
		TrackedRange: sel.Range,
		BaseIndent:   base,
		Buffer:       buf,
		Language:     sel.Language,
	}
	c.latest = stripped

	c.log.Infof("narrowed %s %s into %s (session %s)", sel.Doc, sel.Range, buf, c.session.ID)
	c.notifier.NarrowStarted(string(sel.Doc), sel.Language)
	return nil
}

// BufferChanged records new detached-buffer content. In auto mode it
// schedules a debounced sync; edits inside the quiet window collapse so
// only the latest content is ever written back. Changes to buffers other
// than the session's are ignored.
func (c *Controller) BufferChanged(id host.BufferID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.Buffer != id {
		return
	}
	c.latest = text

	if c.cfg.Mode == config.ModeAuto {
		c.debounce.Schedule(c.cfg.Debounce, c.debouncedSync)
	}
}

// debouncedSync runs when the quiet window elapses.
func (c *Controller) debouncedSync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	if err := c.syncLocked(); err != nil {
		// Dropped; the session stays Narrowed and the next edit retries.
		c.log.Warningf("sync dropped: %v", err)
	}
}

// syncLocked restores indentation and writes the latest buffer content
// back over the tracked range. The tracked range's end is recomputed only
// after the host confirms the replace-edit, so a later sync never reads a
// stale target. Caller must hold c.mu.
func (c *Controller) syncLocked() error {
	restored := indent.Restore(c.latest, c.session.BaseIndent)

	applied, err := c.editor.ApplyReplace(c.session.SourceDoc, c.session.TrackedRange, restored)
	if err != nil {
		return &OpError{Op: "sync", Target: string(c.session.SourceDoc), Err: err}
	}
	if !applied {
		return &OpError{Op: "sync", Target: string(c.session.SourceDoc), Err: ErrWriteBackRejected}
	}

	c.session.TrackedRange.End = indent.RemapEnd(c.session.TrackedRange.Start, restored)
	c.notifier.Synced(string(c.session.SourceDoc))
	return nil
}

// Widen ends the session: Narrowed -> Idle. Manual mode performs the
// final write-back; auto mode flushes a pending debounced sync first when
// flush_on_widen is set. A rejected write-back aborts the widen with the
// session intact so the user can retry. Cleanup failures are warnings and
// never block the return to Idle. With no active session Widen is a
// silent no-op.
func (c *Controller) Widen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	pending := c.debounce.Cancel()
	switch {
	case c.cfg.Mode == config.ModeManual:
		if err := c.syncLocked(); err != nil {
			return err
		}
	case pending && c.cfg.FlushOnWiden:
		if err := c.syncLocked(); err != nil {
			return err
		}
	case pending:
		// flush_on_widen disabled: the last edit inside the quiet window
		// is discarded, reproducing the original lossy behavior.
		c.log.Warningf("widen with pending sync discarded (flush_on_widen=false)")
	}

	sess := c.session
	if err := c.editor.CloseBuffer(sess.Buffer, true); err != nil {
		c.log.Warningf("close buffer %s: %v", sess.Buffer, err)
	}
	if err := c.editor.FocusDocument(sess.SourceDoc, sess.TrackedRange); err != nil {
		c.log.Warningf("focus %s: %v", sess.SourceDoc, err)
	}
	if err := c.editor.DeleteBackingStorage(sess.Buffer); err != nil {
		// Orphaned temp file; degraded but not fatal.
		c.log.Warningf("delete backing storage %s: %v", sess.Buffer, err)
	}

	c.session = nil
	c.latest = ""

	c.log.Infof("widened %s (session %s)", sess.SourceDoc, sess.ID)
	c.notifier.Widened(string(sess.SourceDoc))
	return nil
}
