// Package lsp adapts the narrowing engine to an LSP client over stdio.
//
// The host editor invokes narrowing through workspace/executeCommand and
// mirrors its open documents through textDocument synchronization. Edits
// flow back to the editor as workspace/applyEdit requests, so narrowd
// never touches source files on disk; only detached-buffer backing files
// are written directly.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/dshills/narrowd/internal/config"
	"github.com/dshills/narrowd/internal/narrow"
	"github.com/dshills/narrowd/internal/storage"
)

// ServerName identifies narrowd to LSP clients.
const ServerName = "narrowd"

// Commands exposed through workspace/executeCommand.
const (
	CommandNarrow = "narrowd.narrow"
	CommandWiden  = "narrowd.widen"
)

// Server wires the LSP transport to the narrowing controller.
type Server struct {
	mu  sync.Mutex
	cfg *config.Config
	ctx *glsp.Context // most recent request context; carries Notify/Call

	handler    *protocol.Handler
	docs       *DocumentStore
	backing    *storage.Backing
	editor     *editorAdapter
	controller *narrow.Controller
	log        commonlog.Logger
}

// Option configures a Server.
type Option func(*options)

type options struct {
	notifier narrow.Notifier
}

// WithNotifier forwards session lifecycle events, e.g. to Lua hooks.
func WithNotifier(n narrow.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// New creates a Server using the given configuration.
func New(cfg *config.Config, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		cfg:     cfg.Clone(),
		docs:    NewDocumentStore(),
		backing: storage.NewBacking(cfg.TempPrefix),
		log:     commonlog.GetLogger("narrowd.lsp"),
	}
	s.editor = &editorAdapter{server: s}

	ctlOpts := []narrow.Option{}
	if o.notifier != nil {
		ctlOpts = append(ctlOpts, narrow.WithNotifier(o.notifier))
	}
	s.controller = narrow.NewController(s.editor, cfg, ctlOpts...)

	s.handler = &protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}
	return s
}

// RunStdio serves LSP over stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return glspserver.NewServer(s.handler, ServerName, false).RunStdio()
}

// SetConfig applies reloaded settings. The tracked state of an active
// session is never disturbed; only future behavior changes.
func (s *Server) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg.Clone()
	s.backing = storage.NewBacking(cfg.TempPrefix)
	s.mu.Unlock()

	s.controller.SetConfig(cfg)
}

// Controller exposes the session controller, for status queries.
func (s *Server) Controller() *narrow.Controller {
	return s.controller
}

// snapshot returns the current config and request context.
func (s *Server) snapshot() (*config.Config, *glsp.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.ctx
}

// remember keeps the latest request context so timer-driven syncs can
// reach the client. Notify and Call are bound to the connection, not the
// request, so a retained context stays usable.
func (s *Server) remember(ctx *glsp.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.remember(ctx)

	s.mu.Lock()
	cfg := s.cfg.Clone()
	s.mu.Unlock()
	if err := config.ApplyOptions(cfg, params.InitializationOptions); err != nil {
		s.log.Warningf("ignoring initialization options: %v", err)
	} else {
		s.SetConfig(cfg)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandNarrow, CommandWiden},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.remember(ctx)
	s.log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	// Best-effort cleanup: an active session's backing file should not
	// outlive the server.
	if err := s.controller.Widen(); err != nil {
		s.log.Warningf("widen on shutdown: %v", err)
	}
	return nil
}
