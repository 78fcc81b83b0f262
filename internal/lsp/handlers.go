package lsp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dshills/narrowd/internal/engine/span"
	"github.com/dshills/narrowd/internal/host"
	"github.com/dshills/narrowd/internal/narrow"
)

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.remember(ctx)
	td := params.TextDocument
	s.docs.Open(string(td.URI), td.LanguageID, td.Text, int32(td.Version))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.remember(ctx)
	uri := string(params.TextDocument.URI)

	doc, _ := s.docs.Get(uri)
	text := doc.Text
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = change.Text
				continue
			}
			updated, ok := s.spliceChange(text, *change.Range, change.Text)
			if !ok {
				return fmt.Errorf("change range %v does not resolve in %s", *change.Range, uri)
			}
			text = updated
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	s.docs.Update(uri, text, int32(params.TextDocument.Version))

	s.bufferEdited(uri, text)
	return nil
}

// spliceChange applies one incremental change to mirrored text.
func (s *Server) spliceChange(text string, r protocol.Range, newText string) (string, bool) {
	return span.Splice(text, fromProtocolRange(r), newText)
}

// bufferEdited routes detached-buffer edits into the session controller
// and mirrors them to the backing file so the scratch content survives a
// crash mid-session.
func (s *Server) bufferEdited(uri, text string) {
	sess, ok := s.controller.Session()
	if !ok || string(sess.Buffer) != uri {
		return
	}

	if path, err := uriToPath(uri); err == nil {
		s.mu.Lock()
		backing := s.backing
		s.mu.Unlock()
		if err := backing.Write(path, text); err != nil {
			s.log.Warningf("mirroring detached buffer: %v", err)
		}
	}

	s.controller.BufferChanged(host.BufferID(uri), text)
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.remember(ctx)
	s.docs.Close(string(params.TextDocument.URI))
	return nil
}

// narrowArgs is the payload of the narrowd.narrow command: the document
// and selection the client wants narrowed.
type narrowArgs struct {
	URI   string         `json:"uri"`
	Range protocol.Range `json:"range"`
}

func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	s.remember(ctx)

	switch params.Command {
	case CommandNarrow:
		s.commandNarrow(ctx, params.Arguments)
	case CommandWiden:
		s.commandWiden(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	return nil, nil
}

func (s *Server) commandNarrow(ctx *glsp.Context, arguments []any) {
	args, err := decodeNarrowArgs(arguments)
	if err != nil {
		s.showMessage(ctx, protocol.MessageTypeWarning, fmt.Sprintf("narrow: %v", err))
		return
	}

	language := ""
	if doc, ok := s.docs.Get(args.URI); ok {
		language = doc.LanguageID
	}
	s.editor.setSelection(&host.Selection{
		Doc:      host.DocumentID(args.URI),
		Range:    fromProtocolRange(args.Range),
		Language: language,
	})
	defer s.editor.setSelection(nil)

	switch err := s.controller.Narrow(); {
	case err == nil:
	case errors.Is(err, narrow.ErrNoSelection):
		s.showMessage(ctx, protocol.MessageTypeWarning, "narrow: nothing selected")
	case errors.Is(err, narrow.ErrSessionActive):
		s.showMessage(ctx, protocol.MessageTypeWarning, "narrow: a narrowed region is already open")
	case errors.Is(err, narrow.ErrLanguageNotAllowed):
		s.showMessage(ctx, protocol.MessageTypeWarning,
			fmt.Sprintf("narrow: language %q is not enabled", language))
	default:
		s.showMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("narrow failed: %v", err))
	}
}

func (s *Server) commandWiden(ctx *glsp.Context) {
	// Widen with no session is a silent no-op; only real failures are
	// surfaced.
	if err := s.controller.Widen(); err != nil {
		s.showMessage(ctx, protocol.MessageTypeError, fmt.Sprintf("widen failed: %v", err))
	}
}

// decodeNarrowArgs extracts the narrow command's argument object through
// a JSON round trip, the same way initialization options are decoded.
func decodeNarrowArgs(arguments []any) (narrowArgs, error) {
	var args narrowArgs
	if len(arguments) == 0 {
		return args, errors.New("missing selection argument")
	}
	raw, err := json.Marshal(arguments[0])
	if err != nil {
		return args, err
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, err
	}
	if args.URI == "" {
		return args, errors.New("selection argument has no uri")
	}
	return args, nil
}

func (s *Server) showMessage(ctx *glsp.Context, typ protocol.MessageType, message string) {
	ctx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    typ,
		Message: message,
	})
}
