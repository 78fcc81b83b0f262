package lsp

import (
	"errors"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dshills/narrowd/internal/engine/span"
	"github.com/dshills/narrowd/internal/host"
)

// ErrNoClient indicates no request context has been seen yet, so the
// client cannot be reached.
var ErrNoClient = errors.New("no client connection")

// editorAdapter implements host.Editor against the LSP client. The
// "active selection" is the one the client sent with the narrow command;
// LSP has no way to query a selection on demand.
type editorAdapter struct {
	server *Server

	mu        sync.Mutex
	selection *host.Selection
}

// setSelection stages the selection decoded from command arguments for
// the controller's ActiveSelection call.
func (e *editorAdapter) setSelection(sel *host.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = sel
}

func (e *editorAdapter) ActiveSelection() (host.Selection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		return host.Selection{}, false
	}
	return *e.selection, true
}

func (e *editorAdapter) Text(doc host.DocumentID, r span.Range) (string, error) {
	d, ok := e.server.docs.Get(string(doc))
	if !ok {
		return "", fmt.Errorf("document %s is not open", doc)
	}
	text, ok := span.Slice(d.Text, r)
	if !ok {
		return "", fmt.Errorf("range %s does not resolve in %s", r, doc)
	}
	return text, nil
}

func (e *editorAdapter) CreateDetachedBuffer(source host.DocumentID, text, language string) (host.BufferID, error) {
	sourcePath, err := uriToPath(string(source))
	if err != nil {
		return "", err
	}

	e.server.mu.Lock()
	backing := e.server.backing
	e.server.mu.Unlock()

	path, err := backing.Create(sourcePath, text)
	if err != nil {
		return "", err
	}
	return host.BufferID(pathToURI(path)), nil
}

func (e *editorAdapter) OpenBuffer(id host.BufferID) error {
	return e.showDocument(string(id), nil)
}

// CloseBuffer cannot force the client to close an editor tab; the
// protocol has no such request. The detached buffer becomes inert once
// its backing file is deleted and the source is refocused, which the
// widen path does next.
func (e *editorAdapter) CloseBuffer(id host.BufferID, discard bool) error {
	e.server.log.Debugf("close buffer %s requested (discard=%v); deferring to refocus", id, discard)
	return nil
}

func (e *editorAdapter) ApplyReplace(doc host.DocumentID, r span.Range, newText string) (bool, error) {
	_, ctx := e.server.snapshot()
	if ctx == nil {
		return false, ErrNoClient
	}

	label := "narrowd write-back"
	params := protocol.ApplyWorkspaceEditParams{
		Label: &label,
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				protocol.DocumentUri(doc): {
					{Range: toProtocolRange(r), NewText: newText},
				},
			},
		},
	}

	// glsp's Call swallows transport errors; a failed request leaves the
	// result zero-valued, which reads as a rejected edit.
	var result protocol.ApplyWorkspaceEditResponse
	ctx.Call("workspace/applyEdit", params, &result)
	if !result.Applied {
		if result.FailureReason != nil {
			e.server.log.Warningf("apply edit refused: %s", *result.FailureReason)
		}
		return false, nil
	}

	// Keep the mirror in step; the client's echoing didChange will
	// overwrite it with identical content.
	if d, ok := e.server.docs.Get(string(doc)); ok {
		if updated, ok := span.Splice(d.Text, r, newText); ok {
			e.server.docs.Update(string(doc), updated, d.Version)
		}
	}
	return true, nil
}

func (e *editorAdapter) FocusDocument(doc host.DocumentID, sel span.Range) error {
	r := toProtocolRange(sel)
	return e.showDocument(string(doc), &r)
}

func (e *editorAdapter) DeleteBackingStorage(id host.BufferID) error {
	path, err := uriToPath(string(id))
	if err != nil {
		return err
	}

	e.server.mu.Lock()
	backing := e.server.backing
	e.server.mu.Unlock()

	return backing.Remove(path)
}

// showDocument asks the client to present a document, optionally with a
// selection.
func (e *editorAdapter) showDocument(uri string, selection *protocol.Range) error {
	_, ctx := e.server.snapshot()
	if ctx == nil {
		return ErrNoClient
	}

	params := protocol.ShowDocumentParams{
		URI:       protocol.URI(uri),
		TakeFocus: &protocol.True,
		Selection: selection,
	}
	var result protocol.ShowDocumentResult
	ctx.Call("window/showDocument", params, &result)
	if !result.Success {
		return fmt.Errorf("client could not show %s", uri)
	}
	return nil
}
