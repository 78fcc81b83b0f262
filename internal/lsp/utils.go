package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dshills/narrowd/internal/engine/span"
)

// uriToPath converts a file URI to a filesystem path.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// pathToURI converts a filesystem path to a file URI.
func pathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// fromProtocolRange converts an LSP range to a span range. Both use
// 0-indexed lines and UTF-16 columns, so the mapping is direct.
func fromProtocolRange(r protocol.Range) span.Range {
	return span.Range{
		Start: span.Point{Line: r.Start.Line, Column: r.Start.Character},
		End:   span.Point{Line: r.End.Line, Column: r.End.Character},
	}
}

// toProtocolRange converts a span range to an LSP range.
func toProtocolRange(r span.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Column},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Column},
	}
}
