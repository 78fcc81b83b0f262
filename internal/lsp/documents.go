package lsp

import (
	"sync"
)

// Document is the server-side mirror of an open editor document.
type Document struct {
	Text       string
	LanguageID string
	Version    int32
}

// DocumentStore tracks every document the client has opened, keyed by
// URI. The narrowing engine reads selection text from here and the
// detached buffer's edits arrive through it.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewDocumentStore returns an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]Document)}
}

// Open records a newly opened document.
func (s *DocumentStore) Open(uri, languageID, text string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = Document{Text: text, LanguageID: languageID, Version: version}
}

// Update replaces a document's full text. Unknown URIs are recorded
// fresh; a didChange can reach us before the didOpen when the client
// races its own startup.
func (s *DocumentStore) Update(uri, text string, version int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	doc.Text = text
	doc.Version = version
	s.docs[uri] = doc
}

// Close forgets a document.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the mirrored document for uri.
func (s *DocumentStore) Get(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// Len returns the number of mirrored documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
