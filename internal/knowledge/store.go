package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
)

// Document is a parsed knowledge base file. The well-known fields are pulled
// out for the HTTP surface; the full document is kept for prompt rendering.
type Document struct {
	ProductName   string
	Version       string
	Categories    map[string]json.RawMessage
	CommonQueries []string

	// rendered is the deterministic textual form of the whole document,
	// computed once at load time so every prompt sees identical context.
	rendered string
}

// documentFile mirrors the on-disk JSON shape of the well-known fields.
type documentFile struct {
	ProductName   string                     `json:"product_name"`
	Version       string                     `json:"version"`
	Categories    map[string]json.RawMessage `json:"categories"`
	CommonQueries []string                   `json:"common_queries"`
}

// Store holds the current knowledge base document behind an atomically
// swappable pointer. A nil pointer means "not loaded". Readers never lock;
// Reload parses into a fresh Document and swaps the pointer only on success,
// so a concurrent reader always sees a complete document or none.
type Store struct {
	path string
	doc  atomic.Pointer[Document]
}

// NewStore creates a Store reading from the given file path.
// The document is not loaded until Load is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and parses the knowledge base file, replacing the current
// document on success. A missing or malformed file leaves the store in its
// previous state (unloaded on first load) and returns the error for the
// operator to log; callers are expected to treat it as non-fatal.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read knowledge base file: %w", err)
	}

	doc, err := parseDocument(data)
	if err != nil {
		return err
	}

	s.doc.Store(doc)
	return nil
}

// Reload re-runs Load. On failure the prior document (or unloaded state)
// stays intact.
func (s *Store) Reload() error {
	return s.Load()
}

// IsLoaded reports whether the store currently holds a document.
func (s *Store) IsLoaded() bool {
	return s.doc.Load() != nil
}

// PromptContext returns the document serialized for embedding in a system
// prompt. The serialization is deterministic (sorted keys, fixed
// indentation). Returns the empty string when no document is loaded.
func (s *Store) PromptContext() string {
	doc := s.doc.Load()
	if doc == nil {
		return ""
	}
	return doc.rendered
}

// ProductName returns the product name from the loaded document, or "".
func (s *Store) ProductName() string {
	if doc := s.doc.Load(); doc != nil {
		return doc.ProductName
	}
	return ""
}

// Version returns the document version, or "".
func (s *Store) Version() string {
	if doc := s.doc.Load(); doc != nil {
		return doc.Version
	}
	return ""
}

// CommonQueries returns the document's suggested queries, or nil.
func (s *Store) CommonQueries() []string {
	if doc := s.doc.Load(); doc != nil {
		return doc.CommonQueries
	}
	return nil
}

// CategoryNames returns the sorted names of all categories in the loaded
// document, or nil when not loaded.
func (s *Store) CategoryNames() []string {
	doc := s.doc.Load()
	if doc == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Categories))
	for name := range doc.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Category returns the raw data for a named category. The second return is
// false when the category does not exist or no document is loaded.
func (s *Store) Category(name string) (json.RawMessage, bool) {
	doc := s.doc.Load()
	if doc == nil {
		return nil, false
	}
	data, ok := doc.Categories[name]
	return data, ok
}

func parseDocument(data []byte) (*Document, error) {
	var file documentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base file: %w", err)
	}

	// Re-serialize the full document generically so unknown top-level keys
	// survive into the prompt context. encoding/json sorts map keys, which
	// makes the rendering deterministic.
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base file: %w", err)
	}
	rendered, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render knowledge base document: %w", err)
	}

	return &Document{
		ProductName:   file.ProductName,
		Version:       file.Version,
		Categories:    file.Categories,
		CommonQueries: file.CommonQueries,
		rendered:      string(rendered),
	}, nil
}
