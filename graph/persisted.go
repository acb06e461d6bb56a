package graph

import (
	"os"

	json "github.com/goccy/go-json"
)

// DocumentStore maps opaque document hashes to full query texts. The map
// is loaded once at startup; a nil store serves full-document requests
// only.
type DocumentStore struct {
	docs map[string]string
}

// LoadDocuments reads the persisted-documents JSON map from path. A
// missing file is not an error: persisted documents are simply disabled.
func LoadDocuments(path string) (*DocumentStore, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	docs := make(map[string]string)
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return &DocumentStore{docs: docs}, nil
}

// Get resolves a document hash. Safe on a nil store.
func (s *DocumentStore) Get(hash string) (string, bool) {
	if s == nil {
		return "", false
	}
	doc, ok := s.docs[hash]
	return doc, ok
}

// Len reports how many documents are loaded. Safe on a nil store.
func (s *DocumentStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}
