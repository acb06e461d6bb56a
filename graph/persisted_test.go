package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persisted-documents.json")
	err := os.WriteFile(path, []byte(`{
		"sha256:abc": "{ posts { totalCount } }",
		"sha256:def": "{ me { name } }"
	}`), 0o644)
	require.NoError(t, err)

	docs, err := LoadDocuments(path)
	require.NoError(t, err)
	assert.Equal(t, 2, docs.Len())

	query, ok := docs.Get("sha256:abc")
	assert.True(t, ok)
	assert.Equal(t, "{ posts { totalCount } }", query)

	_, ok = docs.Get("sha256:missing")
	assert.False(t, ok)
}

func TestLoadDocumentsMissingFile(t *testing.T) {
	docs, err := LoadDocuments(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, docs.Len())

	_, ok := docs.Get("anything")
	assert.False(t, ok)
}

func TestLoadDocumentsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadDocuments(path)
	assert.Error(t, err)
}
