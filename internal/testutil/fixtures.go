// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docproj/document"
)

// NewPersonDocument creates a small person record for testing.
// Contains _id, name, age, a nested address, a tags array and a secret.
func NewPersonDocument() *document.Document {
	address := document.FromFields(
		document.Field{Name: "city", Value: document.String("Oslo")},
		document.Field{Name: "zip", Value: document.String("0150")},
	)
	return document.FromFields(
		document.Field{Name: "_id", Value: document.Int(1)},
		document.Field{Name: "name", Value: document.String("Ann")},
		document.Field{Name: "age", Value: document.Int(41)},
		document.Field{Name: "address", Value: document.Doc(address)},
		document.Field{Name: "tags", Value: document.Array([]document.Value{document.String("a"), document.String("b")})},
		document.Field{Name: "secret", Value: document.String("s3cr3t")},
	)
}

// NewOrderDocuments creates n order records with _id 0..n-1, a qty equal to
// the index and a fixed price of 2.5.
func NewOrderDocuments(n int) []*document.Document {
	docs := make([]*document.Document, n)
	for i := range n {
		docs[i] = document.FromFields(
			document.Field{Name: "_id", Value: document.Int(int64(i))},
			document.Field{Name: "qty", Value: document.Int(int64(i))},
			document.Field{Name: "price", Value: document.Double(2.5)},
		)
	}
	return docs
}

// MustDocument decodes a YAML (or JSON) mapping, failing the test on error.
func MustDocument(t testing.TB, src string) *document.Document {
	t.Helper()

	doc, err := document.Decode([]byte(src))
	require.NoError(t, err, "Failed to decode test document")
	return doc
}

// AssertDocument checks that got equals the document decoded from want,
// including field order.
func AssertDocument(t testing.TB, want string, got *document.Document) bool {
	t.Helper()

	expected := MustDocument(t, want)
	return assert.True(t, expected.Equal(got), "documents differ\nwant: %s\ngot:  %s",
		document.Doc(expected), document.Doc(got))
}

// WriteTempYAML writes documents to a YAML file in a temporary directory and
// returns the file path. A single document is written as a mapping, several
// as a sequence.
func WriteTempYAML(t *testing.T, docs ...*document.Document) string {
	t.Helper()

	data, err := document.EncodeYAML(docs...)
	if err != nil {
		t.Fatalf("Failed to marshal documents to YAML: %v", err)
	}
	return WriteTempFile(t, "test.yaml", string(data))
}

// WriteTempFile writes content to name in a temporary directory and returns
// the file path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return tmpFile
}
