package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLemmaFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lemma.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewParser_FatalOnMissingLemmaFile(t *testing.T) {
	in := make(chan Page)
	out := make(chan TokenBatch)
	_, err := NewParser("/no/such/lemma.json", in, out, zerolog.Nop())
	assert.Error(t, err)
}

func TestParser_EmitsNormalizedTokenBatches(t *testing.T) {
	lemmaPath := writeLemmaFile(t, `{}`)

	in := make(chan Page, 1)
	out := make(chan TokenBatch, 1)

	parser, err := NewParser(lemmaPath, in, out, zerolog.Nop())
	require.NoError(t, err)

	in <- fakePage{url: "https://example.com", html: "<html><body><p>Running quickly</p></body></html>"}
	close(in)

	require.NoError(t, parser.Run(context.Background()))

	batch, ok := <-out
	require.True(t, ok)
	assert.Equal(t, "https://example.com", batch.Page.URL())
	assert.NotEmpty(t, batch.Tokens)
}

func TestParser_EmptyHTMLEmitsEmptyBatch(t *testing.T) {
	lemmaPath := writeLemmaFile(t, `{}`)

	in := make(chan Page, 1)
	out := make(chan TokenBatch, 1)

	parser, err := NewParser(lemmaPath, in, out, zerolog.Nop())
	require.NoError(t, err)

	// goquery/html parsing is extremely permissive, so use an empty
	// document to exercise the "no tokens" path rather than an error path.
	in <- fakePage{url: "https://example.com", html: ""}
	close(in)

	require.NoError(t, parser.Run(context.Background()))
	batch, ok := <-out
	require.True(t, ok)
	assert.Empty(t, batch.Tokens)
}
