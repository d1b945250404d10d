package objectgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/extractors/pdftest"
)

func TestTextExtractor_Name(t *testing.T) {
	assert.Equal(t, "content", NewTextExtractor().Name())
}

func TestTextExtractor_PagesInOrder(t *testing.T) {
	first := pdftest.TextPage("Hello   World")
	second := pdftest.TextPage("Foo")
	second.Compress = true
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", pdftest.Document(first, second))

	raw, err := NewTextExtractor().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, raw.Pages)
	assert.Empty(t, raw.Diagnostics)
	assert.Equal(t, "Hello   World\nFoo", raw.Text)
}

func TestTextExtractor_CorruptStreamIsSkipped(t *testing.T) {
	good := "BT (kept) Tj ET"
	page := pdftest.Page{Contents: []*string{&good, nil}}
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", pdftest.Document(page))

	raw, err := NewTextExtractor().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "kept", raw.Text)
	require.Len(t, raw.Diagnostics, 1)
	d := raw.Diagnostics[0]
	assert.Equal(t, domain.StageContent, d.Stage)
	assert.Equal(t, 1, d.Page)
	assert.True(t, errors.Is(d, domain.ErrDecodeSkipped))
}

func TestTextExtractor_EmptyIsSuccess(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "doc.pdf", pdftest.Document(pdftest.Page{Content: "q Q"}))

	raw, err := NewTextExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, raw.IsEmpty())
	assert.Equal(t, 1, raw.Pages)
}

func TestTextExtractor_Unreadable(t *testing.T) {
	dir := t.TempDir()
	junk := pdftest.WriteFile(t, dir, "junk.pdf", []byte("not a pdf at all"))

	_, err := NewTextExtractor().Extract(context.Background(), junk)
	assert.True(t, errors.Is(err, domain.ErrUnreadable))

	_, err = NewTextExtractor().Extract(context.Background(), dir+"/missing.pdf")
	assert.True(t, errors.Is(err, domain.ErrUnreadable))
}
