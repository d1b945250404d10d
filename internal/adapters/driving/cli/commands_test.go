package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/extractors/pdftest"
)

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"ingest", "images", "retrieve", "rank", "ask", "documents", "watch", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestCommands_ErrorWithoutServices(t *testing.T) {
	clearServices(t)

	tests := [][]string{
		{"ingest", "a.pdf"},
		{"images", "a.pdf"},
		{"retrieve", "q"},
		{"rank", "q"},
		{"ask", "q"},
		{"documents", "list"},
		{"watch", "a.pdf"},
		{"settings", "show"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}

func TestCommands_ArgCounts(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ingest")
	assert.ErrorContains(t, err, "accepts 1 arg(s)")

	_, err = execute(t, "retrieve")
	assert.ErrorContains(t, err, "requires at least 1 arg(s)")

	_, err = execute(t, "documents", "add", "only-id")
	assert.ErrorContains(t, err, "accepts 2 arg(s)")
}

func writePDF(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	return pdftest.WriteFile(t, dir, name, pdftest.Document(pdftest.TextPage(lines...)))
}

func TestIngestThenRetrieve(t *testing.T) {
	env := setupTestServices(t)
	path := writePDF(t, env.dir, "hello.pdf", "Hello World Foo")

	out, err := execute(t, "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested hello")
	assert.Contains(t, out, "Characters: 15")

	artifacts, err := filepath.Glob(filepath.Join(env.dir, "text", "hello-*.txt"))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	data, err := os.ReadFile(artifacts[0])
	require.NoError(t, err)
	assert.Equal(t, "Hello World Foo", string(data))

	out, err = execute(t, "retrieve", "WORLD")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello ")
	assert.Contains(t, out, "World")
	assert.Contains(t, out, " Foo")

	out, err = execute(t, "retrieve", "xyz", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No context found.")
}

func TestRetrieve_BeforeIngest(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "retrieve", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groundwork ingest")
}

func TestIngest_UnreadableKeepsPrevious(t *testing.T) {
	env := setupTestServices(t)
	good := writePDF(t, env.dir, "good.pdf", "kept text")
	bad := pdftest.WriteFile(t, env.dir, "bad.pdf", []byte("garbage"))

	_, err := execute(t, "ingest", good)
	require.NoError(t, err)

	_, err = execute(t, "ingest", bad)
	require.Error(t, err)

	out, err := execute(t, "retrieve", "kept")
	require.NoError(t, err)
	assert.Contains(t, out, "text")
}

func TestRank(t *testing.T) {
	env := setupTestServices(t)
	a := filepath.Join(env.dir, "a.txt")
	b := filepath.Join(env.dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("cat cat dog"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("dog dog dog"), 0o600))

	_, err := execute(t, "documents", "add", "a", a)
	require.NoError(t, err)
	_, err = execute(t, "documents", "add", "b", b, "--title", "Bee")
	require.NoError(t, err)

	out, err := execute(t, "rank", "dog", "--top-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Bee (3)")
	assert.NotContains(t, out, "[2]")

	out, err = execute(t, "rank", "dog")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] a (1)")

	out, err = execute(t, "rank", "bird")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching documents.")
}

func TestDocuments(t *testing.T) {
	env := setupTestServices(t)
	path := writePDF(t, env.dir, "report.pdf", "quarterly numbers")

	_, err := execute(t, "ingest", path)
	require.NoError(t, err)

	out, err := execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* "+path)
	assert.Contains(t, out, "Total: 1 documents")

	out, err = execute(t, "documents", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "quarterly numbers")

	out, err = execute(t, "documents", "rm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = execute(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents stored.")

	_, err = execute(t, "documents", "show", path)
	assert.Error(t, err)
}

func TestImages(t *testing.T) {
	env := setupTestServices(t)
	page := pdftest.TextPage("pictures")
	page.Images = []pdftest.Image{
		{Name: "Im0", Width: 1, Height: 1, Filter: "FlateDecode", Data: pdftest.Deflate([]byte{1, 2, 3, 255})},
		{Name: "Im1", Width: 1, Height: 1, Filter: "RunLengthDecode", Data: []byte{0}},
	}
	path := pdftest.WriteFile(t, env.dir, "pics.pdf", pdftest.Document(page))

	out, err := execute(t, "images", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 images")
	assert.Contains(t, out, "skipped 1")
	assert.FileExists(t, filepath.Join(env.settings.Output.ImageDir, "page_1_Im0.png"))

	custom := filepath.Join(env.dir, "custom")
	_, err = execute(t, "images", path, "--out", custom)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(custom, "page_1_Im0.png"))
}

func TestAsk(t *testing.T) {
	env := setupTestServices(t)
	path := writePDF(t, env.dir, "facts.pdf", "The answer is forty two")

	out, err := execute(t, "ask", "--pdf", path, "what", "answer")
	require.NoError(t, err)
	require.Len(t, env.llm.prompts, 1)
	assert.Equal(t, "Context: The answer is forty two\n\nQuestion: what answer", env.llm.prompts[0])
	assert.Contains(t, out, "ECHO Context:")
}

func TestAsk_IngestFailureStillAnswers(t *testing.T) {
	env := setupTestServices(t)
	bad := pdftest.WriteFile(t, env.dir, "bad.pdf", []byte("garbage"))

	out, err := execute(t, "ask", "--pdf", bad, "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: ingestion failed")
	assert.Equal(t, []string{"hello"}, env.llm.prompts)
}

func TestAsk_ChatWithSystemAndHistory(t *testing.T) {
	env := setupTestServices(t)
	path := writePDF(t, env.dir, "facts.pdf", "The answer is forty two")
	history := filepath.Join(env.dir, "history.toml")
	require.NoError(t, os.WriteFile(history, []byte(`
[[turn]]
role = "user"
content = "what is this file?"

[[turn]]
role = "model"
content = "a fact sheet"
`), 0o600))

	out, err := execute(t, "ask", "--pdf", path, "--system", "be terse", "--history", history, "answer")
	require.NoError(t, err)
	assert.Contains(t, out, "CHAT 4 messages")
	assert.Empty(t, env.llm.prompts)

	require.Len(t, env.llm.chats, 1)
	msgs := env.llm.chats[0]
	assert.Equal(t, driven.ChatMessage{Role: domain.ChatRoleSystem, Content: "be terse"}, msgs[0])
	assert.Equal(t, domain.ChatRoleUser, msgs[1].Role)
	assert.Equal(t, driven.ChatMessage{Role: domain.ChatRoleAssistant, Content: "a fact sheet"}, msgs[2])
	assert.Equal(t, "Context: The answer is forty two\n\nQuestion: answer", msgs[3].Content)
}

func TestAsk_HistoryFileErrors(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute(t, "ask", "--history", filepath.Join(env.dir, "missing.toml"), "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := filepath.Join(env.dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[turn]\nrole ="), 0o600))
	_, err = execute(t, "ask", "--history", bad, "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, env.llm.chats)
}

func TestAsk_ImagesRequirePDF(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "ask", "--images", "out", "hello")
	assert.ErrorContains(t, err, "--images requires --pdf")
}
