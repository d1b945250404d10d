package whitespace

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"all whitespace", " \t\n\r\v\f ", ""},
		{"already normal", "Hello World", "Hello World"},
		{"mixed runs", "Hello   World\n\nFoo", "Hello World Foo"},
		{"leading and trailing", "\n\t  padded  \n", "padded"},
		{"tabs between", "a\tb\t\tc", "a b c"},
		{"unicode spaces", "a  b　c", "a b c"},
		{"non ascii letters", "  café   naïve ", "café naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New().Normalise(tt.input))
		})
	}
}

func TestNormalise_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Hello   World\n\nFoo",
		"\ttab\tseparated\tvalues\t",
		"line one\r\nline two\r\n",
		"x",
	}

	for _, in := range inputs {
		once := Normalise(in)
		assert.Equal(t, once, Normalise(once), "input %q", in)
	}
}

func TestNormalise_NoInternalRuns(t *testing.T) {
	out := Normalise("a  \n\n b \t\t c  d")

	assert.NotContains(t, out, "  ")
	assert.Equal(t, strings.TrimSpace(out), out)
	for _, r := range out {
		if unicode.IsSpace(r) {
			assert.Equal(t, ' ', r)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/docs/annual_report-2024.pdf", "annual report 2024"},
		{"notes.txt", "notes"},
		{"/tmp/no_ext", "no ext"},
		{"/tmp/.hidden", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.path))
		})
	}
}
