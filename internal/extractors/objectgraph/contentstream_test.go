package objectgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single Tj",
			content: "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET",
			want:    " Hello World\n",
		},
		{
			name:    "TJ with kerning and word gap",
			content: "BT [(Hel) -20 (lo) -400 (World)] TJ ET",
			want:    "Hello World\n",
		},
		{
			name:    "quote operators start new lines",
			content: "BT (one) Tj (two) ' 0 0 (three) \" ET",
			want:    "one\ntwo\nthree\n",
		},
		{
			name:    "T* newline",
			content: "BT (a) Tj T* (b) Tj ET",
			want:    "a\nb\n",
		},
		{
			name:    "escapes and nesting",
			content: `BT (a \(b\) c\\d (nested)) Tj (\101\102) Tj ET`,
			want:    `a (b) c\d (nested)AB` + "\n",
		},
		{
			name:    "hex string",
			content: "BT <48656C6C6F> Tj ET",
			want:    "Hello\n",
		},
		{
			name:    "utf16 hex string",
			content: "BT <FEFF00E9> Tj ET",
			want:    "é\n",
		},
		{
			name:    "utf16 literal string",
			content: `BT (\376\377\000\351\000t) Tj ET`,
			want:    "ét\n",
		},
		{
			name:    "hex string with spaces and odd digit",
			content: "BT <48 65 6C\n6C 6F 4> Tj ET",
			want:    "Hello@\n",
		},
		{
			name:    "escaped line break joins",
			content: "BT (line\\\nbreak) Tj ET",
			want:    "linebreak\n",
		},
		{
			name:    "comments ignored",
			content: "% (hidden) Tj\nBT (shown) Tj ET",
			want:    "shown\n",
		},
		{
			name:    "non text operators ignored",
			content: "q 1 0 0 1 0 0 cm /Im0 Do Q",
			want:    "",
		},
		{
			name:    "inline image data skipped",
			content: "BI /W 2 /H 1 /BPC 8 /CS /G ID \x00(Tj)\xff EI BT (after) Tj ET",
			want:    "after\n",
		},
		{
			name:    "dictionary operand",
			content: "/Span << /ActualText (x) >> BDC BT (y) Tj ET EMC",
			want:    "y\n",
		},
		{
			name:    "Tj without string operand",
			content: "BT 12 Tj ET",
			want:    "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShowText([]byte(tt.content)))
		})
	}
}

func TestShowText_Latin1Bytes(t *testing.T) {
	assert.Equal(t, "café\n", ShowText([]byte("BT (caf\xe9) Tj ET")))
}

func TestShowText_Unterminated(t *testing.T) {
	assert.NotPanics(t, func() {
		ShowText([]byte("BT (never closed Tj"))
		ShowText([]byte("BT <4142"))
		ShowText([]byte("BT [(a) (b"))
		ShowText([]byte("(a\\"))
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"-3.5", -3.5, true},
		{".5", 0.5, true},
		{"+7", 7, true},
		{"-", 0, false},
		{"Tj", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}
