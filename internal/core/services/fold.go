package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// foldCase lowercases s rune by rune, keeping any rune whose lowercase
// form has a different UTF-8 length. The result has exactly the byte
// layout of s, so offsets found in it index the original text.
func foldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		lower := unicode.ToLower(r)
		if utf8.RuneLen(lower) == size {
			b.WriteRune(lower)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// runeBounds shrinks [start, end) inward until both ends sit on rune
// boundaries of s, never past the keyword span [pos, pos+n).
func runeBounds(s string, start, end, pos, n int) (int, int) {
	for start < pos && !utf8.RuneStart(s[start]) {
		start++
	}
	for end > pos+n && end < len(s) && !utf8.RuneStart(s[end]) {
		end--
	}
	return start, end
}
