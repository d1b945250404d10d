package domain

// ContextRadius is the maximum number of bytes kept on each side
// of a matched keyword.
const ContextRadius = 300

// ContextWindow is the bounded substring returned around the first
// matching keyword.
type ContextWindow struct {
	// DocumentID is the document the window was cut from.
	DocumentID string

	// Keyword is the case-folded query keyword that matched.
	Keyword string

	// Position is the byte offset of the keyword's first occurrence.
	Position int

	// Start and End are the byte bounds of Text within the document.
	Start int
	End   int

	// Text is the window, taken from the original-case content.
	Text string
}

// IsEmpty reports whether the window carries no context.
func (w *ContextWindow) IsEmpty() bool {
	return w == nil || w.Text == ""
}

// RankedDocument is a document scored by query occurrences.
type RankedDocument struct {
	ID    string
	Title string
	Score int
}

