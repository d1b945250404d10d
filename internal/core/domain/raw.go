package domain

// RawText is the extractor output before normalisation.
type RawText struct {
	// Source is the path the text was extracted from.
	Source string

	// Text is the concatenated page text in encounter order.
	Text string

	// Pages is the number of pages visited.
	Pages int

	// Diagnostics lists failures absorbed during extraction.
	Diagnostics []Diagnostic
}

// IsEmpty reports whether no text was extracted.
// An empty result is a success, not an error.
func (r *RawText) IsEmpty() bool {
	return r == nil || r.Text == ""
}
