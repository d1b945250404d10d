// Package normalisers holds the text normalisers applied to extracted
// text before it is stored. whitespace is the only one.
package normalisers
