package objectgraph

import (
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type operandKind int

const (
	operandOther operandKind = iota
	operandString
	operandNumber
	operandArray
	operandMark
)

type operand struct {
	kind operandKind
	str  string
	num  float64
	arr  []operand
}

// tjGap is the TJ adjustment, in thousandths of an em, treated as a word gap.
const tjGap = -200

// ShowText returns the strings painted by the text-showing operators
// (Tj, TJ, ' and ") of a decoded content stream, in stream order.
// Line-moving operators become newlines, positioning operators spaces.
func ShowText(content []byte) string {
	s := &scanner{data: content}
	var out strings.Builder
	var stack []operand

	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			stack = append(stack, operand{kind: operandString, str: tok.text})
		case tokNumber:
			stack = append(stack, operand{kind: operandNumber, num: tok.num})
		case tokArrayStart:
			stack = append(stack, operand{kind: operandMark})
		case tokArrayEnd:
			stack = closeArray(stack)
		case tokOther:
			stack = append(stack, operand{kind: operandOther})
		case tokOperator:
			showOperator(&out, tok.text, stack)
			stack = stack[:0]
			if tok.text == "ID" {
				s.skipInlineImage()
			}
		}
	}
	return out.String()
}

func closeArray(stack []operand) []operand {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == operandMark {
			items := append([]operand(nil), stack[i+1:]...)
			return append(stack[:i], operand{kind: operandArray, arr: items})
		}
	}
	return stack
}

func showOperator(out *strings.Builder, op string, operands []operand) {
	last := func(kind operandKind) (operand, bool) {
		if len(operands) == 0 || operands[len(operands)-1].kind != kind {
			return operand{}, false
		}
		return operands[len(operands)-1], true
	}

	switch op {
	case "Tj":
		if o, ok := last(operandString); ok {
			out.WriteString(o.str)
		}
	case "'", "\"":
		out.WriteByte('\n')
		if o, ok := last(operandString); ok {
			out.WriteString(o.str)
		}
	case "TJ":
		o, ok := last(operandArray)
		if !ok {
			return
		}
		for _, item := range o.arr {
			switch item.kind {
			case operandString:
				out.WriteString(item.str)
			case operandNumber:
				if item.num <= tjGap {
					out.WriteByte(' ')
				}
			}
		}
	case "T*", "ET":
		out.WriteByte('\n')
	case "Td", "TD", "Tm":
		out.WriteByte(' ')
	}
}

type tokenKind int

const (
	tokString tokenKind = iota
	tokNumber
	tokArrayStart
	tokArrayEnd
	tokOperator
	tokOther
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type scanner struct {
	data []byte
	pos  int
}

func isWhite(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) next() (token, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return token{kind: tokString, text: literalText(s.literal())}, true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.pos += 2
				return token{kind: tokOther}, true
			}
			s.pos++
			return token{kind: tokString, text: hexText(s.hex())}, true
		case c == '>':
			s.pos++
			if s.pos < len(s.data) && s.data[s.pos] == '>' {
				s.pos++
			}
			return token{kind: tokOther}, true
		case c == '[':
			s.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			s.pos++
			return token{kind: tokArrayEnd}, true
		case c == '/':
			s.pos++
			s.regular()
			return token{kind: tokOther}, true
		case c == '{' || c == '}' || c == ')':
			s.pos++
		default:
			word := s.regular()
			if n, ok := parseNumber(word); ok {
				return token{kind: tokNumber, num: n}, true
			}
			return token{kind: tokOperator, text: word}, true
		}
	}
	return token{}, false
}

func (s *scanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal returns the raw body of a parenthesised string after the
// opening paren. Escapes are kept for types.Unescape.
func (s *scanner) literal() types.StringLiteral {
	start := s.pos
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return types.StringLiteral(s.data[start : s.pos-1])
			}
		case '\\':
			if s.pos < len(s.data) {
				s.pos++
			}
		}
	}
	return types.StringLiteral(s.data[start:])
}

// hex returns the digits of a hex string, whitespace dropped and an odd
// final digit padded with zero.
func (s *scanner) hex() types.HexLiteral {
	var digits []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	return types.HexLiteral(digits)
}

// skipInlineImage moves past the binary data of an inline image
// up to and including its EI operator.
func (s *scanner) skipInlineImage() {
	if s.pos < len(s.data) && isWhite(s.data[s.pos]) {
		s.pos++
	}
	for i := s.pos; i+1 < len(s.data); i++ {
		if s.data[i] != 'E' || s.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhite(s.data[i-1])
		after := i+2 == len(s.data) || isWhite(s.data[i+2]) || isDelim(s.data[i+2])
		if before && after {
			s.pos = i + 2
			return
		}
	}
	s.pos = len(s.data)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func parseNumber(word string) (float64, bool) {
	if word == "" {
		return 0, false
	}
	var (
		v       float64
		frac    float64
		neg     bool
		seenDot bool
		digits  int
	)
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case i == 0 && (c == '-' || c == '+'):
			neg = c == '-'
		case c == '.' && !seenDot:
			seenDot = true
			frac = 1
		case c >= '0' && c <= '9':
			digits++
			if seenDot {
				frac /= 10
				v += float64(c-'0') * frac
			} else {
				v = v*10 + float64(c-'0')
			}
		default:
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func literalText(sl types.StringLiteral) string {
	if text, err := types.StringLiteralToString(sl); err == nil {
		return text
	}
	b, err := types.Unescape(sl.Value())
	if err != nil {
		b = []byte(sl.Value())
	}
	return textFromBytes(b)
}

func hexText(hl types.HexLiteral) string {
	b, err := hl.Bytes()
	if err != nil {
		return ""
	}
	return textFromBytes(b)
}

// textFromBytes maps string bytes to text: UTF-16BE when the bytes carry
// a byte order mark, otherwise one rune per byte unless already UTF-8.
func textFromBytes(b []byte) string {
	if types.IsUTF16BE(b) {
		if text, err := types.DecodeUTF16String(string(b)); err == nil {
			return text
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return types.CP1252ToUTF8(string(b))
}
