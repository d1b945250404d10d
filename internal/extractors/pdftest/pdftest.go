// Package pdftest builds small PDF files for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Builder lays out numbered indirect objects and writes a classic
// xref table. Object numbers start at 1.
type Builder struct {
	objs []string
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Reserve allocates an object number to be filled by Set.
func (b *Builder) Reserve() int {
	b.objs = append(b.objs, "null")
	return len(b.objs)
}

// Add appends an object body and returns its number.
func (b *Builder) Add(body string) int {
	b.objs = append(b.objs, body)
	return len(b.objs)
}

// Set replaces the body of object n.
func (b *Builder) Set(n int, body string) {
	b.objs[n-1] = body
}

// Bytes renders the file with root as the catalog.
func (b *Builder) Bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objs))
	for i, body := range b.objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(b.objs)+1, root, xref)
	return buf.Bytes()
}

// Stream renders a stream object with the given extra dictionary entries.
func Stream(dict string, data []byte) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// Deflate compresses data with zlib.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// Literal escapes s as a PDF literal string including parentheses.
func Literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}

// Page describes one page of a generated document.
type Page struct {
	// Content is the raw content stream. Ignored when Contents is set.
	Content string

	// Compress deflates the content stream.
	Compress bool

	// Contents lists several content streams for the page.
	// A nil entry renders a stream whose Flate data is corrupt.
	Contents []*string

	// Images are placed in the page's XObject resources.
	Images []Image
}

// Image is an XObject carrying pixel data. Subtype defaults to Image.
type Image struct {
	Name    string
	Subtype string
	Width   int
	Height  int
	Filter  string
	Data    []byte
}

// TextPage returns a page that shows each line with Tj.
func TextPage(lines ...string) Page {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 12 Tf\n72 720 Td\n14 TL\n")
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("T*\n")
		}
		sb.WriteString(Literal(l) + " Tj\n")
	}
	sb.WriteString("ET")
	return Page{Content: sb.String()}
}

// Document renders pages into a PDF file.
func Document(pages ...Page) []byte {
	b := New()
	catalog := b.Reserve()
	pagesRef := b.Reserve()
	font := b.Add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		contents := contentRefs(b, p)

		xobjects := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			subtype := img.Subtype
			if subtype == "" {
				subtype = "Image"
			}
			dict := fmt.Sprintf("/Type /XObject /Subtype /%s /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8",
				subtype, img.Width, img.Height)
			if img.Filter != "" {
				dict += " /Filter /" + img.Filter
			}
			ref := b.Add(Stream(dict, img.Data))
			xobjects = append(xobjects, fmt.Sprintf("/%s %d 0 R", img.Name, ref))
		}

		resources := fmt.Sprintf("<< /Font << /F1 %d 0 R >>", font)
		if len(xobjects) > 0 {
			resources += " /XObject << " + strings.Join(xobjects, " ") + " >>"
		}
		resources += " >>"

		page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s /Contents %s >>",
			pagesRef, resources, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}

	b.Set(pagesRef, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesRef))
	return b.Bytes(catalog)
}

func contentRefs(b *Builder, p Page) string {
	if len(p.Contents) == 0 {
		return fmt.Sprintf("%d 0 R", addContent(b, p.Content, p.Compress))
	}
	refs := make([]string, 0, len(p.Contents))
	for _, c := range p.Contents {
		var ref int
		if c == nil {
			ref = b.Add(Stream("/Filter /FlateDecode", []byte("this is not zlib data")))
		} else {
			ref = addContent(b, *c, p.Compress)
		}
		refs = append(refs, fmt.Sprintf("%d 0 R", ref))
	}
	return "[" + strings.Join(refs, " ") + "]"
}

func addContent(b *Builder, content string, compress bool) int {
	if compress {
		return b.Add(Stream("/Filter /FlateDecode", Deflate([]byte(content))))
	}
	return b.Add(Stream("", []byte(content)))
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
