// Package objectgraph walks a parsed PDF's object graph.
//
// The parser's cross-reference table is used as an arena indexed by
// object number: references are resolved by lookup, never by re-parsing.
// It provides a content-stream text extractor and an image stream walker.
package objectgraph

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

func init() {
	// Keep the parser from creating its config directory on first use.
	model.ConfigPath = "disable"
}

// maxRefDepth bounds chains of references to references.
const maxRefDepth = 32

// Arena gives read access to every object of one parsed PDF.
type Arena struct {
	ctx *model.Context
}

// Page is a leaf of the page tree with its effective resources.
type Page struct {
	// Number is the 1-based page index in document order.
	Number int

	// Dict is the page dictionary.
	Dict types.Dict

	// Resources is the page's own or inherited resource dictionary.
	Resources types.Dict
}

// Open parses the PDF at path. Any parse failure, including a parser
// panic, is reported as domain.ErrUnreadable.
func Open(path string) (a *Arena, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, domain.ErrUnreadable, err)
	}
	defer f.Close()

	defer func() {
		if p := recover(); p != nil {
			a, err = nil, fmt.Errorf("parse %s: %w: parser panic: %v", path, domain.ErrUnreadable, p)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, domain.ErrUnreadable, err)
	}
	if ctx.XRefTable == nil || ctx.Root == nil {
		return nil, fmt.Errorf("parse %s: %w: missing document catalog", path, domain.ErrUnreadable)
	}
	return &Arena{ctx: ctx}, nil
}

// Object returns the object stored under an object number.
func (a *Arena) Object(nr int) (types.Object, bool) {
	entry, ok := a.ctx.Table[nr]
	if !ok || entry == nil || entry.Free || entry.Object == nil {
		return nil, false
	}
	return entry.Object, true
}

// Resolve follows indirect references until it reaches a direct object.
// It returns nil for dangling references and reference cycles.
func (a *Arena) Resolve(o types.Object) types.Object {
	for depth := 0; depth < maxRefDepth; depth++ {
		var nr int
		switch ref := o.(type) {
		case types.IndirectRef:
			nr = ref.ObjectNumber.Value()
		case *types.IndirectRef:
			if ref == nil {
				return nil
			}
			nr = ref.ObjectNumber.Value()
		default:
			return o
		}
		obj, ok := a.Object(nr)
		if !ok {
			return nil
		}
		o = obj
	}
	return nil
}

// Dict resolves o to a dictionary. Stream dictionaries are not dictionaries here.
func (a *Arena) Dict(o types.Object) (types.Dict, bool) {
	d, ok := a.Resolve(o).(types.Dict)
	return d, ok
}

// Stream resolves o to a stream.
func (a *Arena) Stream(o types.Object) (types.StreamDict, bool) {
	switch sd := a.Resolve(o).(type) {
	case types.StreamDict:
		return sd, true
	case *types.StreamDict:
		if sd != nil {
			return *sd, true
		}
	}
	return types.StreamDict{}, false
}

// Array resolves o to an array.
func (a *Arena) Array(o types.Object) (types.Array, bool) {
	arr, ok := a.Resolve(o).(types.Array)
	return arr, ok
}

// Name resolves o to a name.
func (a *Arena) Name(o types.Object) (string, bool) {
	n, ok := a.Resolve(o).(types.Name)
	return string(n), ok
}

// Int resolves o to an integer. Integral reals are accepted.
func (a *Arena) Int(o types.Object) (int64, bool) {
	switch v := a.Resolve(o).(type) {
	case types.Integer:
		return int64(v.Value()), true
	case types.Float:
		f := v.Value()
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

// Pages returns the leaves of the page tree in document order.
// Resources are inherited from the nearest ancestor that declares them.
func (a *Arena) Pages() ([]Page, error) {
	catalog, ok := a.Dict(*a.ctx.Root)
	if !ok {
		return nil, fmt.Errorf("%w: catalog is not a dictionary", domain.ErrUnreadable)
	}
	root, ok := catalog["Pages"]
	if !ok {
		return nil, fmt.Errorf("%w: catalog has no page tree", domain.ErrUnreadable)
	}

	var pages []Page
	a.walk(root, nil, map[int]bool{}, &pages)
	return pages, nil
}

func (a *Arena) walk(node types.Object, inherited types.Dict, visited map[int]bool, out *[]Page) {
	if nr, ok := refNumber(node); ok {
		if visited[nr] {
			return
		}
		visited[nr] = true
	}

	d, ok := a.Dict(node)
	if !ok {
		return
	}

	resources := inherited
	if own, ok := a.Dict(d["Resources"]); ok {
		resources = own
	}

	if kids, ok := a.Array(d["Kids"]); ok {
		for _, kid := range kids {
			a.walk(kid, resources, visited, out)
		}
		return
	}
	if typ, _ := a.Name(d["Type"]); typ == "Pages" {
		return
	}

	*out = append(*out, Page{Number: len(*out) + 1, Dict: d, Resources: resources})
}

// Decode returns the decompressed bytes of a stream.
func Decode(sd types.StreamDict) (content []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			content, err = nil, fmt.Errorf("filter panic: %v", p)
		}
	}()
	if sd.Content != nil {
		return sd.Content, nil
	}
	if err := sd.Decode(); err != nil {
		return nil, err
	}
	if sd.Content == nil {
		return nil, fmt.Errorf("stream has no data")
	}
	return sd.Content, nil
}

// SortedKeys returns the dictionary's keys in lexical order.
func SortedKeys(d types.Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func refNumber(o types.Object) (int, bool) {
	switch ref := o.(type) {
	case types.IndirectRef:
		return ref.ObjectNumber.Value(), true
	case *types.IndirectRef:
		if ref != nil {
			return ref.ObjectNumber.Value(), true
		}
	}
	return 0, false
}

// refLabel names an object in diagnostics, "12 0 R" for references.
func refLabel(o types.Object) string {
	if nr, ok := refNumber(o); ok {
		return fmt.Sprintf("%d 0 R", nr)
	}
	return "direct object"
}
