package runlist

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/runlist/interval"
	"gopkg.in/yaml.v3"
)

// Shape tells a flat document (key -> run list) from a grouped one
// (group -> key -> run list).
type Shape int

const (
	// Flat documents map keys directly to run lists.
	Flat Shape = iota
	// Grouped documents map group names to flat maps.
	Grouped
)

func (s Shape) String() string {
	if s == Grouped {
		return "grouped"
	}
	return "flat"
}

// Document is a decoded run-list document.  Exactly one of Map and Groups is
// meaningful, as selected by Shape.
type Document struct {
	Shape  Shape
	Map    Map
	Groups Groups
}

// NewFlat wraps m in a flat document.
func NewFlat(m Map) *Document {
	if m == nil {
		m = Map{}
	}
	return &Document{Shape: Flat, Map: m}
}

// NewGrouped wraps g in a grouped document.
func NewGrouped(g Groups) *Document {
	if g == nil {
		g = Groups{}
	}
	return &Document{Shape: Grouped, Groups: g}
}

// AsGroups views the document as grouped.  A flat document becomes a single
// group named SingleGroup that shares the document's Map.
func (d *Document) AsGroups() Groups {
	if d.Shape == Grouped {
		return d.Groups
	}
	return Groups{SingleGroup: d.Map}
}

// WithGroups builds a document of the same shape as d from g, the inverse of
// AsGroups.
func (d *Document) WithGroups(g Groups) *Document {
	if d.Shape == Grouped {
		return NewGrouped(g)
	}
	return NewFlat(g[SingleGroup])
}

// FlatMap returns the map of a flat document, or of a grouped document that
// holds exactly one group.
func (d *Document) FlatMap() (Map, error) {
	if d.Shape == Flat {
		return d.Map, nil
	}
	if len(d.Groups) == 1 {
		for _, m := range d.Groups {
			return m, nil
		}
	}
	return nil, errors.E(errors.Integrity, fmt.Sprintf("expected a flat runlist document, got %d groups", len(d.Groups)))
}

// Keys returns the sorted union of the keys of the document.
func (d *Document) Keys() []string {
	return KeysUnion(d.AsGroups())
}

// FillUp completes every map of the document against universe.
func (d *Document) FillUp(universe []string) {
	d.AsGroups().FillUp(universe)
}

func schemaError(format string, args ...interface{}) error {
	return errors.E(errors.Integrity, "runlist: "+fmt.Sprintf(format, args...))
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func decodeMap(n *yaml.Node, where string) (Map, error) {
	m := make(Map, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := resolveAlias(n.Content[i]), resolveAlias(n.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, schemaError("%snon-scalar key at line %d", where, key.Line)
		}
		if value.Kind != yaml.ScalarNode {
			return nil, schemaError("%skey %q (line %d): expected a run list, got a %s", where, key.Value, value.Line, kindName(value))
		}
		if _, ok := m[key.Value]; ok {
			return nil, schemaError("%sduplicate key %q at line %d", where, key.Value, key.Line)
		}
		text := value.Value
		if isNull(value) {
			text = ""
		}
		s, err := interval.Parse(text)
		if err != nil {
			return nil, errors.E(fmt.Sprintf("runlist: %skey %q (line %d)", where, key.Value, value.Line), err)
		}
		m[key.Value] = s
	}
	return m, nil
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	}
	return "document"
}

// Decode reads one YAML document from r.  A mapping whose values are all run
// lists is flat; a mapping whose values are all mappings of run lists is
// grouped.  Anything else is a schema error (errors.Integrity); malformed run
// lists are reported as errors.Invalid.  An empty stream decodes to an empty
// flat document.
func Decode(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return NewFlat(nil), nil
		}
		return nil, errors.E(errors.Invalid, "runlist: malformed YAML", err)
	}
	top := &root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return NewFlat(nil), nil
		}
		top = top.Content[0]
	}
	top = resolveAlias(top)
	if isNull(top) {
		return NewFlat(nil), nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, schemaError("expected a mapping at the top level, got a %s", kindName(top))
	}
	var nScalar, nMapping int
	for i := 1; i < len(top.Content); i += 2 {
		switch resolveAlias(top.Content[i]).Kind {
		case yaml.ScalarNode:
			nScalar++
		case yaml.MappingNode:
			nMapping++
		default:
			v := resolveAlias(top.Content[i])
			return nil, schemaError("key %q (line %d): unexpected %s", top.Content[i-1].Value, v.Line, kindName(v))
		}
	}
	switch {
	case nMapping == 0:
		m, err := decodeMap(top, "")
		if err != nil {
			return nil, err
		}
		return NewFlat(m), nil
	case nScalar == 0:
		g := make(Groups, nMapping)
		for i := 0; i+1 < len(top.Content); i += 2 {
			name := resolveAlias(top.Content[i])
			if name.Kind != yaml.ScalarNode {
				return nil, schemaError("non-scalar group name at line %d", name.Line)
			}
			if _, ok := g[name.Value]; ok {
				return nil, schemaError("duplicate group %q at line %d", name.Value, name.Line)
			}
			m, err := decodeMap(resolveAlias(top.Content[i+1]), fmt.Sprintf("group %q: ", name.Value))
			if err != nil {
				return nil, err
			}
			g[name.Value] = m
		}
		return NewGrouped(g), nil
	}
	return nil, schemaError("document mixes run lists (%d) and groups (%d) at the top level", nScalar, nMapping)
}

// scalarNode tags v as a string, so that numeric-looking keys and
// single-position run lists ("9") are quoted rather than written as ints.
func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func mapNode(m Map) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range m.Keys() {
		s := m[key]
		if s == nil {
			s = interval.NewSet()
		}
		n.Content = append(n.Content, scalarNode(key), scalarNode(s.String()))
	}
	return n
}

// Encode writes d to w as one YAML document, preceded by a "---" marker, with
// keys in lexicographic order.
func Encode(w io.Writer, d *Document) error {
	var n *yaml.Node
	if d.Shape == Grouped {
		n = &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range d.Groups.Names() {
			n.Content = append(n.Content, scalarNode(name), mapNode(d.Groups[name]))
		}
	} else {
		n = mapNode(d.Map)
	}
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}

// ReadDocument decodes the document stored at path (or stdin, see Open).
func ReadDocument(ctx context.Context, path string, stdin io.Reader) (*Document, error) {
	in, err := Open(ctx, path, stdin)
	if err != nil {
		return nil, err
	}
	d, err := Decode(in)
	if err != nil {
		in.Close() // nolint: errcheck
		return nil, errors.E(err, path)
	}
	if err := in.Close(); err != nil {
		return nil, err
	}
	log.Debug.Printf("%s: %s document, %d key(s)", path, d.Shape, len(d.Keys()))
	return d, nil
}

// WriteDocuments encodes docs, in order, to path (or stdout, see Create).
// Nothing is left at path if encoding fails.
func WriteDocuments(ctx context.Context, path string, stdout io.Writer, docs ...*Document) error {
	out, err := Create(ctx, path, stdout)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := Encode(out, d); err != nil {
			out.Discard()
			return errors.E(err, path)
		}
	}
	return out.Close()
}
