package document

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
	"golang.org/x/text/unicode/norm"

	"github.com/erraggy/docproj/projerrors"
)

// DecodeOption configures document decoding.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	source         string
	normalizeNames bool
}

// WithSource names the input (file path, "<stdin>", ...) in parse errors.
func WithSource(source string) DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.source = source
	}
}

// WithNormalizedFieldNames normalizes every field name to Unicode NFC so that
// composed and decomposed spellings of the same name address the same field.
func WithNormalizedFieldNames() DecodeOption {
	return func(cfg *decodeConfig) {
		cfg.normalizeNames = true
	}
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	cfg := &decodeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Decode decodes a single YAML or JSON mapping into a Document.
func Decode(data []byte, opts ...DecodeOption) (*Document, error) {
	cfg := newDecodeConfig(opts)

	var root yaml.Node
	// yaml.Unmarshal handles both YAML and JSON
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &projerrors.ParseError{Path: cfg.source, Cause: err}
	}
	node := unwrapDocumentNode(&root)
	if node == nil {
		return nil, &projerrors.ParseError{Path: cfg.source, Message: "empty input"}
	}
	if node.Kind != yaml.MappingNode {
		return nil, &projerrors.ParseError{
			Path:    cfg.source,
			Line:    node.Line,
			Column:  node.Column,
			Message: "expected a mapping at the top level",
		}
	}
	return cfg.decodeMapping(node)
}

// DecodeAll decodes every document found in data. The input may be a single
// mapping, a top-level sequence of mappings (e.g. a JSON array) or a
// multi-document YAML stream mixing both.
func DecodeAll(data []byte, opts ...DecodeOption) ([]*Document, error) {
	cfg := newDecodeConfig(opts)

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []*Document
	for {
		var root yaml.Node
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &projerrors.ParseError{Path: cfg.source, Cause: err}
		}
		node := unwrapDocumentNode(&root)
		if node == nil {
			continue
		}
		switch node.Kind {
		case yaml.MappingNode:
			d, err := cfg.decodeMapping(node)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
		case yaml.SequenceNode:
			for _, item := range node.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.MappingNode {
					return nil, &projerrors.ParseError{
						Path:    cfg.source,
						Line:    item.Line,
						Column:  item.Column,
						Message: "expected a sequence of mappings",
					}
				}
				d, err := cfg.decodeMapping(item)
				if err != nil {
					return nil, err
				}
				docs = append(docs, d)
			}
		default:
			return nil, &projerrors.ParseError{
				Path:    cfg.source,
				Line:    node.Line,
				Column:  node.Column,
				Message: "expected a mapping or a sequence of mappings",
			}
		}
	}
	return docs, nil
}

// MustDecode is like Decode but panics on error. Intended for tests and examples.
func MustDecode(s string) *Document {
	d, err := Decode([]byte(s))
	if err != nil {
		panic(err)
	}
	return d
}

func unwrapDocumentNode(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return resolveAlias(n.Content[0])
	}
	if n.Kind == 0 {
		return nil
	}
	return resolveAlias(n)
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (cfg *decodeConfig) decodeMapping(n *yaml.Node) (*Document, error) {
	d := &Document{fields: make([]Field, 0, len(n.Content)/2)}
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := resolveAlias(n.Content[i])
		if keyNode.Kind != yaml.ScalarNode {
			return nil, &projerrors.ParseError{
				Path:    cfg.source,
				Line:    keyNode.Line,
				Column:  keyNode.Column,
				Message: "mapping keys must be scalars",
			}
		}
		name := keyNode.Value
		if cfg.normalizeNames {
			name = norm.NFC.String(name)
		}
		v, err := cfg.decodeNode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		d.Set(name, v)
	}
	return d, nil
}

func (cfg *decodeConfig) decodeNode(n *yaml.Node) (Value, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.MappingNode:
		d, err := cfg.decodeMapping(n)
		if err != nil {
			return Missing(), err
		}
		return Doc(d), nil
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := cfg.decodeNode(item)
			if err != nil {
				return Missing(), err
			}
			elems = append(elems, v)
		}
		return Array(elems), nil
	case yaml.ScalarNode:
		return cfg.decodeScalar(n)
	default:
		return Missing(), &projerrors.ParseError{
			Path:    cfg.source,
			Line:    n.Line,
			Column:  n.Column,
			Message: fmt.Sprintf("unsupported node kind %v", n.Kind),
		}
	}
}

func (cfg *decodeConfig) decodeScalar(n *yaml.Node) (Value, error) {
	var raw any
	if err := n.Decode(&raw); err != nil {
		return Missing(), &projerrors.ParseError{Path: cfg.source, Line: n.Line, Column: n.Column, Cause: err}
	}
	switch val := raw.(type) {
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case []byte:
		return String(base64.StdEncoding.EncodeToString(val)), nil
	}
	v, err := FromNative(raw)
	if err != nil {
		return Missing(), &projerrors.ParseError{Path: cfg.source, Line: n.Line, Column: n.Column, Cause: err}
	}
	return v, nil
}

// MarshalJSON encodes the visible fields as a JSON object in field order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDocumentJSON(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the value as JSON. Missing encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValueJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDocumentJSON(buf *bytes.Buffer, d *Document) error {
	buf.WriteByte('{')
	first := true
	for name, v := range d.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValueJSON(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValueJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindMissing, KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindDouble:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return fmt.Errorf("document: cannot encode %v as JSON", v.f)
		}
		buf.WriteString(formatDouble(v.f))
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindDocument:
		return writeDocumentJSON(buf, v.doc)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValueJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}

// formatDouble keeps a decimal point on integral doubles so they decode back
// as doubles.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// MarshalYAML implements yaml.Marshaler, emitting fields in order.
func (d *Document) MarshalYAML() (any, error) {
	return d.YAMLNode(), nil
}

// YAMLNode builds an ordered yaml.Node mapping for the document.
func (d *Document) YAMLNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Content: make([]*yaml.Node, 0, 2*d.Len())}
	for name, v := range d.All() {
		node.Content = append(node.Content, scalarNode("!!str", name), valueNode(v))
	}
	return node
}

func valueNode(v Value) *yaml.Node {
	switch v.kind {
	case KindBool:
		return scalarNode("!!bool", strconv.FormatBool(v.b))
	case KindInt:
		return scalarNode("!!int", strconv.FormatInt(v.i, 10))
	case KindDouble:
		switch {
		case math.IsNaN(v.f):
			return scalarNode("!!float", ".nan")
		case math.IsInf(v.f, 1):
			return scalarNode("!!float", ".inf")
		case math.IsInf(v.f, -1):
			return scalarNode("!!float", "-.inf")
		}
		return scalarNode("!!float", formatDouble(v.f))
	case KindString:
		return scalarNode("!!str", v.s)
	case KindDocument:
		return v.doc.YAMLNode()
	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(v.arr))}
		for _, e := range v.arr {
			node.Content = append(node.Content, valueNode(e))
		}
		return node
	default:
		return scalarNode("!!null", "null")
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// EncodeYAML encodes documents as YAML: a single mapping for one document, a
// sequence otherwise.
func EncodeYAML(docs ...*Document) ([]byte, error) {
	if len(docs) == 1 {
		return yaml.Marshal(docs[0].YAMLNode())
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(docs))}
	for _, d := range docs {
		seq.Content = append(seq.Content, d.YAMLNode())
	}
	return yaml.Marshal(seq)
}

// EncodeJSON encodes documents as indented JSON: a single object for
// one document, an array otherwise.
func EncodeJSON(docs ...*Document) ([]byte, error) {
	var raw bytes.Buffer
	if len(docs) == 1 {
		if err := writeDocumentJSON(&raw, docs[0]); err != nil {
			return nil, err
		}
	} else {
		raw.WriteByte('[')
		for i, d := range docs {
			if i > 0 {
				raw.WriteByte(',')
			}
			if err := writeDocumentJSON(&raw, d); err != nil {
				return nil, err
			}
		}
		raw.WriteByte(']')
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
