package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// jsonldReader loads and expands a whole JSON-LD document, then serves
// statements from a structural walk of the expanded form: node
// objects, @id, @type, property arrays, @value/@language/@type
// literals, @list, and @graph containers. Embedded node objects
// without an @id become blank nodes. Statements never carry a graph
// name; @graph entries are traversed as containers. The raw top-level
// @context is retained for replication into every chunk.
type jsonldReader struct {
	statements []Statement
	index      int
	context    json.RawMessage
	err        error
}

func newJSONLDReader(r io.Reader) Reader {
	d := &jsonldReader{}
	if err := d.load(r); err != nil {
		d.err = err
	}
	return d
}

func (d *jsonldReader) Next() (Statement, error) {
	if d.err != nil {
		return Statement{}, d.err
	}
	if d.index >= len(d.statements) {
		return Statement{}, io.EOF
	}
	s := d.statements[d.index]
	d.index++
	return s, nil
}

func (d *jsonldReader) Preamble() Preamble {
	return Preamble{Context: d.context}
}

func (d *jsonldReader) Close() error { return nil }

func (d *jsonldReader) load(r io.Reader) error {
	var doc interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return wrapParseError(string(FormatJSONLD), "", 0, 0, err)
	}
	if obj, ok := doc.(map[string]interface{}); ok {
		if rawCtx, ok := obj["@context"]; ok {
			encoded, err := json.Marshal(rawCtx)
			if err != nil {
				return wrapParseError(string(FormatJSONLD), "", 0, 0, err)
			}
			d.context = encoded
		}
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.DocumentLoader = offlineDocumentLoader{}
	expanded, err := proc.Expand(doc, opts)
	if err != nil {
		return wrapParseError(string(FormatJSONLD), "", 0, 0, err)
	}

	bnodes := newBlankNodeGenerator()
	for _, item := range expanded {
		node, ok := item.(map[string]interface{})
		if !ok {
			return wrapParseError(string(FormatJSONLD), "", 0, 0, fmt.Errorf("top-level entry is not a node object"))
		}
		if _, err := d.walkNode(node, bnodes); err != nil {
			return wrapParseError(string(FormatJSONLD), "", 0, 0, err)
		}
	}
	return nil
}

// walkNode emits the statements of one expanded node object and
// returns its subject term.
func (d *jsonldReader) walkNode(node map[string]interface{}, bnodes *blankNodeGenerator) (Term, error) {
	subject := subjectOfNode(node, bnodes)

	if rawTypes, ok := node["@type"]; ok {
		types, ok := rawTypes.([]interface{})
		if !ok {
			types = []interface{}{rawTypes}
		}
		for _, t := range types {
			str, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("@type value is not a string")
			}
			d.emit(Statement{S: subject, P: IRI{Value: rdfTypeIRI}, O: termFromID(str)})
		}
	}

	if rawGraph, ok := node["@graph"]; ok {
		entries, ok := rawGraph.([]interface{})
		if !ok {
			return nil, fmt.Errorf("@graph is not an array")
		}
		for _, entry := range entries {
			inner, ok := entry.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("@graph entry is not a node object")
			}
			if _, err := d.walkNode(inner, bnodes); err != nil {
				return nil, err
			}
		}
	}

	keys := make([]string, 0, len(node))
	for key := range node {
		if strings.HasPrefix(key, "@") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pred := IRI{Value: key}
		values, ok := node[key].([]interface{})
		if !ok {
			values = []interface{}{node[key]}
		}
		for _, value := range values {
			if err := d.emitValue(subject, pred, value, bnodes); err != nil {
				return nil, err
			}
		}
	}
	return subject, nil
}

func (d *jsonldReader) emitValue(subject Term, pred IRI, raw interface{}, bnodes *blankNodeGenerator) error {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expanded property value is not an object")
	}
	if literal, ok := obj["@value"]; ok {
		lit, err := literalFromValue(literal, obj)
		if err != nil {
			return err
		}
		d.emit(Statement{S: subject, P: pred, O: lit})
		return nil
	}
	if rawList, ok := obj["@list"]; ok {
		items, ok := rawList.([]interface{})
		if !ok {
			return fmt.Errorf("@list is not an array")
		}
		head, err := d.emitList(items, bnodes)
		if err != nil {
			return err
		}
		d.emit(Statement{S: subject, P: pred, O: head})
		return nil
	}
	// a node object: plain reference or embedded node with properties
	if len(obj) == 1 {
		if id, ok := obj["@id"].(string); ok {
			d.emit(Statement{S: subject, P: pred, O: termFromID(id)})
			return nil
		}
	}
	child, err := d.walkNode(obj, bnodes)
	if err != nil {
		return err
	}
	d.emit(Statement{S: subject, P: pred, O: child})
	return nil
}

func (d *jsonldReader) emitList(items []interface{}, bnodes *blankNodeGenerator) (Term, error) {
	if len(items) == 0 {
		return IRI{Value: rdfNilIRI}, nil
	}
	head := bnodes.next()
	node := head
	for i, item := range items {
		if err := d.emitValue(node, IRI{Value: rdfFirstIRI}, item, bnodes); err != nil {
			return nil, err
		}
		if i == len(items)-1 {
			d.emit(Statement{S: node, P: IRI{Value: rdfRestIRI}, O: IRI{Value: rdfNilIRI}})
			break
		}
		next := bnodes.next()
		d.emit(Statement{S: node, P: IRI{Value: rdfRestIRI}, O: next})
		node = next
	}
	return head, nil
}

func (d *jsonldReader) emit(s Statement) {
	d.statements = append(d.statements, s)
}

func subjectOfNode(node map[string]interface{}, bnodes *blankNodeGenerator) Term {
	if id, ok := node["@id"].(string); ok {
		return termFromID(id)
	}
	return bnodes.next()
}

func termFromID(id string) Term {
	if strings.HasPrefix(id, "_:") {
		return BlankNode{ID: id[2:]}
	}
	return IRI{Value: id}
}

func literalFromValue(value interface{}, obj map[string]interface{}) (Literal, error) {
	var lit Literal
	switch v := value.(type) {
	case string:
		lit.Lexical = v
	case bool:
		lit.Lexical = fmt.Sprintf("%v", v)
		lit.Datatype = IRI{Value: xsdBoolean}
	case float64:
		lit.Lexical = fmt.Sprintf("%v", v)
		lit.Datatype = IRI{Value: xsdDecimal}
	default:
		return Literal{}, fmt.Errorf("unsupported @value type %T", value)
	}
	if lang, ok := obj["@language"].(string); ok {
		lit.Lang = lang
		lit.Datatype = IRI{}
	}
	if dt, ok := obj["@type"].(string); ok {
		lit.Datatype = IRI{Value: dt}
		lit.Lang = ""
	}
	return lit, nil
}

// offlineDocumentLoader refuses remote context fetches: splitting is a
// local batch operation and must not touch the network. Documents that
// reference remote contexts fail the parse instead.
type offlineDocumentLoader struct{}

func (offlineDocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return nil, fmt.Errorf("jsonld: refusing to load remote document %q", u)
}
