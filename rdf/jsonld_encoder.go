package rdf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// jsonldWriter emits one expanded node object per statement. When the
// source document carried a top-level @context it is replicated
// verbatim and the nodes go under @graph; otherwise the output is a
// plain top-level array. Either way each chunk is a self-contained
// JSON-LD document.
type jsonldWriter struct {
	writer  *bufio.Writer
	context json.RawMessage
	started bool
	closed  bool
	err     error
}

func newJSONLDWriter(w io.Writer, preamble Preamble) Writer {
	return &jsonldWriter{
		writer:  bufio.NewWriter(w),
		context: preamble.Context,
	}
}

func (e *jsonldWriter) Write(s Statement) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		e.err = fmt.Errorf("jsonld: write after close")
		return e.err
	}
	if s.G != nil {
		e.err = fmt.Errorf("jsonld: named graph statements are not supported")
		return e.err
	}

	node, err := nodeObject(s)
	if err != nil {
		e.err = err
		return e.err
	}
	encoded, err := json.Marshal(node)
	if err != nil {
		e.err = err
		return e.err
	}

	if !e.started {
		e.writeFrameOpen()
		e.started = true
	} else {
		e.writer.WriteString(",\n")
	}
	e.writer.WriteString("    ")
	e.writer.Write(encoded)
	return e.flushErr()
}

func (e *jsonldWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.flushErr()
}

func (e *jsonldWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}
	if !e.started {
		e.writeFrameOpen()
		e.started = true
	}
	e.writer.WriteString("\n  ]")
	if len(e.context) > 0 {
		e.writer.WriteString("\n}")
	}
	e.writer.WriteString("\n")
	return e.flushErr()
}

func (e *jsonldWriter) writeFrameOpen() {
	if len(e.context) > 0 {
		e.writer.WriteString("{\n  \"@context\": ")
		e.writer.Write(e.context)
		e.writer.WriteString(",\n  \"@graph\": [\n")
		return
	}
	e.writer.WriteString("[\n")
}

func (e *jsonldWriter) flushErr() error {
	if err := e.writer.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

func nodeObject(s Statement) (map[string]interface{}, error) {
	node := map[string]interface{}{"@id": idOf(s.S)}
	obj, err := valueObject(s.O)
	if err != nil {
		return nil, err
	}
	if s.P.Value == rdfTypeIRI {
		if iri, ok := s.O.(IRI); ok {
			node["@type"] = []interface{}{iri.Value}
			return node, nil
		}
	}
	node[s.P.Value] = []interface{}{obj}
	return node, nil
}

func idOf(t Term) string {
	if b, ok := t.(BlankNode); ok {
		return "_:" + b.ID
	}
	return t.(IRI).Value
}

func valueObject(t Term) (map[string]interface{}, error) {
	switch v := t.(type) {
	case IRI:
		return map[string]interface{}{"@id": v.Value}, nil
	case BlankNode:
		return map[string]interface{}{"@id": "_:" + v.ID}, nil
	case Literal:
		obj := map[string]interface{}{"@value": v.Lexical}
		if v.Lang != "" {
			obj["@language"] = v.Lang
		} else if v.Datatype.Value != "" {
			obj["@type"] = v.Datatype.Value
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("jsonld: unsupported term %T", t)
	}
}
