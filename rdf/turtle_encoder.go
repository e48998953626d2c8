package rdf

import (
	"bufio"
	"fmt"
	"io"
)

// turtleWriter emits Turtle or TriG. The preamble's base and prefix
// declarations are written before the first statement so every chunk
// parses without access to its siblings. One statement per line;
// subject grouping is a compactness optimization this writer skips.
type turtleWriter struct {
	writer   *bufio.Writer
	format   Format
	preamble Preamble
	started  bool
	closed   bool
	err      error
}

func newTurtleWriter(w io.Writer, format Format, preamble Preamble) Writer {
	return &turtleWriter{writer: bufio.NewWriter(w), format: format, preamble: preamble}
}

func (e *turtleWriter) Write(s Statement) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("%s: writer closed", e.format)
	}
	if err := validateStatement(s); err != nil {
		return err
	}
	if s.G != nil && e.format != FormatTriG {
		return fmt.Errorf("turtle: named graph not allowed")
	}
	if !e.started {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}
	line := e.renderTerm(s.S) + " " + e.renderPredicate(s.P) + " " + e.renderTerm(s.O) + " ."
	if s.G != nil {
		line = e.renderTerm(s.G) + " { " + line + " }"
	}
	_, err := e.writer.WriteString(line + "\n")
	if err != nil {
		e.err = err
	}
	return err
}

func (e *turtleWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *turtleWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	return e.Flush()
}

func (e *turtleWriter) writeHeader() error {
	e.started = true
	if e.preamble.BaseIRI != "" {
		if _, err := e.writer.WriteString("@base <" + e.preamble.BaseIRI + "> .\n"); err != nil {
			e.err = err
			return err
		}
	}
	for _, label := range e.preamble.Prefixes.Labels() {
		ns, _ := e.preamble.Prefixes.Get(label)
		if _, err := e.writer.WriteString("@prefix " + label + ": <" + ns + "> .\n"); err != nil {
			e.err = err
			return err
		}
	}
	if e.preamble.BaseIRI != "" || e.preamble.Prefixes.Len() > 0 {
		if _, err := e.writer.WriteString("\n"); err != nil {
			e.err = err
			return err
		}
	}
	return nil
}

func (e *turtleWriter) renderPredicate(iri IRI) string {
	if iri.Value == rdfTypeIRI {
		return "a"
	}
	if qname, ok := abbreviateQName(iri.Value, e.preamble.Prefixes); ok {
		return qname
	}
	return renderIRI(iri)
}

func (e *turtleWriter) renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		if qname, ok := abbreviateQName(value.Value, e.preamble.Prefixes); ok {
			return qname
		}
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return "\"" + escapeLiteral(value.Lexical) + "\"@" + value.Lang
		}
		if value.Datatype.Value != "" {
			dt := renderIRI(value.Datatype)
			if qname, ok := abbreviateQName(value.Datatype.Value, e.preamble.Prefixes); ok {
				dt = qname
			}
			return "\"" + escapeLiteral(value.Lexical) + "\"^^" + dt
		}
		return "\"" + escapeLiteral(value.Lexical) + "\""
	default:
		return ""
	}
}
