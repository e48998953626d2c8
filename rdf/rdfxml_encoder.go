package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// rdfxmlWriter emits one rdf:Description element per statement under a
// root that replicates every namespace prefix observed in the input,
// so each chunk's QNames resolve regardless of which statements landed
// in it. Predicates outside the declared namespaces get generated nsN
// prefixes declared inline.
type rdfxmlWriter struct {
	writer     *bufio.Writer
	namespaces *PrefixMap
	nsToLabel  map[string]string
	autoSeq    int
	started    bool
	closed     bool
	err        error
}

func newRDFXMLWriter(w io.Writer, preamble Preamble) Writer {
	nsToLabel := map[string]string{}
	for _, label := range preamble.Prefixes.Labels() {
		ns, _ := preamble.Prefixes.Get(label)
		nsToLabel[ns] = label
	}
	return &rdfxmlWriter{
		writer:     bufio.NewWriter(w),
		namespaces: preamble.Prefixes.Clone(),
		nsToLabel:  nsToLabel,
	}
}

func (e *rdfxmlWriter) Write(s Statement) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("rdfxml: writer closed")
	}
	if err := validateStatement(s); err != nil {
		return err
	}
	if s.G != nil {
		return fmt.Errorf("rdfxml: named graph not allowed")
	}
	if !e.started {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}
	subjectAttr, err := rdfxmlSubjectAttr(s.S)
	if err != nil {
		return err
	}
	predicate, inlineNS, err := e.predicateQName(s.P.Value)
	if err != nil {
		return err
	}
	var line string
	switch object := s.O.(type) {
	case IRI:
		line = fmt.Sprintf("  <rdf:Description %s><%s%s rdf:resource=\"%s\"/></rdf:Description>\n",
			subjectAttr, predicate, inlineNS, escapeXML(object.Value))
	case BlankNode:
		line = fmt.Sprintf("  <rdf:Description %s><%s%s rdf:nodeID=\"%s\"/></rdf:Description>\n",
			subjectAttr, predicate, inlineNS, escapeXML(object.ID))
	case Literal:
		literalAttr := ""
		if object.Lang != "" {
			literalAttr = ` xml:lang="` + escapeXML(object.Lang) + `"`
		} else if object.Datatype.Value != "" {
			literalAttr = ` rdf:datatype="` + escapeXML(object.Datatype.Value) + `"`
		}
		line = fmt.Sprintf("  <rdf:Description %s><%s%s%s>%s</%s></rdf:Description>\n",
			subjectAttr, predicate, inlineNS, literalAttr, escapeXML(object.Lexical), predicate)
	default:
		return fmt.Errorf("rdfxml: unsupported object type")
	}
	if _, err := e.writer.WriteString(line); err != nil {
		e.err = err
	}
	return e.err
}

func (e *rdfxmlWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *rdfxmlWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if !e.started {
		// a chunk is never empty, but an empty document must still be
		// well-formed if this path is ever reached
		if err := e.writeHeader(); err != nil {
			return err
		}
	}
	if _, err := e.writer.WriteString("</rdf:RDF>\n"); err != nil {
		e.err = err
		return err
	}
	return e.writer.Flush()
}

func (e *rdfxmlWriter) writeHeader() error {
	e.started = true
	if _, err := e.writer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n"); err != nil {
		e.err = err
		return err
	}
	root := `<rdf:RDF xmlns:rdf="` + rdfNS + `"`
	for _, label := range e.namespaces.Labels() {
		ns, _ := e.namespaces.Get(label)
		if label == "rdf" && ns == rdfNS {
			continue
		}
		if label == "" {
			root += ` xmlns="` + escapeXML(ns) + `"`
			continue
		}
		root += ` xmlns:` + label + `="` + escapeXML(ns) + `"`
	}
	root += ">\n"
	if _, err := e.writer.WriteString(root); err != nil {
		e.err = err
		return err
	}
	return nil
}

// predicateQName abbreviates a predicate IRI to prefix:local, minting
// an nsN prefix declared inline when no declared namespace matches.
func (e *rdfxmlWriter) predicateQName(iri string) (string, string, error) {
	ns, local, ok := splitIRIForQName(iri)
	if !ok {
		return "", "", fmt.Errorf("rdfxml: unable to abbreviate predicate IRI %q", iri)
	}
	if ns == rdfNS {
		return "rdf:" + local, "", nil
	}
	if label, ok := e.nsToLabel[ns]; ok && label != "" {
		return label + ":" + local, "", nil
	}
	label := fmt.Sprintf("ns%d", e.autoSeq)
	e.autoSeq++
	return label + ":" + local, ` xmlns:` + label + `="` + escapeXML(ns) + `"`, nil
}

func rdfxmlSubjectAttr(term Term) (string, error) {
	switch value := term.(type) {
	case IRI:
		return `rdf:about="` + escapeXML(value.Value) + `"`, nil
	case BlankNode:
		return `rdf:nodeID="` + escapeXML(value.ID) + `"`, nil
	default:
		return "", fmt.Errorf("rdfxml: unsupported subject type")
	}
}

func escapeXML(value string) string {
	replacer := strings.NewReplacer(
		`&`, "&amp;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
		`'`, "&apos;",
	)
	return replacer.Replace(value)
}
