package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// rdfxmlReader parses a whole RDF/XML document up front, as the
// grammar requires, and then serves the parsed statements one at a
// time. Namespace declarations observed anywhere in the document are
// collected into the preamble so every chunk can replicate the full
// set on its own root element.
type rdfxmlReader struct {
	statements []Statement
	index      int
	namespaces *PrefixMap
	err        error
}

func newRDFXMLReader(r io.Reader) Reader {
	d := &rdfxmlReader{namespaces: NewPrefixMap()}
	if err := d.load(r); err != nil {
		d.err = err
	}
	return d
}

func (d *rdfxmlReader) Next() (Statement, error) {
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

func (d *rdfxmlReader) Preamble() Preamble {
	return Preamble{Prefixes: d.namespaces}
}

func (d *rdfxmlReader) Close() error { return nil }

func (d *rdfxmlReader) load(r io.Reader) error {
	dec := xml.NewDecoder(r)
	bnodes := newBlankNodeGenerator()
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return wrapXMLError(dec, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		d.collectNamespaces(start)
		if start.Name.Space == rdfNS && start.Name.Local == "RDF" {
			continue
		}
		if err := d.readNodeElement(dec, start, bnodes); err != nil {
			return wrapXMLError(dec, err)
		}
	}
}

// readNodeElement consumes one node element (typed node or
// rdf:Description) and everything nested inside it.
func (d *rdfxmlReader) readNodeElement(dec *xml.Decoder, start xml.StartElement, bnodes *blankNodeGenerator) error {
	subject := subjectFromNode(start, bnodes)
	if start.Name.Space != rdfNS || start.Name.Local != "Description" {
		typ := IRI{Value: start.Name.Space + start.Name.Local}
		d.emit(Statement{S: subject, P: IRI{Value: rdfTypeIRI}, O: typ})
	}
	lang := langAttr(start.Attr)
	for _, attr := range start.Attr {
		if !isPropertyAttr(attr) {
			continue
		}
		lit := Literal{Lexical: attr.Value, Lang: lang}
		d.emit(Statement{S: subject, P: IRI{Value: attr.Name.Space + attr.Name.Local}, O: lit})
	}
	return d.readPropertyElements(dec, subject, lang, bnodes)
}

func (d *rdfxmlReader) readPropertyElements(dec *xml.Decoder, subject Term, lang string, bnodes *blankNodeGenerator) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			d.collectNamespaces(t)
			if err := d.readPropertyElement(dec, subject, lang, t, bnodes); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (d *rdfxmlReader) readPropertyElement(dec *xml.Decoder, subject Term, inheritedLang string, start xml.StartElement, bnodes *blankNodeGenerator) error {
	pred := IRI{Value: start.Name.Space + start.Name.Local}
	if pred.Value == rdfNS+"li" {
		return fmt.Errorf("rdfxml: container membership (rdf:li) not supported")
	}
	if parseType := attrValue(start.Attr, rdfNS, "parseType"); parseType != "" && parseType != "Resource" {
		return fmt.Errorf("rdfxml: parseType=%q not supported", parseType)
	}
	if attrValue(start.Attr, rdfNS, "parseType") == "Resource" {
		node := bnodes.next()
		d.emit(Statement{S: subject, P: pred, O: node})
		return d.readPropertyElements(dec, node, inheritedLang, bnodes)
	}
	if iri := attrValue(start.Attr, rdfNS, "resource"); iri != "" {
		d.emit(Statement{S: subject, P: pred, O: IRI{Value: iri}})
		return consumeElement(dec)
	}
	if nodeID := attrValue(start.Attr, rdfNS, "nodeID"); nodeID != "" {
		d.emit(Statement{S: subject, P: pred, O: BlankNode{ID: nodeID}})
		return consumeElement(dec)
	}

	lang := langAttr(start.Attr)
	if lang == "" {
		lang = inheritedLang
	}
	datatype := attrValue(start.Attr, rdfNS, "datatype")

	var content strings.Builder
	sawChild := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			content.Write(t)
		case xml.StartElement:
			// a nested node element: the object is that node
			sawChild = true
			d.collectNamespaces(t)
			child := subjectFromNode(t, bnodes)
			d.emit(Statement{S: subject, P: pred, O: child})
			if err := d.readNestedNode(dec, t, child, bnodes); err != nil {
				return err
			}
		case xml.EndElement:
			if sawChild {
				return nil
			}
			lit := Literal{Lexical: content.String()}
			if datatype != "" {
				lit.Datatype = IRI{Value: datatype}
			} else {
				lit.Lang = lang
			}
			d.emit(Statement{S: subject, P: pred, O: lit})
			return nil
		}
	}
}

// readNestedNode processes an embedded node element whose subject was
// already emitted as the parent property's object.
func (d *rdfxmlReader) readNestedNode(dec *xml.Decoder, start xml.StartElement, subject Term, bnodes *blankNodeGenerator) error {
	if start.Name.Space != rdfNS || start.Name.Local != "Description" {
		typ := IRI{Value: start.Name.Space + start.Name.Local}
		d.emit(Statement{S: subject, P: IRI{Value: rdfTypeIRI}, O: typ})
	}
	lang := langAttr(start.Attr)
	for _, attr := range start.Attr {
		if !isPropertyAttr(attr) {
			continue
		}
		lit := Literal{Lexical: attr.Value, Lang: lang}
		d.emit(Statement{S: subject, P: IRI{Value: attr.Name.Space + attr.Name.Local}, O: lit})
	}
	return d.readPropertyElements(dec, subject, lang, bnodes)
}

func (d *rdfxmlReader) emit(s Statement) {
	d.statements = append(d.statements, s)
}

func (d *rdfxmlReader) collectNamespaces(el xml.StartElement) {
	for _, attr := range el.Attr {
		switch {
		case attr.Name.Space == "xmlns":
			if attr.Name.Local != "xml" {
				d.namespaces.Set(attr.Name.Local, attr.Value)
			}
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			d.namespaces.Set("", attr.Value)
		}
	}
}

func consumeElement(dec *xml.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

func subjectFromNode(el xml.StartElement, bnodes *blankNodeGenerator) Term {
	if about := attrValue(el.Attr, rdfNS, "about"); about != "" {
		return IRI{Value: about}
	}
	if id := attrValue(el.Attr, rdfNS, "ID"); id != "" {
		return IRI{Value: "#" + id}
	}
	if nodeID := attrValue(el.Attr, rdfNS, "nodeID"); nodeID != "" {
		return BlankNode{ID: nodeID}
	}
	return bnodes.next()
}

// isPropertyAttr reports whether a node element attribute encodes a
// literal-valued property (the property attribute shorthand).
func isPropertyAttr(attr xml.Attr) bool {
	switch attr.Name.Space {
	case "", "xml", xmlNS, "xmlns", rdfNS:
		return false
	}
	return attr.Name.Local != "xmlns"
}

// langAttr finds xml:lang. The decoder reports the xml prefix as the
// full XML namespace URL, but the literal prefix is accepted too.
func langAttr(attrs []xml.Attr) string {
	for _, attr := range attrs {
		if attr.Name.Local != "lang" {
			continue
		}
		if attr.Name.Space == xmlNS || attr.Name.Space == "xml" {
			return attr.Value
		}
	}
	return ""
}

func attrValue(attrs []xml.Attr, space, local string) string {
	for _, attr := range attrs {
		if attr.Name.Space == space && attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

func wrapXMLError(dec *xml.Decoder, err error) error {
	if err == nil {
		return nil
	}
	line, column := 0, 0
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		line = syntaxErr.Line
	}
	if line == 0 {
		line, column = dec.InputPos()
	}
	return wrapParseError(string(FormatRDFXML), "", line, column, err)
}
