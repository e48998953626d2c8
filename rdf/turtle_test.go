package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestTurtlePrefixesAndBase(t *testing.T) {
	input := `@base <http://example.org/> .
@prefix ex: <http://example.org/ns#> .
@prefix : <http://example.org/default#> .

ex:alice ex:knows :bob .
`
	r, err := NewReader(strings.NewReader(input), FormatTurtle)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	s, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if s.S.(IRI).Value != "http://example.org/ns#alice" {
		t.Fatalf("prefix resolution failed: %s", s.S)
	}
	if s.O.(IRI).Value != "http://example.org/default#bob" {
		t.Fatalf("default prefix resolution failed: %s", s.O)
	}
	pre := r.Preamble()
	if pre.BaseIRI != "http://example.org/" {
		t.Fatalf("base not captured: %q", pre.BaseIRI)
	}
	if pre.Prefixes.Len() != 2 {
		t.Fatalf("expected 2 prefixes, got %d", pre.Prefixes.Len())
	}
	if labels := pre.Prefixes.Labels(); labels[0] != "ex" || labels[1] != "" {
		t.Fatalf("prefix order lost: %v", labels)
	}
}

func TestTurtleSparqlDirectives(t *testing.T) {
	input := "PREFIX ex: <http://example.org/>\nBASE <http://example.org/base/>\nex:s ex:p ex:o .\n"
	r, _ := NewReader(strings.NewReader(input), FormatTurtle)
	defer r.Close()
	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r.Preamble().BaseIRI != "http://example.org/base/" {
		t.Fatalf("BASE not captured: %q", r.Preamble().BaseIRI)
	}
}

func TestTurtleStatementsSharingLine(t *testing.T) {
	input := "<http://e/a> <http://e/p> <http://e/b> . <http://e/c> <http://e/p> <http://e/d> .\n"
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].S.(IRI).Value != "http://e/a" || stmts[1].S.(IRI).Value != "http://e/c" {
		t.Fatalf("statements split wrong: %v / %v", stmts[0], stmts[1])
	}
}

func TestTurtleDirectiveAndStatementSharingLine(t *testing.T) {
	input := "@prefix ex: <http://example.org/> . ex:a ex:p ex:b .\n"
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if stmts[0].S.(IRI).Value != "http://example.org/a" {
		t.Fatalf("prefix from shared line not applied: %v", stmts[0].S)
	}
}

func TestTurtleDecimalDotOnSharedLine(t *testing.T) {
	input := "<http://e/a> <http://e/p> 1.5 . <http://e/a> <http://e/q> 2.5 .\n"
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	lit := stmts[0].O.(Literal)
	if lit.Lexical != "1.5" || lit.Datatype.Value != xsdDecimal {
		t.Fatalf("decimal literal mangled: %v", lit)
	}
}

func TestTurtlePredicateObjectLists(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s a ex:Thing ;
    ex:p ex:o1 , ex:o2 ;
    ex:q "v" .
`
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}
	if stmts[0].P.Value != rdfTypeIRI {
		t.Fatalf("'a' not expanded: %s", stmts[0].P.Value)
	}
	if stmts[1].O.(IRI).Value != "http://example.org/o1" || stmts[2].O.(IRI).Value != "http://example.org/o2" {
		t.Fatalf("object list order lost: %v %v", stmts[1].O, stmts[2].O)
	}
}

func TestTurtleBlankNodePropertyList(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p [ ex:name "inner" ] .
`
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	bn, ok := stmts[0].O.(BlankNode)
	if !ok {
		t.Fatalf("expected blank node object, got %T", stmts[0].O)
	}
	if stmts[1].S != Term(bn) {
		t.Fatalf("nested statements not tied to generated node: %v vs %v", stmts[1].S, bn)
	}
	if stmts[1].O.(Literal).Lexical != "inner" {
		t.Fatalf("nested literal lost: %v", stmts[1].O)
	}
}

func TestTurtleCollection(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p ( ex:a ex:b ) .
ex:t ex:q () .
`
	stmts := readAll(t, input, FormatTurtle)
	// main triple + 2 first/rest pairs, then the empty-list triple
	if len(stmts) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(stmts))
	}
	if stmts[1].P.Value != rdfFirstIRI || stmts[1].O.(IRI).Value != "http://example.org/a" {
		t.Fatalf("first cell wrong: %v", stmts[1])
	}
	if stmts[4].O.(IRI).Value != rdfNilIRI {
		t.Fatalf("list not nil-terminated: %v", stmts[4].O)
	}
	if stmts[5].O.(IRI).Value != rdfNilIRI {
		t.Fatalf("empty collection should be rdf:nil: %v", stmts[5].O)
	}
}

func TestTurtleLiteralShorthand(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p 42 .
ex:s ex:p 3.14 .
ex:s ex:p 1.0e6 .
ex:s ex:p true .
ex:s ex:p """long
text""" .
ex:s ex:p 'single' .
`
	stmts := readAll(t, input, FormatTurtle)
	if len(stmts) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(stmts))
	}
	wantDT := []string{xsdInteger, xsdDecimal, xsdDouble, xsdBoolean}
	for i, want := range wantDT {
		if stmts[i].O.(Literal).Datatype.Value != want {
			t.Fatalf("statement %d: expected datatype %s, got %v", i, want, stmts[i].O)
		}
	}
	if stmts[4].O.(Literal).Lexical != "long\ntext" {
		t.Fatalf("long string lost newline: %q", stmts[4].O.(Literal).Lexical)
	}
	if stmts[5].O.(Literal).Lexical != "single" {
		t.Fatalf("single-quoted string failed: %v", stmts[5].O)
	}
}

func TestTurtleUndeclaredPrefix(t *testing.T) {
	input := "ex:s ex:p ex:o .\n"
	r, _ := NewReader(strings.NewReader(input), FormatTurtle)
	defer r.Close()
	_, err := r.Next()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !strings.Contains(pe.Error(), "undeclared prefix") {
		t.Fatalf("unexpected message: %v", pe)
	}
}

func TestTurtleErrorLineNumber(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .

ex:s ex:p ex:o .
ex:s ex:p <http://bad iri> .
`
	r, _ := NewReader(strings.NewReader(input), FormatTurtle)
	defer r.Close()
	if _, err := r.Next(); err != nil {
		t.Fatalf("first statement: %v", err)
	}
	_, err := r.Next()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 4 {
		t.Fatalf("expected line 4, got %d", pe.Line)
	}
}

func TestTurtleWriterReplicatesPreamble(t *testing.T) {
	prefixes := NewPrefixMap()
	prefixes.Set("ex", "http://example.org/")
	pre := Preamble{Prefixes: prefixes, BaseIRI: "http://example.org/base/"}

	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatTurtle, pre)
	stmt := Statement{
		S: IRI{Value: "http://example.org/s"},
		P: IRI{Value: rdfTypeIRI},
		O: IRI{Value: "http://example.org/Thing"},
	}
	if err := w.Write(stmt); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()
	got := buf.String()
	want := "@base <http://example.org/base/> .\n@prefix ex: <http://example.org/> .\n\nex:s a ex:Thing .\n"
	if got != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestTurtleWriterEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatTurtle, Preamble{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty document should write nothing, got %q", buf.String())
	}
}

func TestTurtleRoundTrip(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s a ex:Thing ;
    ex:label "hello"@en ;
    ex:count 3 .
`
	original := readAll(t, input, FormatTurtle)

	var buf bytes.Buffer
	r, _ := NewReader(strings.NewReader(input), FormatTurtle)
	var firstPass []Statement
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		firstPass = append(firstPass, s)
	}
	w, _ := NewWriter(&buf, FormatTurtle, r.Preamble().Clone())
	for _, s := range firstPass {
		if err := w.Write(s); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	w.Close()

	reparsed := readAll(t, buf.String(), FormatTurtle)
	if len(reparsed) != len(original) {
		t.Fatalf("round trip changed statement count: %d vs %d", len(reparsed), len(original))
	}
	for i := range original {
		if !original[i].Equal(reparsed[i]) {
			t.Fatalf("statement %d changed: %s vs %s", i, original[i], reparsed[i])
		}
	}
}
