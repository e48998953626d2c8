package rdf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string, format Format) []Statement {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), format)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	var out []Statement
	for {
		s, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, s)
	}
}

func TestNTriplesBasic(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n" +
		"# a comment\n" +
		"\n" +
		"_:b1 <http://example.org/p> \"hello\" .\n"
	stmts := readAll(t, input, FormatNTriples)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].S.String() != "http://example.org/s" {
		t.Fatalf("unexpected subject %s", stmts[0].S)
	}
	if stmts[1].S.String() != "_:b1" {
		t.Fatalf("unexpected blank subject %s", stmts[1].S)
	}
	lit, ok := stmts[1].O.(Literal)
	if !ok || lit.Lexical != "hello" {
		t.Fatalf("unexpected object %v", stmts[1].O)
	}
}

func TestNTriplesLiteralForms(t *testing.T) {
	input := `<http://e/s> <http://e/p> "plain" .
<http://e/s> <http://e/p> "tagged"@en-GB .
<http://e/s> <http://e/p> "42"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://e/s> <http://e/p> "say \"hi\"\n" .
<http://e/s> <http://e/p> "smørrebrød" .
`
	stmts := readAll(t, input, FormatNTriples)
	if len(stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(stmts))
	}
	if stmts[1].O.(Literal).Lang != "en-GB" {
		t.Fatalf("missing language tag: %v", stmts[1].O)
	}
	if stmts[2].O.(Literal).Datatype.Value != "http://www.w3.org/2001/XMLSchema#integer" {
		t.Fatalf("missing datatype: %v", stmts[2].O)
	}
	if stmts[3].O.(Literal).Lexical != "say \"hi\"\n" {
		t.Fatalf("escape decoding failed: %q", stmts[3].O.(Literal).Lexical)
	}
	if stmts[4].O.(Literal).Lexical != "smørrebrød" {
		t.Fatalf("\\u decoding failed: %q", stmts[4].O.(Literal).Lexical)
	}
}

func TestNTriplesParseErrorPosition(t *testing.T) {
	input := "<http://e/s> <http://e/p> <http://e/o> .\n" +
		"<http://e/s> <http://e/p 42 .\n"
	r, err := NewReader(strings.NewReader(input), FormatNTriples)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	if _, err := r.Next(); err != nil {
		t.Fatalf("first statement: %v", err)
	}
	_, err = r.Next()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Fatalf("expected line 2, got %d", pe.Line)
	}
	if Code(err) != ErrCodeParseError {
		t.Fatalf("expected PARSE_ERROR code, got %s", Code(err))
	}
}

func TestNTriplesTrailingGarbage(t *testing.T) {
	input := "<http://e/s> <http://e/p> <http://e/o> . extra\n"
	r, _ := NewReader(strings.NewReader(input), FormatNTriples)
	defer r.Close()
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for trailing content")
	}
}

func TestNQuadsGraphTerm(t *testing.T) {
	input := "<http://e/s> <http://e/p> <http://e/o> <http://e/g> .\n" +
		"<http://e/s> <http://e/p> <http://e/o> .\n"
	stmts := readAll(t, input, FormatNQuads)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].G == nil || stmts[0].G.String() != "http://e/g" {
		t.Fatalf("missing graph term: %v", stmts[0].G)
	}
	if stmts[1].G != nil {
		t.Fatalf("default graph statement should have nil graph, got %v", stmts[1].G)
	}
}

func TestNTriplesRejectsGraphTerm(t *testing.T) {
	input := "<http://e/s> <http://e/p> <http://e/o> <http://e/g> .\n"
	r, _ := NewReader(strings.NewReader(input), FormatNTriples)
	defer r.Close()
	if _, err := r.Next(); err == nil {
		t.Fatal("expected error for graph term in ntriples")
	}
}

func TestNTriplesWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatNTriples, Preamble{})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	stmt := Statement{
		S: IRI{Value: "http://e/s"},
		P: IRI{Value: "http://e/p"},
		O: Literal{Lexical: "line1\nline2\t\"q\""},
	}
	if err := w.Write(stmt); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "<http://e/s> <http://e/p> \"line1\\nline2\\t\\\"q\\\"\" .\n"
	if buf.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestNQuadsWriterGraph(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatNQuads, Preamble{})
	stmt := Statement{
		S: BlankNode{ID: "b0"},
		P: IRI{Value: "http://e/p"},
		O: IRI{Value: "http://e/o"},
		G: IRI{Value: "http://e/g"},
	}
	if err := w.Write(stmt); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()
	want := "_:b0 <http://e/p> <http://e/o> <http://e/g> .\n"
	if buf.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestNTriplesEmptyInput(t *testing.T) {
	stmts := readAll(t, "", FormatNTriples)
	if len(stmts) != 0 {
		t.Fatalf("expected no statements, got %d", len(stmts))
	}
}
