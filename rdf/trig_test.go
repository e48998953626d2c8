package rdf

import (
	"bytes"
	"testing"
)

func TestTriGDefaultGraphBlock(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
{
  ex:s ex:p ex:o .
  ex:s ex:q ex:o2 .
}
`
	stmts := readAll(t, input, FormatTriG)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	for _, s := range stmts {
		if s.G != nil {
			t.Fatalf("default graph block must not name a graph: %v", s.G)
		}
	}
}

func TestTriGNamedGraph(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:g1 {
  ex:s ex:p ex:o .
}
GRAPH ex:g2 {
  ex:s ex:p ex:o2
}
ex:s ex:p ex:o3 .
`
	stmts := readAll(t, input, FormatTriG)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[0].G.(IRI).Value != "http://example.org/g1" {
		t.Fatalf("labeled block graph wrong: %v", stmts[0].G)
	}
	if stmts[1].G.(IRI).Value != "http://example.org/g2" {
		t.Fatalf("GRAPH keyword graph wrong: %v", stmts[1].G)
	}
	if stmts[2].G != nil {
		t.Fatalf("plain statement should be default graph: %v", stmts[2].G)
	}
}

func TestTriGGraphBlocksSharingLine(t *testing.T) {
	input := "@prefix ex: <http://example.org/> .\n" +
		"ex:g1 { ex:a ex:p ex:b . } ex:g2 { ex:c ex:p ex:d . }\n"
	stmts := readAll(t, input, FormatTriG)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	if stmts[0].G.(IRI).Value != "http://example.org/g1" {
		t.Fatalf("first block graph wrong: %v", stmts[0].G)
	}
	if stmts[1].G.(IRI).Value != "http://example.org/g2" {
		t.Fatalf("second block graph wrong: %v", stmts[1].G)
	}
}

func TestTriGBlankNodeGraphLabel(t *testing.T) {
	input := "_:g {\n<http://e/s> <http://e/p> <http://e/o> .\n}\n"
	stmts := readAll(t, input, FormatTriG)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if stmts[0].G.(BlankNode).ID != "g" {
		t.Fatalf("blank graph label wrong: %v", stmts[0].G)
	}
}

func TestTriGWriter(t *testing.T) {
	prefixes := NewPrefixMap()
	prefixes.Set("ex", "http://example.org/")

	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatTriG, Preamble{Prefixes: prefixes})
	err := w.Write(Statement{
		S: IRI{Value: "http://example.org/s"},
		P: IRI{Value: "http://example.org/p"},
		O: IRI{Value: "http://example.org/o"},
		G: IRI{Value: "http://example.org/g"},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()
	want := "@prefix ex: <http://example.org/> .\n\nex:g { ex:s ex:p ex:o . }\n"
	if buf.String() != want {
		t.Fatalf("output mismatch:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestTurtleWriterRejectsGraph(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatTurtle, Preamble{})
	err := w.Write(Statement{
		S: IRI{Value: "http://e/s"},
		P: IRI{Value: "http://e/p"},
		O: IRI{Value: "http://e/o"},
		G: IRI{Value: "http://e/g"},
	})
	if err == nil {
		t.Fatal("expected error writing named graph statement as turtle")
	}
}
