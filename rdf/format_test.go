package rdf

import (
	"errors"
	"testing"
)

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path   string
		format Format
	}{
		{"data.ttl", FormatTurtle},
		{"data.nt", FormatNTriples},
		{"data.nq", FormatNQuads},
		{"data.nquads", FormatNQuads},
		{"data.trig", FormatTriG},
		{"data.rdf", FormatRDFXML},
		{"data.owl", FormatRDFXML},
		{"data.xml", FormatRDFXML},
		{"data.jsonld", FormatJSONLD},
		{"data.json-ld", FormatJSONLD},
		{"data.json", FormatJSONLD},
		{"DATA.TTL", FormatTurtle},
		{"dir.with.dots/data.Nt", FormatNTriples},
	}
	for _, tc := range cases {
		format, err := FormatForPath(tc.path)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.path, err)
		}
		if format != tc.format {
			t.Fatalf("%s: expected %s, got %s", tc.path, tc.format, format)
		}
	}
}

func TestFormatForPathUnsupported(t *testing.T) {
	for _, path := range []string{"data.csv", "data", "data.txt"} {
		_, err := FormatForPath(path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", path, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("turtle")
	if err != nil || format != FormatTurtle {
		t.Fatalf("ParseFormat(turtle): %v %v", format, err)
	}
	if _, err := ParseFormat("bogus"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatQuads(t *testing.T) {
	if !FormatNQuads.Quads() || !FormatTriG.Quads() {
		t.Fatal("nquads and trig carry graph terms")
	}
	if FormatTurtle.Quads() || FormatNTriples.Quads() || FormatRDFXML.Quads() || FormatJSONLD.Quads() {
		t.Fatal("triple formats must not carry graph terms")
	}
}

func TestCode(t *testing.T) {
	if Code(nil) != "" {
		t.Fatal("nil error should have empty code")
	}
	if Code(ErrUnsupportedFormat) != ErrCodeUnsupportedFormat {
		t.Fatal("unsupported format code wrong")
	}
	if Code(&ParseError{Err: errors.New("x")}) != ErrCodeParseError {
		t.Fatal("parse error code wrong")
	}
	if Code(errors.New("disk full")) != ErrCodeIOError {
		t.Fatal("fallback code wrong")
	}
}
