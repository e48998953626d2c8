package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatTriG     Format = "trig"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "trig":
		return FormatTriG, nil
	case "ntriples", "nt":
		return FormatNTriples, nil
	case "nquads", "nq":
		return FormatNQuads, nil
	case "rdfxml", "rdf", "xml":
		return FormatRDFXML, nil
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// FormatForPath maps a file path to a format by its extension,
// case-insensitively. Unknown extensions return ErrUnsupportedFormat;
// callers must report this, never skip the file silently.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "ttl":
		return FormatTurtle, nil
	case "nt":
		return FormatNTriples, nil
	case "nq", "nquads":
		return FormatNQuads, nil
	case "trig":
		return FormatTriG, nil
	case "rdf", "owl", "xml":
		return FormatRDFXML, nil
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Extension returns the canonical file extension for the format,
// without the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatTurtle:
		return "ttl"
	case FormatNTriples:
		return "nt"
	case FormatNQuads:
		return "nq"
	case FormatTriG:
		return "trig"
	case FormatRDFXML:
		return "rdf"
	case FormatJSONLD:
		return "jsonld"
	default:
		return ""
	}
}

// Label returns a human-readable format name for log output.
func (f Format) Label() string {
	switch f {
	case FormatTurtle:
		return "Turtle"
	case FormatNTriples:
		return "N-Triples"
	case FormatNQuads:
		return "N-Quads"
	case FormatTriG:
		return "TriG"
	case FormatRDFXML:
		return "RDF/XML"
	case FormatJSONLD:
		return "JSON-LD"
	default:
		return string(f)
	}
}

// Quads reports whether the format carries named-graph statements.
func (f Format) Quads() bool {
	return f == FormatNQuads || f == FormatTriG
}
