package rdf

import "io"

// Reader streams RDF statements from one input document.
// Next returns io.EOF after the last statement. The first malformed
// construct fails the whole read with a *ParseError carrying
// best-effort position context; invalid input is never skipped.
type Reader interface {
	Next() (Statement, error)
	// Preamble returns the header state accumulated so far (prefix
	// declarations, base IRI, JSON-LD context). The map it carries is
	// live while reading continues; callers that need a frozen copy
	// must Clone it.
	Preamble() Preamble
	Close() error
}

// Writer streams RDF statements to one output document. Any required
// preamble is emitted before the first statement; Close emits the
// format's trailer (if any) and flushes, even when nothing was written.
type Writer interface {
	Write(Statement) error
	Flush() error
	Close() error
}

// NewReader creates a reader for the specified format.
func NewReader(r io.Reader, format Format) (Reader, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTReader(r, format), nil
	case FormatTurtle, FormatTriG:
		return newTurtleReader(r, format), nil
	case FormatRDFXML:
		return newRDFXMLReader(r), nil
	case FormatJSONLD:
		return newJSONLDReader(r), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// NewWriter creates a writer for the specified format. The preamble is
// the frozen header state to replicate into the output document; pass
// the zero Preamble for formats that carry none.
func NewWriter(w io.Writer, format Format, preamble Preamble) (Writer, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTWriter(w, format), nil
	case FormatTurtle, FormatTriG:
		return newTurtleWriter(w, format, preamble), nil
	case FormatRDFXML:
		return newRDFXMLWriter(w, preamble), nil
	case FormatJSONLD:
		return newJSONLDWriter(w, preamble), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}
