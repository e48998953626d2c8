package rdf

import (
	"encoding/json"
	"fmt"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node. Identifiers are opaque and
// scoped to the document they were read from; no uniqueness is assumed
// across input files and nodes are never merged across chunks.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal. Lang and Datatype are mutually
// exclusive; writers reject literals carrying both.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Statement is one RDF fact: a triple plus an optional graph name.
// G is nil for the default graph; only the quad-bearing formats
// (N-Quads, TriG) ever produce a non-nil G. Statements are immutable
// once produced by a reader.
type Statement struct {
	// S is the subject (IRI or BlankNode).
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name (IRI or BlankNode), or nil for the default graph.
	G Term
}

// IsZero reports whether the statement has no subject/predicate/object.
func (s Statement) IsZero() bool {
	return s.S == nil && s.P.Value == "" && s.O == nil && s.G == nil
}

// Equal reports whether two statements are term-for-term identical.
func (s Statement) Equal(o Statement) bool {
	return s.S == o.S && s.P == o.P && s.O == o.O && s.G == o.G
}

// String returns an N-Quads-like rendering, mainly for diagnostics.
func (s Statement) String() string {
	if s.G != nil {
		return fmt.Sprintf("%s <%s> %s %s .", s.S, s.P.Value, s.O, s.G)
	}
	return fmt.Sprintf("%s <%s> %s .", s.S, s.P.Value, s.O)
}

// PrefixMap is an insertion-ordered mapping from prefix label to
// namespace IRI. The empty label is the default prefix (":" in Turtle,
// xmlns= in RDF/XML). Redeclaring a label updates the namespace in
// place without changing its position.
type PrefixMap struct {
	labels []string
	ns     map[string]string
}

// NewPrefixMap returns an empty prefix map.
func NewPrefixMap() *PrefixMap {
	return &PrefixMap{ns: map[string]string{}}
}

// Set binds a prefix label to a namespace IRI.
func (m *PrefixMap) Set(label, namespace string) {
	if m.ns == nil {
		m.ns = map[string]string{}
	}
	if _, ok := m.ns[label]; !ok {
		m.labels = append(m.labels, label)
	}
	m.ns[label] = namespace
}

// Get returns the namespace bound to a label.
func (m *PrefixMap) Get(label string) (string, bool) {
	if m == nil || m.ns == nil {
		return "", false
	}
	namespace, ok := m.ns[label]
	return namespace, ok
}

// Len returns the number of declared prefixes.
func (m *PrefixMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}

// Labels returns the prefix labels in declaration order.
func (m *PrefixMap) Labels() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Clone returns an independent copy of the map.
func (m *PrefixMap) Clone() *PrefixMap {
	out := NewPrefixMap()
	if m == nil {
		return out
	}
	for _, label := range m.labels {
		out.Set(label, m.ns[label])
	}
	return out
}

// Preamble captures the header state a chunk must replicate so that it
// parses independently of its sibling chunks and of the original file:
// prefix declarations for Turtle/TriG, namespace declarations for
// RDF/XML, the base IRI, and the shared @context for JSON-LD.
type Preamble struct {
	// Prefixes holds prefix declarations (Turtle/TriG) or namespace
	// declarations (RDF/XML). Nil is treated as empty.
	Prefixes *PrefixMap
	// BaseIRI is the @base directive value, if any (Turtle/TriG).
	BaseIRI string
	// Context is the raw top-level @context of a JSON-LD document,
	// replicated verbatim into every chunk.
	Context json.RawMessage
}

// Clone returns a deep copy; the returned preamble is safe to hand to
// a chunk writer while the reader keeps accumulating declarations.
func (p Preamble) Clone() Preamble {
	out := Preamble{BaseIRI: p.BaseIRI, Prefixes: p.Prefixes.Clone()}
	if len(p.Context) > 0 {
		out.Context = append(json.RawMessage(nil), p.Context...)
	}
	return out
}
