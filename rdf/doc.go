// Package rdf implements a serialization-agnostic statement model and
// streaming readers/writers for the six RDF formats the splitter
// handles: Turtle, TriG, N-Triples, N-Quads, RDF/XML and JSON-LD.
//
// Readers expose one input document as an ordered sequence of
// Statement values together with the Preamble (prefixes, base IRI,
// JSON-LD context) a standalone chunk must replicate. Writers emit
// self-contained documents: preamble before the first statement,
// trailer on Close. The line-oriented formats stream with bounded
// memory; RDF/XML and JSON-LD parse the whole document before the
// first statement is yielded, as their grammars require.
package rdf
