package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	rdfNS        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xsdNS        = "http://www.w3.org/2001/XMLSchema#"
	xmlNS        = "http://www.w3.org/XML/1998/namespace"
	rdfTypeIRI   = rdfNS + "type"
	rdfFirstIRI  = rdfNS + "first"
	rdfRestIRI   = rdfNS + "rest"
	rdfNilIRI    = rdfNS + "nil"
	xsdInteger   = xsdNS + "integer"
	xsdDecimal   = xsdNS + "decimal"
	xsdDouble    = xsdNS + "double"
	xsdBoolean   = xsdNS + "boolean"
)

// turtleReader streams statements from a Turtle or TriG document. It
// accumulates physical lines into complete logical units (directive,
// triple statement, or TriG graph block) and hands each unit to a
// turtleCursor. Prefix and base directives feed the document preamble
// as they are encountered.
type turtleReader struct {
	scanner  *ttlScanner
	format   Format
	prefixes *PrefixMap
	base     string
	pending  []Statement
	bnodes   *blankNodeGenerator
	err      error
}

func newTurtleReader(r io.Reader, format Format) Reader {
	return &turtleReader{
		scanner:  newTTLScanner(r),
		format:   format,
		prefixes: NewPrefixMap(),
		bnodes:   newBlankNodeGenerator(),
	}
}

func (d *turtleReader) Next() (Statement, error) {
	if d.err != nil {
		return Statement{}, d.err
	}
	for {
		if len(d.pending) > 0 {
			stmt := d.pending[0]
			d.pending = d.pending[1:]
			return stmt, nil
		}
		unit, startLine, err := d.scanner.nextUnit(d.format == FormatTriG)
		if err != nil {
			if err == io.EOF {
				return Statement{}, io.EOF
			}
			d.err = wrapParseError(string(d.format), "", d.scanner.line, 0, err)
			return Statement{}, d.err
		}
		if d.handleDirective(unit) {
			continue
		}
		statements, err := d.parseUnit(unit, startLine)
		if err != nil {
			d.err = wrapParseError(string(d.format), unit, startLine, 0, err)
			return Statement{}, d.err
		}
		d.pending = statements
	}
}

func (d *turtleReader) Preamble() Preamble {
	return Preamble{Prefixes: d.prefixes, BaseIRI: d.base}
}

func (d *turtleReader) Close() error { return nil }

// handleDirective consumes @prefix/@base and their SPARQL-style forms.
// Directives must fit on one physical line.
func (d *turtleReader) handleDirective(unit string) bool {
	trimmed := strings.TrimSpace(unit)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "@prefix"):
		if label, ns, ok := parsePrefixDirective(trimmed[len("@prefix"):], true); ok {
			d.prefixes.Set(label, ns)
			return true
		}
	case strings.HasPrefix(lower, "prefix") && !strings.HasPrefix(trimmed, "prefix:"):
		if label, ns, ok := parsePrefixDirective(trimmed[len("prefix"):], false); ok {
			d.prefixes.Set(label, ns)
			return true
		}
	case strings.HasPrefix(lower, "@base"):
		if iri, ok := parseBaseDirective(trimmed[len("@base"):], true); ok {
			d.base = iri
			return true
		}
	case strings.HasPrefix(lower, "base") && !strings.HasPrefix(trimmed, "base:"):
		if iri, ok := parseBaseDirective(trimmed[len("base"):], false); ok {
			d.base = iri
			return true
		}
	}
	return false
}

// parseUnit parses one complete logical unit into statements. For TriG
// the unit may be a graph block; for Turtle it is always a statement.
func (d *turtleReader) parseUnit(unit string, startLine int) ([]Statement, error) {
	cursor := newTurtleCursor(unit, startLine, d.prefixes, d.bnodes)
	if d.format == FormatTriG {
		return cursor.parseTriGUnit()
	}
	statements, err := cursor.parseStatement(nil)
	if err != nil {
		return nil, err
	}
	cursor.skipWS()
	if !cursor.atEnd() {
		return nil, cursor.errorf("trailing content after statement")
	}
	return statements, nil
}

func parsePrefixDirective(rest string, dotted bool) (string, string, bool) {
	rest = strings.TrimSpace(rest)
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", "", false
	}
	label := strings.TrimSpace(rest[:colon])
	rest = strings.TrimSpace(rest[colon+1:])
	if !strings.HasPrefix(rest, "<") {
		return "", "", false
	}
	end := strings.Index(rest, ">")
	if end < 0 {
		return "", "", false
	}
	ns := rest[1:end]
	tail := strings.TrimSpace(rest[end+1:])
	if dotted && tail != "." {
		return "", "", false
	}
	if !dotted && tail != "" {
		return "", "", false
	}
	return label, ns, true
}

func parseBaseDirective(rest string, dotted bool) (string, bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "<") {
		return "", false
	}
	end := strings.Index(rest, ">")
	if end < 0 {
		return "", false
	}
	iri := rest[1:end]
	tail := strings.TrimSpace(rest[end+1:])
	if dotted && tail != "." {
		return "", false
	}
	if !dotted && tail != "" {
		return "", false
	}
	return iri, true
}

// ttlScanner accumulates input into complete logical units.
// Completeness is tracked incrementally: a unit ends at a top-level
// '.' (or a closing '}' in TriG) outside strings, IRIs, and bracket or
// paren nesting. Several units may share one physical line; the
// unconsumed tail of a line is carried into the next unit. Comments
// are stripped with string awareness.
type ttlScanner struct {
	reader   *bufio.Reader
	line     int
	eof      bool
	rest     string // unconsumed tail of the current physical line
	restLine int
}

func newTTLScanner(r io.Reader) *ttlScanner {
	return &ttlScanner{reader: bufio.NewReader(r)}
}

type unitState struct {
	inString   bool
	quote      byte
	longString bool
	inIRI      bool
	brackets   int
	parens     int
	braces     int
	sawBrace   bool
}

func (s *ttlScanner) nextUnit(trig bool) (string, int, error) {
	var builder strings.Builder
	var state unitState
	startLine := 0
	for {
		line, lineNo, err := s.takeLine()
		if err != nil {
			if err == io.EOF {
				if builder.Len() > 0 {
					return "", startLine, fmt.Errorf("unexpected end of file inside statement")
				}
				return "", 0, io.EOF
			}
			return "", startLine, err
		}

		if builder.Len() == 0 {
			trimmed := strings.TrimSpace(stripCommentNaive(line))
			if trimmed == "" {
				continue
			}
			startLine = lineNo
			if isDirectiveLine(trimmed) {
				unit, rest := splitDirective(trimmed)
				s.pushBack(rest, lineNo)
				return unit, startLine, nil
			}
		}

		kept, rest, done := state.scan(line, trig)
		builder.WriteString(kept)
		if done {
			s.pushBack(rest, lineNo)
			return strings.TrimSpace(builder.String()), startLine, nil
		}
		builder.WriteString("\n")
	}
}

// takeLine yields the carried-over tail of the previous unit's line, or
// the next physical line from the input.
func (s *ttlScanner) takeLine() (string, int, error) {
	if s.rest != "" {
		line, lineNo := s.rest, s.restLine
		s.rest = ""
		return line, lineNo, nil
	}
	line, err := s.readLine()
	if err != nil {
		return "", 0, err
	}
	s.line++
	return line, s.line, nil
}

func (s *ttlScanner) pushBack(rest string, lineNo int) {
	if strings.TrimSpace(rest) == "" {
		return
	}
	s.rest = rest
	s.restLine = lineNo
}

func (s *ttlScanner) readLine() (string, error) {
	if s.eof {
		return "", io.EOF
	}
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			s.eof = true
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// scan consumes line until the unit completes, returning the consumed
// text, the unconsumed remainder, and whether the unit is complete. A
// top-level '#' starts a comment running to the end of the line.
func (st *unitState) scan(line string, trig bool) (kept, rest string, done bool) {
	i := 0
	for i < len(line) {
		ch := line[i]
		if st.inString {
			if ch == '\\' && i+1 < len(line) {
				i += 2
				continue
			}
			if ch == st.quote {
				if st.longString {
					if strings.HasPrefix(line[i:], strings.Repeat(string(st.quote), 3)) {
						st.inString = false
						st.longString = false
						i += 3
						continue
					}
					i++
					continue
				}
				st.inString = false
			}
			i++
			continue
		}
		if st.inIRI {
			if ch == '>' {
				st.inIRI = false
			}
			i++
			continue
		}
		switch ch {
		case '#':
			return line[:i], "", false
		case '<':
			st.inIRI = true
		case '"', '\'':
			st.inString = true
			st.quote = ch
			if strings.HasPrefix(line[i:], strings.Repeat(string(ch), 3)) {
				st.longString = true
				i += 3
				continue
			}
		case '[':
			st.brackets++
		case ']':
			st.brackets--
		case '(':
			st.parens++
		case ')':
			st.parens--
		case '{':
			st.braces++
			st.sawBrace = true
		case '}':
			st.braces--
		}
		i++
		if st.nested() {
			continue
		}
		if ch == '.' && dotTerminates(line, i) {
			return line[:i], line[i:], true
		}
		if trig && ch == '}' && st.sawBrace {
			return line[:i], line[i:], true
		}
	}
	return line, "", false
}

func (st *unitState) nested() bool {
	return st.inString || st.inIRI || st.brackets > 0 || st.parens > 0 || st.braces > 0
}

// dotTerminates reports whether the '.' ending at i closes a statement
// rather than sitting inside a number or prefixed name. A terminating
// dot is followed by whitespace, a comment, or the end of the line.
func dotTerminates(line string, i int) bool {
	if i >= len(line) {
		return true
	}
	switch line[i] {
	case ' ', '\t', '#':
		return true
	}
	return false
}

// splitDirective cuts a directive off the front of a line: dotted
// forms end at the terminating '.', SPARQL-style forms at the closing
// '>'. The remainder, if any, belongs to the next unit.
func splitDirective(trimmed string) (directive, rest string) {
	lower := strings.ToLower(trimmed)
	dotted := strings.HasPrefix(lower, "@prefix") || strings.HasPrefix(lower, "@base")
	end := strings.IndexByte(trimmed, '>')
	if end < 0 {
		return trimmed, ""
	}
	end++
	if dotted {
		dot := strings.IndexByte(trimmed[end:], '.')
		if dot < 0 {
			return trimmed, ""
		}
		end += dot + 1
	}
	return trimmed[:end], trimmed[end:]
}

// stripCommentNaive removes a trailing comment from a line that is not
// yet inside any statement; safe only when scanning for blank lines
// and directives, where no multi-line string can be open.
func stripCommentNaive(line string) string {
	inString := false
	inIRI := false
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				inString = false
			}
			continue
		}
		if inIRI {
			if ch == '>' {
				inIRI = false
			}
			continue
		}
		switch ch {
		case '<':
			inIRI = true
		case '"', '\'':
			inString = true
			quote = ch
		case '#':
			return line[:i]
		}
	}
	return line
}

func isDirectiveLine(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "@prefix") || strings.HasPrefix(lower, "@base") {
		return true
	}
	if strings.HasPrefix(trimmed, "prefix:") || strings.HasPrefix(trimmed, "base:") {
		// prefixed name using "prefix" or "base" as label, not a directive
		return false
	}
	if strings.HasPrefix(lower, "prefix ") || strings.HasPrefix(lower, "base ") {
		return true
	}
	return false
}
