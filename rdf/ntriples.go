package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntReader struct {
	reader *bufio.Reader
	format Format
	line   int
	err    error
}

func newNTReader(r io.Reader, format Format) Reader {
	return &ntReader{reader: bufio.NewReader(r), format: format}
}

func (d *ntReader) Next() (Statement, error) {
	if d.err != nil {
		return Statement{}, d.err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return Statement{}, io.EOF
			}
			d.err = err
			return Statement{}, err
		}
		d.line++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		stmt, err := parseNTLine(trimmed, d.format)
		if err != nil {
			d.err = wrapParseError(string(d.format), trimmed, d.line, 0, err)
			return Statement{}, d.err
		}
		return stmt, nil
	}
}

// Preamble is empty for the line-oriented formats: every statement is
// independently parseable.
func (d *ntReader) Preamble() Preamble { return Preamble{} }

func (d *ntReader) Close() error { return nil }

func (d *ntReader) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func parseNTLine(line string, format Format) (Statement, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseSubject()
	if err != nil {
		return Statement{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Statement{}, err
	}
	object, err := cursor.parseObject()
	if err != nil {
		return Statement{}, err
	}

	var graph Term
	if format == FormatNQuads {
		graph, err = cursor.parseOptionalGraph()
		if err != nil {
			return Statement{}, err
		}
	}
	cursor.skipWS()
	if !cursor.consume('.') {
		return Statement{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) {
		return Statement{}, cursor.errorf("trailing content after '.'")
	}

	return Statement{S: subject, P: predicate, O: object, G: graph}, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseSubject() (Term, error) {
	c.skipWS()
	return c.parseTerm(false)
}

func (c *ntCursor) parseObject() (Term, error) {
	c.skipWS()
	return c.parseTerm(true)
}

func (c *ntCursor) parseOptionalGraph() (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) || c.input[c.pos] == '.' {
		return nil, nil
	}
	return c.parseTerm(false)
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of statement")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	c.skipWS()
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := unescapeUChars(c.input[start:c.pos])
	c.pos++
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.skipWS()
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return BlankNode{}, c.errorf("expected blank node")
	}
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node label missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.skipWS()
	if !c.consume('"') {
		return Literal{}, c.errorf("expected literal")
	}
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch == '\\' {
			if c.pos+1 >= len(c.input) {
				return Literal{}, c.errorf("unterminated escape")
			}
			next := c.input[c.pos+1]
			switch next {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			case 'b':
				builder.WriteByte('\b')
			case 'f':
				builder.WriteByte('\f')
			case '"':
				builder.WriteByte('"')
			case '\'':
				builder.WriteByte('\'')
			case '\\':
				builder.WriteByte('\\')
			case 'u', 'U':
				width := 4
				if next == 'U' {
					width = 8
				}
				if c.pos+2+width > len(c.input) {
					return Literal{}, c.errorf("truncated \\%c escape", next)
				}
				code := decodeUChar(c.input[c.pos+2 : c.pos+2+width])
				if code < 0 {
					return Literal{}, c.errorf("invalid \\%c escape", next)
				}
				builder.WriteRune(code)
				c.pos += width
			default:
				return Literal{}, c.errorf("invalid escape \\%c", next)
			}
			c.pos += 2
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("empty language tag")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	return &ParseError{Column: c.pos + 1, Err: err}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '.':
		return true
	default:
		return false
	}
}

type ntWriter struct {
	writer *bufio.Writer
	format Format
	err    error
}

func newNTWriter(w io.Writer, format Format) Writer {
	return &ntWriter{writer: bufio.NewWriter(w), format: format}
}

func (e *ntWriter) Write(s Statement) error {
	if e.err != nil {
		return e.err
	}
	if err := validateStatement(s); err != nil {
		return err
	}
	line := renderTerm(s.S) + " " + renderIRI(s.P) + " " + renderTerm(s.O)
	if e.format == FormatNQuads && s.G != nil {
		line += " " + renderTerm(s.G)
	}
	line += " .\n"
	_, err := e.writer.WriteString(line)
	if err != nil {
		e.err = err
	}
	return err
}

func (e *ntWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntWriter) Close() error { return e.Flush() }

func validateStatement(s Statement) error {
	if s.S == nil || s.P.Value == "" || s.O == nil {
		return fmt.Errorf("rdf: missing statement fields")
	}
	if lit, ok := s.O.(Literal); ok && lit.Lang != "" && lit.Datatype.Value != "" {
		return fmt.Errorf("rdf: literal cannot carry both language tag and datatype")
	}
	return nil
}

func renderIRI(iri IRI) string {
	return "<" + iri.Value + ">"
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return "\"" + escapeLiteral(value.Lexical) + "\"@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return "\"" + escapeLiteral(value.Lexical) + "\"^^" + renderIRI(value.Datatype)
		}
		return "\"" + escapeLiteral(value.Lexical) + "\""
	default:
		return ""
	}
}

func escapeLiteral(value string) string {
	var builder strings.Builder
	for i := 0; i < len(value); i++ {
		switch ch := value[i]; ch {
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func unescapeUChars(value string) string {
	if !strings.Contains(value, "\\") {
		return value
	}
	var builder strings.Builder
	for i := 0; i < len(value); {
		if value[i] == '\\' && i+1 < len(value) && (value[i+1] == 'u' || value[i+1] == 'U') {
			width := 4
			if value[i+1] == 'U' {
				width = 8
			}
			if i+2+width <= len(value) {
				if code := decodeUChar(value[i+2 : i+2+width]); code >= 0 {
					builder.WriteRune(code)
					i += 2 + width
					continue
				}
			}
		}
		builder.WriteByte(value[i])
		i++
	}
	return builder.String()
}

// decodeUChar converts the hex payload of a \uXXXX or \UXXXXXXXX
// escape to a rune, or -1 when malformed.
func decodeUChar(hexStr string) rune {
	var code rune
	for i := 0; i < len(hexStr); i++ {
		digit, ok := parseHexDigit(hexStr[i])
		if !ok {
			return -1
		}
		code = code*16 + rune(digit)
	}
	if code > 0x10FFFF || (code >= 0xD800 && code <= 0xDFFF) {
		return -1
	}
	return code
}

func parseHexDigit(hex byte) (int, bool) {
	switch {
	case hex >= '0' && hex <= '9':
		return int(hex - '0'), true
	case hex >= 'a' && hex <= 'f':
		return int(hex-'a') + 10, true
	case hex >= 'A' && hex <= 'F':
		return int(hex-'A') + 10, true
	default:
		return 0, false
	}
}
