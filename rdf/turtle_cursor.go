package rdf

import (
	"fmt"
	"strings"
)

// turtleCursor parses one logical unit of Turtle or TriG text. The
// statements of a predicate-object list come first, followed by the
// statements expanded from nested constructs (blank node property
// lists, collections), in the order they were encountered.
type turtleCursor struct {
	input     string
	pos       int
	startLine int
	prefixes  *PrefixMap
	bnodes    *blankNodeGenerator
	expansion []Statement
}

func newTurtleCursor(input string, startLine int, prefixes *PrefixMap, bnodes *blankNodeGenerator) *turtleCursor {
	return &turtleCursor{input: input, startLine: startLine, prefixes: prefixes, bnodes: bnodes}
}

func (c *turtleCursor) atEnd() bool {
	return c.pos >= len(c.input)
}

func (c *turtleCursor) peek() byte {
	if c.atEnd() {
		return 0
	}
	return c.input[c.pos]
}

func (c *turtleCursor) skipWS() {
	for !c.atEnd() {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *turtleCursor) consume(ch byte) bool {
	c.skipWS()
	if !c.atEnd() && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *turtleCursor) errorf(format string, args ...interface{}) error {
	upTo := c.input
	if c.pos < len(upTo) {
		upTo = upTo[:c.pos]
	}
	line := c.startLine + strings.Count(upTo, "\n")
	column := c.pos - (strings.LastIndex(upTo, "\n") + 1) + 1
	return &ParseError{Line: line, Column: column, Err: fmt.Errorf(format, args...)}
}

// parseTriGUnit parses one TriG unit: a wrapped graph block (optionally
// labeled or introduced by the GRAPH keyword) or a default-graph
// statement.
func (c *turtleCursor) parseTriGUnit() ([]Statement, error) {
	c.skipWS()
	if c.peek() == '{' {
		return c.parseGraphBlock(nil)
	}
	if c.hasKeyword("GRAPH") {
		c.pos += len("GRAPH")
		label, err := c.parseGraphName()
		if err != nil {
			return nil, err
		}
		c.skipWS()
		if c.peek() != '{' {
			return nil, c.errorf("expected '{' after GRAPH label")
		}
		return c.parseGraphBlock(label)
	}
	// A label directly followed by a block, otherwise a plain triple.
	save := c.pos
	if label, err := c.parseGraphName(); err == nil {
		c.skipWS()
		if c.peek() == '{' {
			return c.parseGraphBlock(label)
		}
	}
	c.pos = save
	statements, err := c.parseStatement(nil)
	if err != nil {
		return nil, err
	}
	c.skipWS()
	if !c.atEnd() {
		return nil, c.errorf("trailing content after statement")
	}
	return statements, nil
}

func (c *turtleCursor) hasKeyword(keyword string) bool {
	c.skipWS()
	rest := c.input[c.pos:]
	if len(rest) < len(keyword) || !strings.EqualFold(rest[:len(keyword)], keyword) {
		return false
	}
	if len(rest) == len(keyword) {
		return true
	}
	switch rest[len(keyword)] {
	case ' ', '\t', '\r', '\n', '<', '_', '{', ',', ';', '.', ')', ']', '}':
		return true
	default:
		return false
	}
}

func (c *turtleCursor) parseGraphName() (Term, error) {
	c.skipWS()
	switch {
	case c.peek() == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNodeLabel()
	default:
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parseGraphBlock(graph Term) ([]Statement, error) {
	if !c.consume('{') {
		return nil, c.errorf("expected '{'")
	}
	var out []Statement
	for {
		c.skipWS()
		if c.atEnd() {
			return nil, c.errorf("unterminated graph block")
		}
		if c.peek() == '}' {
			c.pos++
			break
		}
		statements, err := c.parseStatement(graph)
		if err != nil {
			return nil, err
		}
		out = append(out, statements...)
	}
	c.skipWS()
	// tolerate an optional trailing '.' after the block
	c.consume('.')
	c.skipWS()
	if !c.atEnd() {
		return nil, c.errorf("trailing content after graph block")
	}
	return out, nil
}

// parseStatement parses subject + predicate-object list and consumes a
// trailing '.' when present. Inside a TriG block the final statement's
// '.' may be omitted before '}'.
func (c *turtleCursor) parseStatement(graph Term) ([]Statement, error) {
	c.expansion = c.expansion[:0]
	c.skipWS()

	var subject Term
	var err error
	standalone := false
	if c.peek() == '[' {
		subject, err = c.parseBlankNodePropertyList(graph)
		if err != nil {
			return nil, err
		}
		c.skipWS()
		if c.peek() == '.' || c.peek() == '}' || c.atEnd() {
			standalone = true
		}
	} else {
		subject, err = c.parseSubjectTerm(graph)
		if err != nil {
			return nil, err
		}
	}

	var main []Statement
	if !standalone {
		main, err = c.parsePredicateObjectList(subject, graph)
		if err != nil {
			return nil, err
		}
	}
	c.consume('.')

	out := make([]Statement, 0, len(main)+len(c.expansion))
	out = append(out, main...)
	out = append(out, c.expansion...)
	return out, nil
}

func (c *turtleCursor) parseSubjectTerm(graph Term) (Term, error) {
	c.skipWS()
	switch {
	case c.peek() == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNodeLabel()
	case c.peek() == '(':
		return c.parseCollection(graph)
	default:
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parsePredicateObjectList(subject Term, graph Term) ([]Statement, error) {
	var out []Statement
	for {
		pred, err := c.parsePredicate()
		if err != nil {
			return nil, err
		}
		for {
			object, err := c.parseObjectTerm(graph)
			if err != nil {
				return nil, err
			}
			out = append(out, Statement{S: subject, P: pred, O: object, G: graph})
			if !c.consume(',') {
				break
			}
		}
		if !c.consume(';') {
			return out, nil
		}
		c.skipWS()
		// a trailing ';' before the statement terminator is legal
		if c.atEnd() || c.peek() == '.' || c.peek() == '}' || c.peek() == ']' {
			return out, nil
		}
	}
}

func (c *turtleCursor) parsePredicate() (IRI, error) {
	c.skipWS()
	if c.peek() == 'a' {
		rest := c.input[c.pos+1:]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r' || rest[0] == '\n' || rest[0] == '<' || rest[0] == '[' || rest[0] == '_' || rest[0] == '"' || rest[0] == '\'' || rest[0] == '(' {
			c.pos++
			return IRI{Value: rdfTypeIRI}, nil
		}
	}
	if c.peek() == '<' {
		return c.parseIRIRef()
	}
	return c.parsePrefixedName()
}

func (c *turtleCursor) parseObjectTerm(graph Term) (Term, error) {
	c.skipWS()
	if c.atEnd() {
		return nil, c.errorf("unexpected end of statement")
	}
	switch ch := c.peek(); {
	case ch == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNodeLabel()
	case ch == '[':
		return c.parseBlankNodePropertyList(graph)
	case ch == '(':
		return c.parseCollection(graph)
	case ch == '"' || ch == '\'':
		return c.parseStringLiteral()
	case ch == '+' || ch == '-' || (ch >= '0' && ch <= '9') || (ch == '.' && c.pos+1 < len(c.input) && c.input[c.pos+1] >= '0' && c.input[c.pos+1] <= '9'):
		return c.parseNumericLiteral()
	case c.hasKeyword("true"):
		c.pos += len("true")
		return Literal{Lexical: "true", Datatype: IRI{Value: xsdBoolean}}, nil
	case c.hasKeyword("false"):
		c.pos += len("false")
		return Literal{Lexical: "false", Datatype: IRI{Value: xsdBoolean}}, nil
	default:
		return c.parsePrefixedName()
	}
}

func (c *turtleCursor) parseIRIRef() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	start := c.pos
	for !c.atEnd() && c.input[c.pos] != '>' {
		if c.input[c.pos] == ' ' || c.input[c.pos] == '\n' {
			return IRI{}, c.errorf("whitespace inside IRI")
		}
		c.pos++
	}
	if c.atEnd() {
		return IRI{}, c.errorf("unterminated IRI")
	}
	value := unescapeUChars(c.input[start:c.pos])
	c.pos++
	return IRI{Value: value}, nil
}

func (c *turtleCursor) parseBlankNodeLabel() (BlankNode, error) {
	c.skipWS()
	if !strings.HasPrefix(c.input[c.pos:], "_:") {
		return BlankNode{}, c.errorf("expected blank node label")
	}
	c.pos += 2
	start := c.pos
	for !c.atEnd() {
		ch := c.input[c.pos]
		if isLocalNameChar(ch) || (ch == '.' && c.pos+1 < len(c.input) && isLocalNameChar(c.input[c.pos+1])) {
			c.pos++
			continue
		}
		break
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node label missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

// parsePrefixedName resolves prefix:local against the document prefix
// map. The empty label (":local") resolves through the default prefix.
func (c *turtleCursor) parsePrefixedName() (IRI, error) {
	c.skipWS()
	start := c.pos
	for !c.atEnd() && isPrefixLabelChar(c.input[c.pos]) {
		c.pos++
	}
	if c.atEnd() || c.input[c.pos] != ':' {
		c.pos = start
		return IRI{}, c.errorf("expected prefixed name")
	}
	label := c.input[start:c.pos]
	c.pos++
	local, err := c.parseLocalName()
	if err != nil {
		return IRI{}, err
	}
	ns, ok := c.prefixes.Get(label)
	if !ok {
		return IRI{}, c.errorf("undeclared prefix %q", label)
	}
	return IRI{Value: ns + local}, nil
}

func (c *turtleCursor) parseLocalName() (string, error) {
	var builder strings.Builder
	for !c.atEnd() {
		ch := c.input[c.pos]
		switch {
		case ch == '\\':
			if c.pos+1 >= len(c.input) {
				return "", c.errorf("unterminated escape in local name")
			}
			builder.WriteByte(c.input[c.pos+1])
			c.pos += 2
		case ch == '%':
			if c.pos+2 >= len(c.input) || !isHexDigit(c.input[c.pos+1]) || !isHexDigit(c.input[c.pos+2]) {
				return "", c.errorf("invalid %% escape in local name")
			}
			builder.WriteString(c.input[c.pos : c.pos+3])
			c.pos += 3
		case isLocalNameChar(ch):
			builder.WriteByte(ch)
			c.pos++
		case ch == '.' && c.pos+1 < len(c.input) && (isLocalNameChar(c.input[c.pos+1]) || c.input[c.pos+1] == '%' || c.input[c.pos+1] == '\\'):
			// dots are legal inside a local name but never at its end
			builder.WriteByte(ch)
			c.pos++
		default:
			return builder.String(), nil
		}
	}
	return builder.String(), nil
}

func (c *turtleCursor) parseBlankNodePropertyList(graph Term) (Term, error) {
	if !c.consume('[') {
		return nil, c.errorf("expected '['")
	}
	node := c.bnodes.next()
	c.skipWS()
	if c.peek() == ']' {
		c.pos++
		return node, nil
	}
	statements, err := c.parsePredicateObjectList(node, graph)
	if err != nil {
		return nil, err
	}
	if !c.consume(']') {
		return nil, c.errorf("expected ']'")
	}
	c.expansion = append(c.expansion, statements...)
	return node, nil
}

func (c *turtleCursor) parseCollection(graph Term) (Term, error) {
	if !c.consume('(') {
		return nil, c.errorf("expected '('")
	}
	var items []Term
	for {
		c.skipWS()
		if c.atEnd() {
			return nil, c.errorf("unterminated collection")
		}
		if c.peek() == ')' {
			c.pos++
			break
		}
		item, err := c.parseObjectTerm(graph)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return IRI{Value: rdfNilIRI}, nil
	}
	head := c.bnodes.next()
	node := head
	for i, item := range items {
		c.expansion = append(c.expansion, Statement{S: node, P: IRI{Value: rdfFirstIRI}, O: item, G: graph})
		if i == len(items)-1 {
			c.expansion = append(c.expansion, Statement{S: node, P: IRI{Value: rdfRestIRI}, O: IRI{Value: rdfNilIRI}, G: graph})
			break
		}
		next := c.bnodes.next()
		c.expansion = append(c.expansion, Statement{S: node, P: IRI{Value: rdfRestIRI}, O: next, G: graph})
		node = next
	}
	return head, nil
}

func (c *turtleCursor) parseStringLiteral() (Literal, error) {
	lexical, err := c.scanString()
	if err != nil {
		return Literal{}, err
	}
	if c.peek() == '@' {
		c.pos++
		start := c.pos
		for !c.atEnd() {
			ch := c.input[c.pos]
			if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
				c.pos++
				continue
			}
			break
		}
		if start == c.pos {
			return Literal{}, c.errorf("empty language tag")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		c.skipWS()
		var dt IRI
		if c.peek() == '<' {
			dt, err = c.parseIRIRef()
		} else {
			dt, err = c.parsePrefixedName()
		}
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

func (c *turtleCursor) scanString() (string, error) {
	quote := c.peek()
	if quote != '"' && quote != '\'' {
		return "", c.errorf("expected string literal")
	}
	long := strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	closer := string(quote)
	if long {
		closer = strings.Repeat(string(quote), 3)
	}
	var builder strings.Builder
	for !c.atEnd() {
		if strings.HasPrefix(c.input[c.pos:], closer) {
			c.pos += len(closer)
			return builder.String(), nil
		}
		ch := c.input[c.pos]
		if !long && (ch == '\n' || ch == '\r') {
			return "", c.errorf("newline in string literal")
		}
		if ch == '\\' {
			if c.pos+1 >= len(c.input) {
				return "", c.errorf("unterminated escape")
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
			case '"', '\'', '\\':
				builder.WriteByte(next)
			case 'u', 'U':
				width := 4
				if next == 'U' {
					width = 8
				}
				if c.pos+2+width > len(c.input) {
					return "", c.errorf("truncated \\%c escape", next)
				}
				code := decodeUChar(c.input[c.pos+2 : c.pos+2+width])
				if code < 0 {
					return "", c.errorf("invalid \\%c escape", next)
				}
				builder.WriteRune(code)
				c.pos += width
			default:
				return "", c.errorf("invalid escape \\%c", next)
			}
			c.pos += 2
			continue
		}
		builder.WriteByte(ch)
		c.pos++
	}
	return "", c.errorf("unterminated string literal")
}

func (c *turtleCursor) parseNumericLiteral() (Literal, error) {
	start := c.pos
	if c.peek() == '+' || c.peek() == '-' {
		c.pos++
	}
	sawDot := false
	sawExp := false
	for !c.atEnd() {
		ch := c.input[c.pos]
		switch {
		case ch >= '0' && ch <= '9':
			c.pos++
		case ch == '.' && !sawDot && !sawExp:
			// a '.' not followed by a digit terminates the statement instead
			if c.pos+1 >= len(c.input) || c.input[c.pos+1] < '0' || c.input[c.pos+1] > '9' {
				goto done
			}
			sawDot = true
			c.pos++
		case (ch == 'e' || ch == 'E') && !sawExp:
			sawExp = true
			c.pos++
			if !c.atEnd() && (c.input[c.pos] == '+' || c.input[c.pos] == '-') {
				c.pos++
			}
		default:
			goto done
		}
	}
done:
	lexical := c.input[start:c.pos]
	if lexical == "" || lexical == "+" || lexical == "-" {
		return Literal{}, c.errorf("malformed numeric literal")
	}
	datatype := xsdInteger
	if sawExp {
		datatype = xsdDouble
	} else if sawDot {
		datatype = xsdDecimal
	}
	return Literal{Lexical: lexical, Datatype: IRI{Value: datatype}}, nil
}

func isPrefixLabelChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch == '.' || ch >= 0x80
}

func isLocalNameChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch >= 0x80
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
