package command

import (
	"fmt"
	"strconv"

	"github.com/dexgo/dexgo/dextir"
)

// ---------------------------------------------------------------------------
// Parser: recursive descent over one directive
// ---------------------------------------------------------------------------

// argKind discriminates parsed argument values.
type argKind int

const (
	argString argKind = iota
	argInt
	argBool
)

// arg is one parsed argument value, positional or keyword.
type arg struct {
	kind   argKind
	str    string
	num    int
	flag   bool
	column int
}

func (a arg) describe() string {
	switch a.kind {
	case argString:
		return "string"
	case argInt:
		return "integer"
	default:
		return "boolean"
	}
}

// parser parses a single directive from one source line.
type parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token

	path string
	line int
	src  string // full source line, for error context
}

// newParser creates a parser over the directive text, which starts at the
// 1-based column base of the source line src.
func newParser(path string, line int, src, text string, base int) *parser {
	p := &parser{
		lexer: NewLexer(text, base),
		path:  path,
		line:  line,
		src:   src,
	}
	// Fill curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *parser) errorf(col int, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Path:   p.path,
		Line:   p.line,
		Column: col,
		Info:   fmt.Sprintf(format, args...),
		Src:    p.src,
	}
}

// expect consumes the current token if it matches, or fails.
func (p *parser) expect(t TokenType) *ParseError {
	if p.curToken.Type != t {
		return p.errorf(p.curToken.Column, "expected %s, got %s", t, p.curToken.Type)
	}
	p.nextToken()
	return nil
}

// parseArgs parses the parenthesized argument list into positional and
// keyword arguments. Keyword arguments must follow all positional ones.
func (p *parser) parseArgs() (positional []arg, keywords map[string]arg, err *ParseError) {
	if err := p.expect(TokenLParen); err != nil {
		return nil, nil, err
	}
	keywords = make(map[string]arg)

	for p.curToken.Type != TokenRParen {
		if p.curToken.Type == TokenEOF {
			return nil, nil, p.errorf(p.curToken.Column, "unexpected end of directive, expected )")
		}

		if p.curToken.Type == TokenIdent && p.peekToken.Type == TokenAssign {
			name := p.curToken.Literal
			p.nextToken() // name
			p.nextToken() // =
			v, err := p.parseValue()
			if err != nil {
				return nil, nil, err
			}
			if _, dup := keywords[name]; dup {
				return nil, nil, p.errorf(v.column, "duplicate keyword argument %q", name)
			}
			keywords[name] = v
		} else {
			v, err := p.parseValue()
			if err != nil {
				return nil, nil, err
			}
			if len(keywords) > 0 {
				return nil, nil, p.errorf(v.column, "positional argument after keyword argument")
			}
			positional = append(positional, v)
		}

		if p.curToken.Type == TokenComma {
			p.nextToken()
			continue
		}
		if p.curToken.Type != TokenRParen {
			return nil, nil, p.errorf(p.curToken.Column, "expected , or ), got %s", p.curToken.Type)
		}
	}
	p.nextToken() // consume )
	return positional, keywords, nil
}

// parseValue parses one literal value.
func (p *parser) parseValue() (arg, *ParseError) {
	tok := p.curToken
	switch tok.Type {
	case TokenString:
		p.nextToken()
		return arg{kind: argString, str: tok.Literal, column: tok.Column}, nil
	case TokenInt:
		n, convErr := strconv.Atoi(tok.Literal)
		if convErr != nil {
			return arg{}, p.errorf(tok.Column, "bad integer literal %q", tok.Literal)
		}
		p.nextToken()
		return arg{kind: argInt, num: n, column: tok.Column}, nil
	case TokenTrue, TokenFalse:
		p.nextToken()
		return arg{kind: argBool, flag: tok.Type == TokenTrue, column: tok.Column}, nil
	case TokenError:
		return arg{}, p.errorf(tok.Column, "bad token: %s", tok.Literal)
	default:
		return arg{}, p.errorf(tok.Column, "expected a value, got %s", tok.Type)
	}
}

// ---------------------------------------------------------------------------
// Directive construction
// ---------------------------------------------------------------------------

// parseDirective parses the directive named name at 0-based column col of
// line lineno. text is the slice of the source line starting at the name.
func parseDirective(path string, lineno int, src, text string, col int, name string) (Command, *ParseError) {
	p := newParser(path, lineno, src, text[len(name):], col+1+len(name))
	positional, keywords, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	raw := text[:rawEnd(text, name)]
	b := base{
		loc: dextir.Loc{Path: path, Line: lineno, Column: col + 1},
		raw: raw,
	}

	switch name {
	case NameLabel:
		return newLabel(p, b, positional, keywords)
	case NameExpectWatchValue:
		return newExpectWatchValue(p, b, positional, keywords)
	case NameExpectStepKind:
		return newExpectStepKind(p, b, positional, keywords)
	}
	return nil, p.errorf(col, "unknown directive %q", name)
}

// rawEnd finds the offset one past the directive's closing paren.
func rawEnd(text, name string) int {
	depth := 0
	inString := false
	for i := len(name); i < len(text); i++ {
		ch := text[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '\'' {
				inString = false
			}
			continue
		}
		switch ch {
		case '\'':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

func newLabel(p *parser, b base, positional []arg, keywords map[string]arg) (Command, *ParseError) {
	if len(keywords) > 0 {
		return nil, p.errorf(b.loc.Column, "%s takes no keyword arguments", NameLabel)
	}
	if len(positional) != 1 || positional[0].kind != argString {
		return nil, p.errorf(b.loc.Column, "%s takes exactly one string argument", NameLabel)
	}
	name := positional[0].str
	if name == "" {
		return nil, p.errorf(positional[0].column, "label name must not be empty")
	}
	return &Label{base: b, Name: name}, nil
}

func newExpectWatchValue(p *parser, b base, positional []arg, keywords map[string]arg) (Command, *ParseError) {
	if len(positional) < 2 {
		return nil, p.errorf(b.loc.Column,
			"%s needs an expression and at least one expected value", NameExpectWatchValue)
	}
	if positional[0].kind != argString {
		return nil, p.errorf(positional[0].column, "watched expression must be a string")
	}

	c := &ExpectWatchValue{
		base:           b,
		Expr:           positional[0].str,
		RequireInOrder: true,
	}
	for _, v := range positional[1:] {
		switch v.kind {
		case argString:
			c.Values = append(c.Values, v.str)
		case argInt:
			c.Values = append(c.Values, strconv.Itoa(v.num))
		default:
			return nil, p.errorf(v.column, "expected value must be a string or integer")
		}
	}

	for name, v := range keywords {
		switch name {
		case "on_line":
			ref, err := lineRefArg(p, v)
			if err != nil {
				return nil, err
			}
			c.OnLine = ref
		case "from_line":
			ref, err := lineRefArg(p, v)
			if err != nil {
				return nil, err
			}
			c.FromLine = ref
		case "to_line":
			ref, err := lineRefArg(p, v)
			if err != nil {
				return nil, err
			}
			c.ToLine = ref
		case "require_in_order":
			if v.kind != argBool {
				return nil, p.errorf(v.column, "require_in_order must be True or False")
			}
			c.RequireInOrder = v.flag
		default:
			return nil, p.errorf(v.column, "unknown keyword argument %q", name)
		}
	}

	hasOn := !c.OnLine.IsZero()
	hasRange := !c.FromLine.IsZero() || !c.ToLine.IsZero()
	switch {
	case hasOn && hasRange:
		return nil, p.errorf(b.loc.Column, "on_line cannot be combined with from_line/to_line")
	case hasRange && (c.FromLine.IsZero() || c.ToLine.IsZero()):
		return nil, p.errorf(b.loc.Column, "from_line and to_line must be given together")
	case !hasOn && !hasRange:
		return nil, p.errorf(b.loc.Column, "%s needs on_line or from_line/to_line", NameExpectWatchValue)
	}
	return c, nil
}

// lineRefArg converts an argument to a line reference: an integer is an
// explicit line, a string is a label name.
func lineRefArg(p *parser, v arg) (LineRef, *ParseError) {
	switch v.kind {
	case argInt:
		if v.num < 1 {
			return LineRef{}, p.errorf(v.column, "line number must be positive, got %d", v.num)
		}
		return LineRef{Line: v.num}, nil
	case argString:
		if v.str == "" {
			return LineRef{}, p.errorf(v.column, "label reference must not be empty")
		}
		return LineRef{Label: v.str}, nil
	default:
		return LineRef{}, p.errorf(v.column, "line reference must be an integer or label string")
	}
}

func newExpectStepKind(p *parser, b base, positional []arg, keywords map[string]arg) (Command, *ParseError) {
	if len(keywords) > 0 {
		return nil, p.errorf(b.loc.Column, "%s takes no keyword arguments", NameExpectStepKind)
	}
	if len(positional) != 2 {
		return nil, p.errorf(b.loc.Column, "%s takes a step kind and an expected count", NameExpectStepKind)
	}
	if positional[0].kind != argString {
		return nil, p.errorf(positional[0].column, "step kind must be a string")
	}
	kind, kerr := dextir.KindFromString(positional[0].str)
	if kerr != nil {
		return nil, p.errorf(positional[0].column, "unknown step kind %q", positional[0].str)
	}
	if positional[1].kind != argInt {
		return nil, p.errorf(positional[1].column, "expected count must be an integer")
	}
	if positional[1].num < 0 {
		return nil, p.errorf(positional[1].column, "expected count must not be negative")
	}
	return &ExpectStepKind{base: b, Kind: kind, Count: positional[1].num}, nil
}
