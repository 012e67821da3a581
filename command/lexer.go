package command

import (
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for directive arguments
// ---------------------------------------------------------------------------

// Lexer tokenizes the text of a single directive. Directives never span
// lines, so the lexer works on one line's worth of input.
type Lexer struct {
	input   string
	base    int  // column of input[0] in the original source line (1-based)
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
}

// NewLexer creates a lexer for directive text. base is the 1-based column
// at which the text starts in its source line.
func NewLexer(input string, base int) *Lexer {
	l := &Lexer{input: input, base: base}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size
	}
}

// column returns the 1-based source column of the current character.
func (l *Lexer) column() int {
	return l.base + l.pos
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	col := l.column()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Column: col}

	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Column: col}

	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Column: col}

	case l.ch == ',':
		l.readChar()
		return Token{Type: TokenComma, Literal: ",", Column: col}

	case l.ch == '=':
		l.readChar()
		return Token{Type: TokenAssign, Literal: "=", Column: col}

	case l.ch == '\'':
		return l.readString(col)

	case l.ch == '-' || unicode.IsDigit(l.ch):
		return l.readInt(col)

	case isIdentStart(l.ch):
		return l.readIdent(col)

	default:
		lit := string(l.ch)
		l.readChar()
		return Token{Type: TokenError, Literal: lit, Column: col}
	}
}

// readString reads a single-quoted string. A backslash escapes the next
// character (only \' and \\ are meaningful, anything else is kept as-is).
func (l *Lexer) readString(col int) Token {
	l.readChar() // consume opening quote
	var out []rune
	for {
		switch l.ch {
		case 0:
			return Token{Type: TokenError, Literal: "unterminated string", Column: col}
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return Token{Type: TokenError, Literal: "unterminated string", Column: col}
			}
			if l.ch != '\'' && l.ch != '\\' {
				out = append(out, '\\')
			}
			out = append(out, l.ch)
			l.readChar()
		case '\'':
			l.readChar() // consume closing quote
			return Token{Type: TokenString, Literal: string(out), Column: col}
		default:
			out = append(out, l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readInt(col int) Token {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	if !unicode.IsDigit(l.ch) {
		return Token{Type: TokenError, Literal: l.input[start:l.pos], Column: col}
	}
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: TokenInt, Literal: l.input[start:l.pos], Column: col}
}

func (l *Lexer) readIdent(col int) Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	switch lit {
	case "True":
		return Token{Type: TokenTrue, Literal: lit, Column: col}
	case "False":
		return Token{Type: TokenFalse, Literal: lit, Column: col}
	}
	return Token{Type: TokenIdent, Literal: lit, Column: col}
}
