package command

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the directive argument grammar
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString // 'hello'
	TokenInt    // 42, -3
	TokenTrue   // True
	TokenFalse  // False

	// Names
	TokenIdent // DexLabel, on_line

	// Delimiters
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,
	TokenAssign // =
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "EOF",
	TokenError:  "ERROR",
	TokenString: "STRING",
	TokenInt:    "INTEGER",
	TokenTrue:   "True",
	TokenFalse:  "False",
	TokenIdent:  "IDENTIFIER",
	TokenLParen: "(",
	TokenRParen: ")",
	TokenComma:  ",",
	TokenAssign: "=",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical token with its column in the source line.
type Token struct {
	Type    TokenType
	Literal string
	Column  int // 1-based column in the original source line
}
