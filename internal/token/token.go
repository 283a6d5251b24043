// Package token defines the closed set of lexical token kinds that the
// lexer produces and the parser consumes.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

// Token kinds, grouped by category: literals, operators, delimiters,
// structural, cosmetic, and EOF.
const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	NUMBER
	VARIABLE
	CONSTANT // pi, tau, phi (as a signed literal, not a function)
	INFINITY

	// Operators
	PLUS
	MINUS
	TIMES
	DIVIDE
	POWER
	UNDERSCORE
	FACTORIAL
	EQUALS
	LESS
	GREATER
	LEQ
	GEQ
	NEQ
	APPROX
	MEMBER // \in
	BOOL_AND
	BOOL_OR
	BOOL_NOT
	BOOL_XOR

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	PIPE
	LANGLE
	RANGLE
	AMPERSAND
	DBLBACKSLASH
	COMMA

	// Structural
	FRAC
	BINOM
	SQRT
	LIM
	SUM
	PROD
	INT
	IINT
	IIINT
	OINT
	PARTIAL
	NABLA
	BEGIN
	END
	TEXT
	LET
	TO
	ARROW // \mapsto, \Rightarrow etc. folded in as generic arrow

	// Cosmetic
	SPACING
	IGNORED
	FONT

	// Identifier-level command that maps to a known function name
	FUNCTION
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	NUMBER: "NUMBER", VARIABLE: "VARIABLE", CONSTANT: "CONSTANT", INFINITY: "INFINITY",
	PLUS: "PLUS", MINUS: "MINUS", TIMES: "TIMES", DIVIDE: "DIVIDE", POWER: "POWER",
	UNDERSCORE: "UNDERSCORE", FACTORIAL: "FACTORIAL", EQUALS: "EQUALS", LESS: "LESS", GREATER: "GREATER",
	LEQ: "LEQ", GEQ: "GEQ", NEQ: "NEQ", APPROX: "APPROX", MEMBER: "MEMBER",
	BOOL_AND: "BOOL_AND", BOOL_OR: "BOOL_OR", BOOL_NOT: "BOOL_NOT", BOOL_XOR: "BOOL_XOR",
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", PIPE: "PIPE", LANGLE: "LANGLE",
	RANGLE: "RANGLE", AMPERSAND: "AMPERSAND", DBLBACKSLASH: "DBLBACKSLASH", COMMA: "COMMA",
	FRAC: "FRAC", BINOM: "BINOM", SQRT: "SQRT", LIM: "LIM", SUM: "SUM", PROD: "PROD",
	INT: "INT", IINT: "IINT", IIINT: "IIINT", OINT: "OINT", PARTIAL: "PARTIAL",
	NABLA: "NABLA", BEGIN: "BEGIN", END: "END", TEXT: "TEXT", LET: "LET", TO: "TO",
	ARROW: "ARROW", SPACING: "SPACING", IGNORED: "IGNORED", FONT: "FONT", FUNCTION: "FUNCTION",
}

// String implements fmt.Stringer for readable error messages and test output.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position is a source location expressed in rune offsets: counting
// Unicode code points rather than bytes keeps columns meaningful for
// Greek letters and math symbols.
type Position struct {
	Offset int // rune offset from the start of input
	Line   int // 1-based
	Column int // 1-based, rune count from line start
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit: a kind, the literal text it was scanned
// from, its source position, and - for NUMBER tokens - the parsed value.
type Token struct {
	Kind       Kind
	Lexeme     string
	Pos        Position
	NumberVal  float64 // valid only when Kind == NUMBER
	FuncName   string  // canonical function/command name, for FUNCTION/structural kinds
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Pos)
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsOneOf reports whether the token's kind matches any of ks.
func (t Token) IsOneOf(ks ...Kind) bool {
	for _, k := range ks {
		if t.Kind == k {
			return true
		}
	}
	return false
}
