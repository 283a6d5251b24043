// Package lexer turns a LaTeX source string into a token stream: a
// character cursor over rune-based positions, configured through
// functional Options.
package lexer

import (
	"strconv"
	"unicode"

	"github.com/xirf/texpr/internal/command"
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/internal/token"
)

// MaxInputLength is the hard input-size cap: inputs longer than this
// fail fatally before tokenisation begins.
const MaxInputLength = 100_000

// Lexer scans a LaTeX source string into tokens.
type Lexer struct {
	input    []rune
	registry *command.Registry

	pos    int // rune index of ch
	readPos int
	ch     rune
	line   int
	column int

	implicitMultiplication bool
	maxInputLength         int

	// expectEnvironmentName is set right after emitting a BEGIN or END
	// token so the next identifier lexed inside the following "{...}"
	// is read as one multi-letter environment name ("matrix", "bmatrix",
	// "cases", ...) regardless of the single-character implicit
	// multiplication convention.
	expectEnvironmentName bool

	extensionLookup func(name string) (token.Kind, string, bool)
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithImplicitMultiplication toggles the single-character identifier
// rule that lets adjacent identifiers multiply without an explicit
// \times (default true).
func WithImplicitMultiplication(enabled bool) Option {
	return func(l *Lexer) { l.implicitMultiplication = enabled }
}

// WithMaxInputLength overrides the default 100 000 rune cap.
func WithMaxInputLength(n int) Option {
	return func(l *Lexer) { l.maxInputLength = n }
}

// WithExtensionLookup installs a fallback consulted when the built-in
// command registry does not recognise a backslashed name.
func WithExtensionLookup(fn func(name string) (token.Kind, string, bool)) Option {
	return func(l *Lexer) { l.extensionLookup = fn }
}

// New creates a Lexer over input using registry for command lookups.
func New(input string, registry *command.Registry, opts ...Option) *Lexer {
	l := &Lexer{
		input:                  []rune(input),
		registry:               registry,
		line:                   1,
		column:                 0,
		implicitMultiplication: true,
		maxInputLength:         MaxInputLength,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) currentPosition() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.column}
}

// Tokenize runs the lexer to completion and returns the full token
// stream (spacing tokens elided), ending in an EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	if len(l.input) > l.maxInputLength {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Tokenizer,
			"input length %d exceeds maximum of %d", len(l.input), l.maxInputLength)
	}

	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.SPACING || tok.Kind == token.IGNORED {
			continue
		}
		if tok.Kind == token.BEGIN || tok.Kind == token.END {
			l.expectEnvironmentName = true
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, nil
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *Lexer) next() (token.Token, error) {
	l.skipWhitespace()
	pos := l.currentPosition()

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	case l.ch == '\\':
		return l.lexCommand(pos)
	case unicode.IsDigit(l.ch):
		return l.lexNumber(pos)
	case command.IsMathSymbol(l.ch):
		name, _ := command.NormalizeRune(l.ch)
		l.readChar()
		return l.dispatchCommandName(name, pos)
	case l.isIdentStart(l.ch):
		return l.lexIdentifier(pos)
	default:
		return l.lexOperator(pos)
	}
}

func (l *Lexer) isIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

func (l *Lexer) lexNumber(pos token.Position) (token.Token, error) {
	start := l.pos
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := string(l.input[start:l.pos])
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{}, texprerrors.New(texprerrors.Tokenizer, pos, string(l.input),
			"malformed numeric literal %q", lexeme)
	}
	return token.Token{Kind: token.NUMBER, Lexeme: lexeme, Pos: pos, NumberVal: val}, nil
}

// bareKeywords are reserved words recognised even when single-character
// implicit-multiplication identifiers are in effect (`let <name> =
// <expr>`): "let" must lex as one keyword, not three one-letter
// variables l, e, t.
var bareKeywords = map[string]token.Kind{"let": token.LET}

func (l *Lexer) lexIdentifier(pos token.Position) (token.Token, error) {
	start := l.pos
	if kw, ok := l.matchBareKeyword(); ok {
		return token.Token{Kind: kw, Lexeme: string(l.input[start:l.pos]), Pos: pos}, nil
	}
	if l.expectEnvironmentName {
		l.expectEnvironmentName = false
		for l.isIdentStart(l.ch) {
			l.readChar()
		}
	} else if l.implicitMultiplication {
		// Single-character identifiers by default so "2x" implicit-multiplies.
		l.readChar()
	} else {
		for l.isIdentStart(l.ch) {
			l.readChar()
		}
	}
	name := string(l.input[start:l.pos])
	return token.Token{Kind: token.VARIABLE, Lexeme: name, Pos: pos}, nil
}

// matchBareKeyword consumes and returns a reserved word starting at the
// current character, if one is present at a word boundary.
func (l *Lexer) matchBareKeyword() (token.Kind, bool) {
	start := l.pos
	end := start
	for end < len(l.input) && unicode.IsLetter(l.input[end]) {
		end++
	}
	word := string(l.input[start:end])
	kind, ok := bareKeywords[word]
	if !ok {
		return 0, false
	}
	for i := 0; i < len(word); i++ {
		l.readChar()
	}
	return kind, true
}

func (l *Lexer) lexCommand(pos token.Position) (token.Token, error) {
	l.readChar() // consume '\'

	switch l.ch {
	case '\\':
		l.readChar()
		return token.Token{Kind: token.DBLBACKSLASH, Lexeme: "\\\\", Pos: pos}, nil
	case '{':
		l.readChar()
		return token.Token{Kind: token.LBRACE, Lexeme: "\\{", Pos: pos}, nil
	case '}':
		l.readChar()
		return token.Token{Kind: token.RBRACE, Lexeme: "\\}", Pos: pos}, nil
	case ',', ';', ':', '!', ' ':
		l.readChar()
		return token.Token{Kind: token.SPACING, Pos: pos}, nil
	}

	if !unicode.IsLetter(l.ch) {
		return token.Token{}, texprerrors.New(texprerrors.Tokenizer, pos, string(l.input),
			"unknown character %q after backslash", l.ch)
	}

	start := l.pos
	for unicode.IsLetter(l.ch) {
		l.readChar()
	}
	name := string(l.input[start:l.pos])
	return l.dispatchCommandName(name, pos)
}

func (l *Lexer) dispatchCommandName(name string, pos token.Position) (token.Token, error) {
	entry, ok := l.registry.Lookup(name)
	if !ok {
		if l.extensionLookup != nil {
			if kind, fn, found := l.extensionLookup(name); found {
				return token.Token{Kind: kind, Lexeme: name, Pos: pos, FuncName: fn}, nil
			}
		}
		suggestion := texprerrors.Suggest(name, l.registry.AllSuggestionCandidates())
		if target, isAlias := command.AliasTarget(suggestion); isAlias {
			suggestion = target
		}
		return token.Token{}, texprerrors.New(texprerrors.Tokenizer, pos, string(l.input),
			"unknown command \\%s", name).WithSuggestion(suggestion)
	}
	if entry.Ignored {
		return token.Token{Kind: token.IGNORED, Lexeme: name, Pos: pos}, nil
	}
	if entry.Font {
		return token.Token{Kind: token.FONT, Lexeme: name, Pos: pos}, nil
	}
	if entry.Kind == token.FUNCTION {
		return token.Token{Kind: token.FUNCTION, Lexeme: name, Pos: pos, FuncName: entry.FuncName}, nil
	}
	return token.Token{Kind: entry.Kind, Lexeme: name, Pos: pos, FuncName: entry.FuncName}, nil
}

func (l *Lexer) lexOperator(pos token.Position) (token.Token, error) {
	ch := l.ch
	single := func(k token.Kind) (token.Token, error) {
		l.readChar()
		return token.Token{Kind: k, Lexeme: string(ch), Pos: pos}, nil
	}

	switch ch {
	case '+':
		return single(token.PLUS)
	case '-':
		return single(token.MINUS)
	case '*':
		return single(token.TIMES)
	case '/':
		return single(token.DIVIDE)
	case '^':
		return single(token.POWER)
	case '_':
		return single(token.UNDERSCORE)
	case '!':
		return single(token.FACTORIAL)
	case ',':
		return single(token.COMMA)
	case '(':
		return single(token.LPAREN)
	case ')':
		return single(token.RPAREN)
	case '{':
		return single(token.LBRACE)
	case '}':
		return single(token.RBRACE)
	case '[':
		return single(token.LBRACKET)
	case ']':
		return single(token.RBRACKET)
	case '|':
		return single(token.PIPE)
	case '&':
		return single(token.AMPERSAND)
	case '=':
		return single(token.EQUALS)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.LEQ, Lexeme: "<=", Pos: pos}, nil
		}
		return single(token.LESS)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.GEQ, Lexeme: ">=", Pos: pos}, nil
		}
		return single(token.GREATER)
	}

	return token.Token{}, texprerrors.New(texprerrors.Tokenizer, pos, string(l.input),
		"unexpected character %q", ch)
}
