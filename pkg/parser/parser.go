// Package parser implements texpr's recursive-descent, precedence-climbing
// parser. Each precedence level is its own method (parseAdditive,
// parseMultiplicative, parseUnary, parsePower, parsePostfix), and
// parsePrimary switches on the token kind to pick the production.
package parser

import (
	"github.com/xirf/texpr/internal/command"
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/internal/token"
	"github.com/xirf/texpr/pkg/ast"
)

// DefaultMaxRecursionDepth is the default parser recursion cap.
const DefaultMaxRecursionDepth = 500

// Parser turns a token slice into an AST.
type Parser struct {
	tokens []token.Token
	pos    int
	source string

	registry *command.Registry
	strict   bool
	errs     []*texprerrors.Error

	maxDepth int
	depth    int

	integralDepth int
	pendingDigits string
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrictMode sets the strict flag. Parse stops at the first error
// whatever the flag says; ParseStrict always runs in error-recovery mode.
func WithStrictMode(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithMaxRecursionDepth overrides the default 500 recursion cap.
func WithMaxRecursionDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// New creates a Parser over tokens (source is kept only for diagnostics).
func New(tokens []token.Token, source string, registry *command.Registry, opts ...Option) *Parser {
	p := &Parser{
		tokens:   tokens,
		source:   source,
		registry: registry,
		maxDepth: DefaultMaxRecursionDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a full expression and fails on the first error.
func (p *Parser) Parse() (ast.Expression, error) {
	expr, err := p.parseTopLevel()
	if err != nil {
		return nil, err
	}
	if !p.cur().Is(token.EOF) {
		return nil, p.errorf("unexpected trailing token %s", p.cur())
	}
	return expr, nil
}

// ParseStrict parses in error-recovery mode, returning every error found:
// after each error it resynchronises on the next recovery boundary, steps
// past it and parses on from there. The returned expression is the first
// segment's (nil if that segment failed).
func (p *Parser) ParseStrict() (ast.Expression, []*texprerrors.Error) {
	p.strict = true
	expr, err := p.parseTopLevel()
	for err != nil || !p.cur().Is(token.EOF) {
		if err == nil {
			err = p.errorf("unexpected trailing token %s", p.cur())
		}
		p.recordAndResync(err)
		p.advance()
		if p.cur().Is(token.EOF) {
			break
		}
		_, err = p.parseTopLevel()
	}
	if len(p.errs) > 0 {
		return expr, p.errs
	}
	return expr, nil
}

func (p *Parser) cur() token.Token  { return p.tokens[p.pos] }
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}
func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	e := texprerrors.New(texprerrors.Parser, p.cur().Pos, p.source, format, args...)
	if suggestion := p.suggestFor(p.cur()); suggestion != "" {
		e.WithSuggestion(suggestion)
	}
	return e
}

func (p *Parser) suggestFor(t token.Token) string {
	if t.Kind != token.ILLEGAL && t.Lexeme == "" {
		return ""
	}
	return texprerrors.Suggest(t.Lexeme, p.registry.AllSuggestionCandidates())
}

// expect consumes the current token if it has kind k, else raises a
// positioned parser error.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errorf("expected %s, got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

// isRecoveryBoundary reports whether the current token is one the
// strict-mode parser resynchronises on: , & \\ ) } or EOF.
func (p *Parser) isRecoveryBoundary() bool {
	t := p.cur()
	return t.IsOneOf(token.COMMA, token.AMPERSAND, token.DBLBACKSLASH, token.RPAREN, token.RBRACE, token.EOF)
}

// recordAndResync appends err to the error list (strict mode only) and
// advances past tokens until a recovery boundary or EOF.
func (p *Parser) recordAndResync(err error) {
	if e, ok := err.(*texprerrors.Error); ok {
		p.errs = append(p.errs, e)
	}
	for !p.isRecoveryBoundary() {
		p.advance()
	}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf("maximum recursion depth (%d) exceeded", p.maxDepth)
	}
	return nil
}
func (p *Parser) leave() { p.depth-- }

// ---- precedence chain: additive -> multiplicative -> unary -> power -> postfix -> primary ----

func (p *Parser) parseAdditive() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().IsOneOf(token.PLUS, token.MINUS) {
		op := ast.Add
		if p.cur().Kind == token.MINUS {
			op = ast.Sub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Right: right, Op: op}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur().Kind == token.TIMES:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Left: left, Right: right, Op: ast.Mul}
		case p.cur().Kind == token.DIVIDE:
			p.advance()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Left: left, Right: right, Op: ast.Div}
		case p.startsImplicitFactor():
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Left: left, Right: right, Op: ast.Mul}
		default:
			return left, nil
		}
	}
}

// startsImplicitFactor reports whether the current token can begin a
// juxtaposed factor for implicit multiplication, with the
// integral-differential exception: inside an integral body, a bare "d"
// immediately followed by a single-letter variable is the trailing
// differential marker, not a factor to multiply in.
func (p *Parser) startsImplicitFactor() bool {
	if p.integralDepth > 0 && p.looksLikeDifferential() {
		return false
	}
	t := p.cur()
	switch t.Kind {
	case token.NUMBER, token.VARIABLE, token.INFINITY, token.CONSTANT,
		token.FUNCTION, token.SQRT, token.FRAC, token.LPAREN, token.LBRACE,
		token.PIPE, token.BINOM:
		return true
	}
	return false
}

func (p *Parser) looksLikeDifferential() bool {
	t := p.cur()
	if t.Kind != token.VARIABLE || t.Lexeme != "d" {
		return false
	}
	nxt := p.peek()
	return nxt.Kind == token.VARIABLE && len([]rune(nxt.Lexeme)) == 1
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.cur().Kind == token.MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (ast.Expression, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.POWER {
		p.advance()
		var right ast.Expression
		if p.cur().Kind == token.LBRACE {
			right, err = p.parseBraced()
		} else {
			right, err = p.parseExponentAtom()
		}
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Left: left, Right: right, Op: ast.Pow}
	}
	return left, nil
}

// parseExponentAtom implements the braceless-exponent convention: "e^ix"
// parses as (e^i)*x, so only a single atom (optionally unary-negated)
// becomes the exponent.
func (p *Parser) parseExponentAtom() (ast.Expression, error) {
	if p.cur().Kind == token.MINUS {
		p.advance()
		operand, err := p.parseExponentAtom()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.UNDERSCORE:
			p.advance()
			idx, err := p.parseBracedOrSingleAtom()
			if err != nil {
				return nil, err
			}
			left = &ast.Call{Name: "subscript", Args: []ast.Expression{left, idx}}
		case token.FACTORIAL:
			p.advance()
			left = &ast.Call{Name: "factorial", Args: []ast.Expression{left}}
		default:
			return left, nil
		}
	}
}

// parseBraced parses "{ expr }".
func (p *Parser) parseBraced() (ast.Expression, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	if p.cur().Is(token.EOF) {
		return nil, p.errorf("missing closing brace } after {")
	}
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseBracedOrSingleAtom lets commands like \sqrt accept either a
// braced group or a single atom as their argument.
func (p *Parser) parseBracedOrSingleAtom() (ast.Expression, error) {
	if p.cur().Kind == token.LBRACE {
		return p.parseBraced()
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		return &ast.Number{Value: t.NumberVal}, nil
	case token.VARIABLE:
		p.advance()
		return &ast.Variable{Name: t.Lexeme}, nil
	case token.CONSTANT:
		p.advance()
		return &ast.Variable{Name: t.FuncName}, nil
	case token.INFINITY:
		p.advance()
		return &ast.Variable{Name: "infty"}, nil
	case token.PARTIAL:
		p.advance()
		return &ast.Variable{Name: "partial"}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACE:
		return p.parseBraced()
	case token.PIPE:
		return p.parseAbs()
	case token.FUNCTION:
		return p.parseFunctionCall()
	case token.SQRT:
		return p.parseSqrt()
	case token.FRAC:
		return p.parseFrac()
	case token.BINOM:
		return p.parseBinom()
	case token.SUM:
		return p.parseSumOrProduct(false)
	case token.PROD:
		return p.parseSumOrProduct(true)
	case token.LIM:
		return p.parseLimit()
	case token.INT, token.OINT:
		return p.parseIntegral(t.Kind == token.OINT)
	case token.IINT:
		return p.parseMultiIntegral(2)
	case token.IIINT:
		return p.parseMultiIntegral(3)
	case token.NABLA:
		return p.parseGradient()
	case token.BEGIN:
		return p.parseEnvironment()
	case token.FONT:
		p.advance()
		return p.parseBracedOrSingleAtom()
	}
	return nil, p.errorf("unexpected token %s", t.Kind)
}

func (p *Parser) parseAbs() (ast.Expression, error) {
	p.advance() // consume opening '|'
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PIPE); err != nil {
		return nil, p.errorf("missing closing | for absolute value")
	}
	return &ast.Abs{Operand: expr}, nil
}

func (p *Parser) parseFunctionCall() (ast.Expression, error) {
	t := p.advance()
	var base ast.Expression
	if p.cur().Kind == token.UNDERSCORE {
		p.advance()
		b, err := p.parseBracedOrSingleAtom()
		if err != nil {
			return nil, err
		}
		base = b
	}
	var arg ast.Expression
	var err error
	if p.cur().Kind == token.LBRACE {
		arg, err = p.parseBraced()
	} else if p.startsImplicitFactor() {
		arg, err = p.parsePrimary()
	} else {
		return nil, p.errorf("function \\%s requires an argument", t.Lexeme)
	}
	if err != nil {
		return nil, err
	}
	return &ast.Call{Name: t.FuncName, Args: []ast.Expression{arg}, Base: base}, nil
}
