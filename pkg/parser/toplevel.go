package parser

import (
	"github.com/xirf/texpr/internal/token"
	"github.com/xirf/texpr/pkg/ast"
)

// parseTopLevel is the parser's entry production: an optional `let`
// assignment or `f(x, y) = body` function definition, else a general
// conditional/piecewise expression.
func (p *Parser) parseTopLevel() (ast.Expression, error) {
	if p.cur().Kind == token.LET {
		return p.parseLetAssignment()
	}
	if def, ok, err := p.tryParseFunctionDefinition(); err != nil {
		return nil, err
	} else if ok {
		return def, nil
	}
	return p.parseConditional()
}

func (p *Parser) parseLetAssignment() (ast.Expression, error) {
	p.advance() // consume `let`
	nameTok, err := p.expect(token.VARIABLE)
	if err != nil {
		return nil, p.errorf("expected an identifier after let")
	}
	if _, err := p.expect(token.EQUALS); err != nil {
		return nil, err
	}
	value, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: nameTok.Lexeme, Value: value}, nil
}

// tryParseFunctionDefinition speculatively parses "name(p1, p2, ...) =
// body"; on any mismatch before the opening paren is confirmed as a
// parameter list followed by '=', it rewinds and reports no match so the
// caller falls through to ordinary expression parsing.
func (p *Parser) tryParseFunctionDefinition() (ast.Expression, bool, error) {
	if p.cur().Kind != token.VARIABLE || p.peek().Kind != token.LPAREN {
		return nil, false, nil
	}
	mark := p.pos
	name := p.advance().Lexeme
	p.advance() // consume '('

	var params []string
	if p.cur().Kind != token.RPAREN {
		for {
			pt, err := p.expect(token.VARIABLE)
			if err != nil {
				p.pos = mark
				return nil, false, nil
			}
			params = append(params, pt.Lexeme)
			if p.cur().Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}
	}
	if p.cur().Kind != token.RPAREN {
		p.pos = mark
		return nil, false, nil
	}
	p.advance() // consume ')'
	if p.cur().Kind != token.EQUALS {
		p.pos = mark
		return nil, false, nil
	}
	p.advance() // consume '='

	body, err := p.parseConditional()
	if err != nil {
		return nil, false, err
	}
	return &ast.FunctionDefinition{Name: name, Params: params, Body: body}, true, nil
}

// parseConditional handles the single-case conditional shorthand
// "expr, cond", piecewise notation outside a cases environment.
func (p *Parser) parseConditional() (ast.Expression, error) {
	body, err := p.parseBooleanOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind == token.COMMA {
		p.advance()
		cond, err := p.parseBooleanOr()
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Body: body, Condition: cond}, nil
	}
	return body, nil
}

func (p *Parser) parseBooleanOr() (ast.Expression, error) {
	left, err := p.parseBooleanAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == token.BOOL_OR {
		p.advance()
		right, err := p.parseBooleanAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BooleanBinary{Left: left, Right: right, Op: ast.Or}
	}
	return left, nil
}

func (p *Parser) parseBooleanAnd() (ast.Expression, error) {
	left, err := p.parseBooleanNot()
	if err != nil {
		return nil, err
	}
	for p.cur().IsOneOf(token.BOOL_AND, token.BOOL_XOR) {
		op := ast.And
		if p.cur().Kind == token.BOOL_XOR {
			op = ast.Xor
		}
		p.advance()
		right, err := p.parseBooleanNot()
		if err != nil {
			return nil, err
		}
		left = &ast.BooleanBinary{Left: left, Right: right, Op: op}
	}
	return left, nil
}

func (p *Parser) parseBooleanNot() (ast.Expression, error) {
	if p.cur().Kind == token.BOOL_NOT {
		p.advance()
		operand, err := p.parseBooleanNot()
		if err != nil {
			return nil, err
		}
		return &ast.BooleanUnary{Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) isComparisonToken() (ast.CompareOp, bool) {
	switch p.cur().Kind {
	case token.LESS:
		return ast.Lt, true
	case token.GREATER:
		return ast.Gt, true
	case token.LEQ:
		return ast.Le, true
	case token.GEQ:
		return ast.Ge, true
	case token.EQUALS, token.APPROX:
		// \approx is treated as equality at the AST level; the evaluator
		// applies a numeric tolerance when comparing, so no separate
		// CompareOp is needed.
		return ast.Eq, true
	case token.MEMBER:
		return ast.MemberOf, true
	}
	return 0, false
}

// parseComparison parses a single comparison or, when more than one
// comparison operator appears in sequence, a chained comparison
// ("a < b < c"). Mixing incompatible directions (e.g. "a < b > c") is a
// parser error.
func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	// "\neq" has no dedicated CompareOp (spec.md's relation set is
	// <,>,<=,>=,=,\in); represent it as the negation of equality and
	// don't fold it into a chain.
	if p.cur().Kind == token.NEQ {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BooleanUnary{Operand: &ast.Comparison{Left: left, Right: right, Op: ast.Eq}}, nil
	}

	exprs := []ast.Expression{left}
	var ops []ast.CompareOp
	for {
		op, ok := p.isComparisonToken()
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, right)
		ops = append(ops, op)
	}

	switch len(ops) {
	case 0:
		return left, nil
	case 1:
		return &ast.Comparison{Left: exprs[0], Right: exprs[1], Op: ops[0]}, nil
	default:
		dir := 0
		for _, op := range ops {
			d := op.Direction()
			if d == 0 {
				continue
			}
			if dir == 0 {
				dir = d
			} else if dir != d {
				return nil, p.errorf("cannot mix comparison directions in a chained comparison")
			}
		}
		return &ast.ChainedComparison{Exprs: exprs, Ops: ops}, nil
	}
}
