package parser

import (
	"strings"

	"github.com/xirf/texpr/internal/token"
	"github.com/xirf/texpr/pkg/ast"
)

// nextBracelessChar consumes a single digit or one-letter variable as a
// braceless \frac argument: "\frac12" means "\frac{1}{2}", while
// "\frac123" is ambiguous and must raise a parser error. A two-digit
// NUMBER token is split into two single-digit arguments via pendingDigits
// so the denominator call picks up the leftover digit.
func (p *Parser) nextBracelessChar() (ast.Expression, error) {
	if p.pendingDigits != "" {
		d := p.pendingDigits[0]
		p.pendingDigits = p.pendingDigits[1:]
		return &ast.Number{Value: float64(d - '0')}, nil
	}
	t := p.cur()
	if t.Kind == token.NUMBER {
		lex := t.Lexeme
		if strings.Contains(lex, ".") {
			return nil, p.errorf("a decimal literal cannot be split as a braceless \\frac argument")
		}
		if len(lex) > 2 {
			return nil, p.errorf("ambiguous braceless \\frac argument %q: use braces to disambiguate", lex)
		}
		p.advance()
		if len(lex) == 2 {
			p.pendingDigits = lex[1:]
		}
		return &ast.Number{Value: float64(lex[0] - '0')}, nil
	}
	if t.Kind == token.VARIABLE && len([]rune(t.Lexeme)) == 1 {
		p.advance()
		return &ast.Variable{Name: t.Lexeme}, nil
	}
	return nil, p.errorf("expected a single digit or variable as a braceless \\frac argument")
}

func (p *Parser) parseFracArg() (ast.Expression, error) {
	if p.cur().Kind == token.LBRACE {
		return p.parseBraced()
	}
	return p.nextBracelessChar()
}

func (p *Parser) parseFrac() (ast.Expression, error) {
	p.advance() // consume \frac
	num, err := p.parseFracArg()
	if err != nil {
		return nil, err
	}
	den, err := p.parseFracArg()
	if err != nil {
		return nil, err
	}

	if v, n, ok := detectDifferentialDenominator(den, "d"); ok {
		if matchesOrderMarker(num, "d", n) {
			body, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &ast.Derivative{Body: body, Var: v, Order: n}, nil
		}
	}
	if v, n, ok := detectDifferentialDenominator(den, "partial"); ok {
		if matchesOrderMarker(num, "partial", n) {
			body, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &ast.PartialDerivative{Body: body, Var: v, Order: n}, nil
		}
	}
	return &ast.Binary{Left: num, Right: den, Op: ast.Div}, nil
}

// matchesOrderMarker reports whether num is the bare marker variable
// (order 1) or marker^order (higher order), e.g. "d" or "d^2".
func matchesOrderMarker(num ast.Expression, marker string, order int) bool {
	if order == 1 {
		v, ok := num.(*ast.Variable)
		return ok && v.Name == marker
	}
	b, ok := num.(*ast.Binary)
	if !ok || b.Op != ast.Pow {
		return false
	}
	v, ok := b.Left.(*ast.Variable)
	if !ok || v.Name != marker {
		return false
	}
	n, ok := b.Right.(*ast.Number)
	return ok && int(n.Value) == order
}

// detectDifferentialDenominator recognises "d x", "d x^2", "partial x" and
// "partial x^2" shapes that implicit multiplication already folded into a
// Binary(Mul, Variable(marker), ...): \frac{d}{dx} source text lexes "dx"
// as marker (VARIABLE) implicit-multiplied by the bound variable.
func detectDifferentialDenominator(den ast.Expression, marker string) (variable string, order int, ok bool) {
	b, isMul := den.(*ast.Binary)
	if !isMul || b.Op != ast.Mul {
		return "", 0, false
	}
	m, isMarker := b.Left.(*ast.Variable)
	if !isMarker || m.Name != marker {
		return "", 0, false
	}
	switch right := b.Right.(type) {
	case *ast.Variable:
		return right.Name, 1, true
	case *ast.Binary:
		if right.Op != ast.Pow {
			return "", 0, false
		}
		v, isVar := right.Left.(*ast.Variable)
		n, isNum := right.Right.(*ast.Number)
		if isVar && isNum {
			return v.Name, int(n.Value), true
		}
	}
	return "", 0, false
}

func (p *Parser) parseSqrt() (ast.Expression, error) {
	p.advance() // consume \sqrt
	var optional ast.Expression
	if p.cur().Kind == token.LBRACKET {
		p.advance()
		n, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		optional = n
	}
	body, err := p.parseBracedOrSingleAtom()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Name: "sqrt", Args: []ast.Expression{body}, Optional: optional}, nil
}

func (p *Parser) parseBinom() (ast.Expression, error) {
	p.advance() // consume \binom
	n, err := p.parseBraced()
	if err != nil {
		return nil, err
	}
	k, err := p.parseBraced()
	if err != nil {
		return nil, err
	}
	return &ast.Binom{N: n, K: k}, nil
}

// parseBoundHeader parses the "_{var = start}" / "_{var \to target}"
// header shared by \sum, \prod and \lim.
func (p *Parser) parseBoundHeader(sep token.Kind) (varName string, rhs ast.Expression, err error) {
	if _, err = p.expect(token.UNDERSCORE); err != nil {
		return
	}
	hadBrace := p.cur().Kind == token.LBRACE
	if hadBrace {
		p.advance()
	}
	vt, err := p.expect(token.VARIABLE)
	if err != nil {
		return
	}
	varName = vt.Lexeme
	if _, err = p.expect(sep); err != nil {
		return
	}
	rhs, err = p.parseAdditive()
	if err != nil {
		return
	}
	if hadBrace {
		_, err = p.expect(token.RBRACE)
	}
	return
}

func (p *Parser) parseSumOrProduct(isProduct bool) (ast.Expression, error) {
	p.advance() // consume \sum / \prod
	varName, start, err := p.parseBoundHeader(token.EQUALS)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.POWER); err != nil {
		return nil, err
	}
	end, err := p.parseBracedOrSingleAtom()
	if err != nil {
		return nil, err
	}
	body, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if isProduct {
		return &ast.Product{Var: varName, Start: start, End: end, Body: body}, nil
	}
	return &ast.Sum{Var: varName, Start: start, End: end, Body: body}, nil
}

func (p *Parser) parseLimit() (ast.Expression, error) {
	p.advance() // consume \lim
	varName, target, err := p.parseBoundHeader(token.TO)
	if err != nil {
		return nil, err
	}
	body, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &ast.Limit{Var: varName, Target: target, Body: body}, nil
}

func (p *Parser) parseIntegral(closed bool) (ast.Expression, error) {
	p.advance() // consume \int / \oint
	var lower, upper ast.Expression
	if p.cur().Kind == token.UNDERSCORE {
		p.advance()
		l, err := p.parseBracedOrSingleAtom()
		if err != nil {
			return nil, err
		}
		lower = l
		if p.cur().Kind == token.POWER {
			p.advance()
			u, err := p.parseBracedOrSingleAtom()
			if err != nil {
				return nil, err
			}
			upper = u
		}
	}

	p.integralDepth++
	body, err := p.parseAdditive()
	p.integralDepth--
	if err != nil {
		return nil, err
	}

	variable, err := p.expectDifferential()
	if err != nil {
		return nil, err
	}
	return &ast.Integral{Lower: lower, Upper: upper, Body: body, Var: variable, Closed: closed}, nil
}

func (p *Parser) parseMultiIntegral(order int) (ast.Expression, error) {
	p.advance()
	var lowers, uppers []ast.Expression
	if p.cur().Kind == token.UNDERSCORE {
		p.advance()
		l, err := p.parseBracedOrSingleAtom()
		if err != nil {
			return nil, err
		}
		lowers = append(lowers, l)
		if p.cur().Kind == token.POWER {
			p.advance()
			u, err := p.parseBracedOrSingleAtom()
			if err != nil {
				return nil, err
			}
			uppers = append(uppers, u)
		}
	}

	p.integralDepth++
	body, err := p.parseAdditive()
	p.integralDepth--
	if err != nil {
		return nil, err
	}

	vars := make([]string, 0, order)
	for i := 0; i < order; i++ {
		v, err := p.expectDifferential()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	return &ast.MultiIntegral{Order: order, Lower: lowers, Upper: uppers, Body: body, Vars: vars}, nil
}

// expectDifferential consumes a trailing "d<var>" differential marker
// and returns the integration variable name.
func (p *Parser) expectDifferential() (string, error) {
	if p.cur().Kind != token.VARIABLE || p.cur().Lexeme != "d" {
		return "", p.errorf("integral requires a trailing differential, e.g. dx")
	}
	p.advance()
	vt, err := p.expect(token.VARIABLE)
	if err != nil {
		return "", p.errorf("expected an integration variable after d")
	}
	return vt.Lexeme, nil
}

func (p *Parser) parseGradient() (ast.Expression, error) {
	p.advance() // consume \nabla
	body, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	return &ast.Gradient{Body: body, Vars: nil}, nil
}
