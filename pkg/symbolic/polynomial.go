package symbolic

import (
	"math"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
)

// maxBinomialExpansion caps expand's binomial theorem application.
const maxBinomialExpansion = 10

// maxFactorSearch bounds factor's integer root search.
const maxFactorSearch = 100

// Expand applies the distributive law bottom-up: (a+b)^n via the
// binomial theorem for 0<=n<=10, (a+b)(c+d) via FOIL, simplified
// after every rewrite.
func (e *Engine) Expand(expr ast.Expression) ast.Expression {
	return e.expandRec(expr)
}

// ExpandWithSteps is Expand plus a one-entry step trace (the expansion
// is a single bottom-up pass, not a rule-engine fixed point, so it
// records before/after rather than a per-rule trace).
func (e *Engine) ExpandWithSteps(expr ast.Expression) (ast.Expression, []Step) {
	out := e.Expand(expr)
	if out.Equal(expr) {
		return out, nil
	}
	return out, []Step{{Type: "expand", Description: "binomial/FOIL expansion", Before: expr.ToLatex(), After: out.ToLatex()}}
}

// FactorWithSteps is Factor plus a one-entry step trace.
func (e *Engine) FactorWithSteps(expr ast.Expression) (ast.Expression, []Step) {
	out := e.Factor(expr)
	if out.Equal(expr) {
		return out, nil
	}
	return out, []Step{{Type: "factor", Description: "polynomial factoring", Before: expr.ToLatex(), After: out.ToLatex()}}
}

func (e *Engine) expandRec(n ast.Expression) ast.Expression {
	switch v := n.(type) {
	case *ast.Binary:
		left := e.expandRec(v.Left)
		right := e.expandRec(v.Right)
		switch v.Op {
		case ast.Pow:
			if base, ok := isBinary(left, ast.Add); ok {
				if k, ok := asNumber(right); ok && k == math.Trunc(k) && k >= 0 && k <= maxBinomialExpansion {
					return e.Simplify(binomialExpand(base.Left, base.Right, int(k)), nil)
				}
			}
			return &ast.Binary{Left: left, Right: right, Op: v.Op}
		case ast.Mul:
			lb, lok := isBinary(left, ast.Add)
			rb, rok := isBinary(right, ast.Add)
			if lok && rok {
				return e.Simplify(foil(lb, rb), nil)
			}
			if lok {
				return e.Simplify(add(mul(lb.Left, right), mul(lb.Right, right)), nil)
			}
			if rok {
				return e.Simplify(add(mul(left, rb.Left), mul(left, rb.Right)), nil)
			}
			return &ast.Binary{Left: left, Right: right, Op: v.Op}
		default:
			return &ast.Binary{Left: left, Right: right, Op: v.Op}
		}
	case *ast.Unary:
		return &ast.Unary{Operand: e.expandRec(v.Operand)}
	case *ast.Call:
		args := make([]ast.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = e.expandRec(a)
		}
		return &ast.Call{Name: v.Name, Args: args, Base: v.Base, Optional: v.Optional}
	default:
		return n
	}
}

// binomialExpand builds sum_{k=0}^{n} C(n,k) a^(n-k) b^k.
func binomialExpand(a, b ast.Expression, n int) ast.Expression {
	var terms []ast.Expression
	for k := 0; k <= n; k++ {
		coeff := binomial(float64(n), float64(k))
		term := num(coeff)
		if n-k > 0 {
			term = mul(term, powN(a, n-k))
		}
		if k > 0 {
			term = mul(term, powN(b, k))
		}
		terms = append(terms, term)
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out = add(out, t)
	}
	return out
}

func powN(base ast.Expression, n int) ast.Expression {
	if n == 1 {
		return base
	}
	return pow(base, num(float64(n)))
}

// foil expands (a+b)(c+d) -> ac + ad + bc + bd.
func foil(l, r *ast.Binary) ast.Expression {
	return add(add(mul(l.Left, r.Left), mul(l.Left, r.Right)), add(mul(l.Right, r.Left), mul(l.Right, r.Right)))
}

// Factor applies difference-of-squares and monic-quadratic integer
// factoring. Returns expr unchanged when no pattern applies.
func (e *Engine) Factor(expr ast.Expression) ast.Expression {
	n := e.Simplify(expr, nil)
	if diff, ok := differenceOfSquares(n); ok {
		return diff
	}
	if quad, ok := monicQuadraticFactor(n); ok {
		return quad
	}
	return n
}

// differenceOfSquares matches a^2 - b^2 -> (a-b)(a+b).
func differenceOfSquares(e ast.Expression) (ast.Expression, bool) {
	b, ok := isBinary(e, ast.Sub)
	if !ok {
		return nil, false
	}
	la, lk, lok := asPow(b.Left)
	ra, rk, rok := asPow(b.Right)
	if !lok || !rok || lk != 2 || rk != 2 {
		return nil, false
	}
	return mul(sub(la, ra), add(la, ra)), true
}

// monicQuadraticFactor matches x^2 + bx + c (AC-normalized term order
// may vary) -> (x+p)(x+q) for integer p, q with |p|,|q| <= maxFactorSearch.
func monicQuadraticFactor(e ast.Expression) (ast.Expression, bool) {
	b, c, variable, ok := quadraticCoefficients(e)
	if !ok {
		return nil, false
	}
	for p := -maxFactorSearch; p <= maxFactorSearch; p++ {
		for q := p; q <= maxFactorSearch; q++ {
			if float64(p+q) == b && float64(p*q) == c {
				return mul(add(variable, num(float64(p))), add(variable, num(float64(q)))), true
			}
		}
	}
	return nil, false
}

// quadraticCoefficients extracts (b, c, x) from a 3-term sum containing
// x^2, b*x (or x alone when b=1), and a constant c. Returns ok=false for
// anything that doesn't match this exact monic shape.
func quadraticCoefficients(e ast.Expression) (b, c float64, variable ast.Expression, ok bool) {
	terms := flatten(e, ast.Add)
	var haveSquare bool
	var linearCoeff float64
	var haveLinear bool
	var constant float64
	for _, t := range terms {
		if base, k, pok := asPow(t); pok && k == 2 {
			if haveSquare {
				return 0, 0, nil, false
			}
			variable = base
			haveSquare = true
			continue
		}
		if v, nok := asNumber(t); nok {
			constant = v
			continue
		}
		if m, mok := isBinary(t, ast.Mul); mok {
			if v, nok := asNumber(m.Left); nok {
				linearCoeff, haveLinear = v, true
				continue
			}
			if v, nok := asNumber(m.Right); nok {
				linearCoeff, haveLinear = v, true
				continue
			}
		}
		if vv, vok := t.(*ast.Variable); vok {
			linearCoeff, haveLinear = 1, true
			_ = vv
			continue
		}
		return 0, 0, nil, false
	}
	if !haveSquare || !haveLinear {
		return 0, 0, nil, false
	}
	return linearCoeff, constant, variable, true
}

// SolveLinear solves a*x + b = 0 for x, where expr is the left-hand side
// of "expr = 0".
func (e *Engine) SolveLinear(expr ast.Expression, variable string) (ast.Expression, error) {
	n := e.Simplify(expr, nil)
	a, b, ok := linearCoefficients(n, variable)
	if !ok {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "expression is not linear in %s", variable)
	}
	if a == 0 {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "no unique solution: coefficient of %s is zero", variable)
	}
	return e.Simplify(num(-b/a), nil), nil
}

func linearCoefficients(e ast.Expression, variable string) (a, b float64, ok bool) {
	for _, t := range flatten(e, ast.Add) {
		if v, nok := asNumber(t); nok {
			b += v
			continue
		}
		if vv, vok := t.(*ast.Variable); vok && vv.Name == variable {
			a += 1
			continue
		}
		if m, mok := isBinary(t, ast.Mul); mok {
			if v, nok := asNumber(m.Left); nok {
				if vv, vok := m.Right.(*ast.Variable); vok && vv.Name == variable {
					a += v
					continue
				}
			}
			if v, nok := asNumber(m.Right); nok {
				if vv, vok := m.Left.(*ast.Variable); vok && vv.Name == variable {
					a += v
					continue
				}
			}
		}
		return 0, 0, false
	}
	return a, b, true
}

// SolveQuadratic solves a*x^2 + b*x + c = 0 via the quadratic formula,
// returning 0, 1, or 2 roots depending on the discriminant's sign.
func (e *Engine) SolveQuadratic(expr ast.Expression, variable string) ([]ast.Expression, error) {
	n := e.Simplify(expr, nil)
	a, b, c, ok := fullQuadraticCoefficients(n, variable)
	if !ok {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "expression is not quadratic in %s", variable)
	}
	if a == 0 {
		root, err := e.SolveLinear(n, variable)
		if err != nil {
			return nil, err
		}
		return []ast.Expression{root}, nil
	}
	disc := b*b - 4*a*c
	switch {
	case disc < 0:
		return nil, nil
	case disc == 0:
		return []ast.Expression{e.Simplify(num(-b/(2*a)), nil)}, nil
	default:
		sq := math.Sqrt(disc)
		r1 := e.Simplify(num((-b+sq)/(2*a)), nil)
		r2 := e.Simplify(num((-b-sq)/(2*a)), nil)
		return []ast.Expression{r1, r2}, nil
	}
}

func fullQuadraticCoefficients(e ast.Expression, variable string) (a, b, c float64, ok bool) {
	for _, t := range flatten(e, ast.Add) {
		if base, k, pok := asPow(t); pok && k == 2 {
			if vv, vok := base.(*ast.Variable); vok && vv.Name == variable {
				a += 1
				continue
			}
		}
		if m, mok := isBinary(t, ast.Mul); mok {
			if coef, base, found := coefficientOfSquare(m, variable); found {
				a += coef
				_ = base
				continue
			}
		}
		if v, nok := asNumber(t); nok {
			c += v
			continue
		}
		if vv, vok := t.(*ast.Variable); vok && vv.Name == variable {
			b += 1
			continue
		}
		if m, mok := isBinary(t, ast.Mul); mok {
			if v, nok := asNumber(m.Left); nok {
				if vv, vok := m.Right.(*ast.Variable); vok && vv.Name == variable {
					b += v
					continue
				}
			}
			if v, nok := asNumber(m.Right); nok {
				if vv, vok := m.Left.(*ast.Variable); vok && vv.Name == variable {
					b += v
					continue
				}
			}
		}
		return 0, 0, 0, false
	}
	if a == 0 {
		return 0, 0, 0, false
	}
	return a, b, c, true
}

func coefficientOfSquare(m *ast.Binary, variable string) (coeff float64, base ast.Expression, ok bool) {
	check := func(coefExpr, sqExpr ast.Expression) (float64, ast.Expression, bool) {
		v, nok := asNumber(coefExpr)
		if !nok {
			return 0, nil, false
		}
		b, k, pok := asPow(sqExpr)
		if !pok || k != 2 {
			return 0, nil, false
		}
		vv, vok := b.(*ast.Variable)
		if !vok || vv.Name != variable {
			return 0, nil, false
		}
		return v, b, true
	}
	if c, b, ok := check(m.Left, m.Right); ok {
		return c, b, true
	}
	if c, b, ok := check(m.Right, m.Left); ok {
		return c, b, true
	}
	return 0, nil, false
}
