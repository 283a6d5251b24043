package symbolic

import (
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
)

var zero ast.Expression = &ast.Number{Value: 0}
var one ast.Expression = &ast.Number{Value: 1}

func add(a, b ast.Expression) ast.Expression { return &ast.Binary{Left: a, Right: b, Op: ast.Add} }
func sub(a, b ast.Expression) ast.Expression { return &ast.Binary{Left: a, Right: b, Op: ast.Sub} }
func mul(a, b ast.Expression) ast.Expression { return &ast.Binary{Left: a, Right: b, Op: ast.Mul} }
func div(a, b ast.Expression) ast.Expression { return &ast.Binary{Left: a, Right: b, Op: ast.Div} }
func pow(a, b ast.Expression) ast.Expression { return &ast.Binary{Left: a, Right: b, Op: ast.Pow} }
func call1(name string, a ast.Expression) ast.Expression {
	return &ast.Call{Name: name, Args: []ast.Expression{a}}
}
func num(v float64) ast.Expression { return &ast.Number{Value: v} }

// Differentiate computes the order-th derivative of body with respect to
// variable, simplifying after each successive application. It satisfies
// eval.Differentiator.
func (e *Engine) Differentiate(body ast.Expression, variable string, order int) (ast.Expression, error) {
	if order < 1 {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "derivative order must be >= 1, got %d", order)
	}
	cur := body
	for i := 0; i < order; i++ {
		d, err := diff(cur, variable)
		if err != nil {
			return nil, err
		}
		cur = e.Simplify(d, nil)
	}
	return cur, nil
}

// DifferentiateOnce computes the raw first derivative of body without a
// trailing simplification pass, letting a caller simplify it themselves
// (with or without a step trace).
func (e *Engine) DifferentiateOnce(body ast.Expression, variable string) (ast.Expression, error) {
	return diff(body, variable)
}

// containsVar reports whether e mentions variable anywhere in its tree.
func containsVar(e ast.Expression, variable string) bool {
	switch n := e.(type) {
	case *ast.Number:
		return false
	case *ast.Variable:
		return n.Name == variable
	case *ast.Unary:
		return containsVar(n.Operand, variable)
	case *ast.Binary:
		return containsVar(n.Left, variable) || containsVar(n.Right, variable)
	case *ast.Call:
		if containsVar(n.Base, variable) || containsVar(n.Optional, variable) {
			return true
		}
		for _, a := range n.Args {
			if containsVar(a, variable) {
				return true
			}
		}
		return false
	case *ast.Abs:
		return containsVar(n.Operand, variable)
	case *ast.Binom:
		return containsVar(n.N, variable) || containsVar(n.K, variable)
	default:
		return false
	}
}

// diff differentiates e with respect to variable once, per the standard
// sum/product/quotient/power/chain rules.
func diff(e ast.Expression, variable string) (ast.Expression, error) {
	if e == nil {
		return zero, nil
	}
	switch n := e.(type) {
	case *ast.Number:
		return zero, nil
	case *ast.Variable:
		if n.Name == variable {
			return one, nil
		}
		return zero, nil
	case *ast.Unary:
		d, err := diff(n.Operand, variable)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operand: d}, nil
	case *ast.Binary:
		return diffBinary(n, variable)
	case *ast.Call:
		return diffCall(n, variable)
	case *ast.Abs:
		d, err := diff(n.Operand, variable)
		if err != nil {
			return nil, err
		}
		// d/dx |g| = (g/|g|) * g', undefined at g=0 like every CAS.
		return mul(div(n.Operand, &ast.Abs{Operand: n.Operand}), d), nil
	case *ast.Piecewise:
		cases := make([]ast.PiecewiseCase, len(n.Cases))
		for i, c := range n.Cases {
			d, err := diff(c.Expr, variable)
			if err != nil {
				return nil, err
			}
			cases[i] = ast.PiecewiseCase{Expr: d, Condition: c.Condition}
		}
		return &ast.Piecewise{Cases: cases}, nil
	default:
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "cannot differentiate this expression")
	}
}

func diffBinary(n *ast.Binary, variable string) (ast.Expression, error) {
	dl, err := diff(n.Left, variable)
	if err != nil {
		return nil, err
	}
	dr, err := diff(n.Right, variable)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.Add:
		return add(dl, dr), nil
	case ast.Sub:
		return sub(dl, dr), nil
	case ast.Mul:
		return add(mul(dl, n.Right), mul(n.Left, dr)), nil
	case ast.Div:
		return div(sub(mul(dl, n.Right), mul(n.Left, dr)), pow(n.Right, num(2))), nil
	case ast.Pow:
		baseHasVar := containsVar(n.Left, variable)
		expHasVar := containsVar(n.Right, variable)
		switch {
		case !baseHasVar && !expHasVar:
			return zero, nil
		case expHasVar && !baseHasVar:
			// d/dx base^g(x) = base^g * ln(base) * g'
			return mul(mul(n, call1("ln", n.Left)), dr), nil
		case baseHasVar && !expHasVar:
			// power rule: d/dx f^k = k * f^(k-1) * f'
			return mul(mul(n.Right, pow(n.Left, sub(n.Right, one))), dl), nil
		default:
			// generalized logarithmic differentiation: d/dx f^g = f^g * (g' ln f + g f'/f)
			return mul(n, add(mul(dr, call1("ln", n.Left)), mul(n.Right, div(dl, n.Left)))), nil
		}
	default:
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "cannot differentiate this operator")
	}
}

func diffCall(n *ast.Call, variable string) (ast.Expression, error) {
	if len(n.Args) != 1 {
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "cannot differentiate \\%s", n.Name)
	}
	g := n.Args[0]
	dg, err := diff(g, variable)
	if err != nil {
		return nil, err
	}
	chain := func(outer ast.Expression) ast.Expression { return mul(outer, dg) }

	switch n.Name {
	case "sin":
		return chain(call1("cos", g)), nil
	case "cos":
		return chain(&ast.Unary{Operand: call1("sin", g)}), nil
	case "tan":
		return chain(div(one, pow(call1("cos", g), num(2)))), nil
	case "cot":
		return chain(&ast.Unary{Operand: div(one, pow(call1("sin", g), num(2)))}), nil
	case "sec":
		return chain(mul(call1("sec", g), call1("tan", g))), nil
	case "csc":
		return chain(&ast.Unary{Operand: mul(call1("csc", g), call1("cot", g))}), nil
	case "sinh":
		return chain(call1("cosh", g)), nil
	case "cosh":
		return chain(call1("sinh", g)), nil
	case "tanh":
		return chain(sub(one, pow(call1("tanh", g), num(2)))), nil
	case "exp":
		return chain(call1("exp", g)), nil
	case "ln":
		return div(dg, g), nil
	case "log":
		base := n.Base
		if base == nil {
			base = num(10)
		}
		return div(dg, mul(g, call1("ln", base))), nil
	case "sqrt":
		root := n.Optional
		if root == nil {
			return chain(div(one, mul(num(2), call1("sqrt", g)))), nil
		}
		rv, ok := asNumber(root)
		if !ok {
			return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "cannot differentiate sqrt with a non-constant root index")
		}
		return chain(mul(div(one, num(rv)), pow(g, sub(div(one, num(rv)), one)))), nil
	case "arcsin":
		return chain(div(one, call1("sqrt", sub(one, pow(g, num(2)))))), nil
	case "arccos":
		return chain(&ast.Unary{Operand: div(one, call1("sqrt", sub(one, pow(g, num(2)))))}), nil
	case "arctan":
		return chain(div(one, add(one, pow(g, num(2))))), nil
	case "arccot":
		return chain(&ast.Unary{Operand: div(one, add(one, pow(g, num(2))))}), nil
	case "arcsinh":
		return chain(div(one, call1("sqrt", add(pow(g, num(2)), one)))), nil
	case "arccosh":
		return chain(div(one, call1("sqrt", sub(pow(g, num(2)), one)))), nil
	case "arctanh":
		return chain(div(one, sub(one, pow(g, num(2))))), nil
	default:
		return nil, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "cannot differentiate \\%s", n.Name)
	}
}
