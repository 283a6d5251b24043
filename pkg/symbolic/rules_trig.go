package symbolic

import (
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
)

// asPow reports whether e is base^k for a numeric k, returning base and k.
func asPow(e ast.Expression) (ast.Expression, float64, bool) {
	b, ok := isBinary(e, ast.Pow)
	if !ok {
		return nil, 0, false
	}
	k, ok := asNumber(b.Right)
	return b.Left, k, ok
}

// sinCosSquarePair reports whether l, r are sin(e)^2 and cos(e)^2 (in
// either order) of the same e, returning e.
func sinCosSquarePair(l, r ast.Expression) (ast.Expression, bool) {
	lb, lk, lok := asPow(l)
	rb, rk, rok := asPow(r)
	if !lok || !rok || lk != 2 || rk != 2 {
		return nil, false
	}
	la, lIsSin := isUnaryCall(lb, "sin")
	ra, rIsCos := isUnaryCall(rb, "cos")
	if lIsSin && rIsCos && la.Equal(ra) {
		return la, true
	}
	la, lIsCos := isUnaryCall(lb, "cos")
	ra, rIsSin := isUnaryCall(rb, "sin")
	if lIsCos && rIsSin && la.Equal(ra) {
		return la, true
	}
	return nil, false
}

// halveDoubleAngle reports whether arg is 2*e (a numeric factor of 2
// times anything, AC-normalized so the constant comes first), returning e.
func halveDoubleAngle(arg ast.Expression) (ast.Expression, bool) {
	b, ok := isBinary(arg, ast.Mul)
	if !ok {
		return nil, false
	}
	if v, ok := asNumber(b.Left); ok && v == 2 {
		return b.Right, true
	}
	if v, ok := asNumber(b.Right); ok && v == 2 {
		return b.Left, true
	}
	return nil, false
}

// trigRules covers the Pythagorean identity and double-angle expansions.
// Half-angle formulas are restricted to the positive branch, as the rule
// descriptions note.
func trigRules() []Rule {
	return []Rule{
		{
			Name: "pythagorean-identity", Category: Simplification, Priority: 75,
			Description: "sin(e)^2 + cos(e)^2 -> 1",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Add)
				if !ok {
					return false
				}
				_, ok = sinCosSquarePair(b.Left, b.Right)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 1} },
		},
		{
			Name: "sin-double-angle", Category: Expansion, Priority: 50,
			Description: "sin(2x) -> 2 sin(x) cos(x)",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "sin")
				if !ok {
					return false
				}
				_, ok = halveDoubleAngle(arg)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "sin")
				x, _ := halveDoubleAngle(arg)
				sinx := &ast.Call{Name: "sin", Args: []ast.Expression{x}}
				cosx := &ast.Call{Name: "cos", Args: []ast.Expression{x}}
				return &ast.Binary{
					Left:  &ast.Number{Value: 2},
					Right: &ast.Binary{Left: sinx, Right: cosx, Op: ast.Mul},
					Op:    ast.Mul,
				}
			},
		},
		{
			Name: "cos-double-angle", Category: Expansion, Priority: 50,
			Description: "cos(2x) -> cos(x)^2 - sin(x)^2",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "cos")
				if !ok {
					return false
				}
				_, ok = halveDoubleAngle(arg)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "cos")
				x, _ := halveDoubleAngle(arg)
				cosx := &ast.Call{Name: "cos", Args: []ast.Expression{x}}
				sinx := &ast.Call{Name: "sin", Args: []ast.Expression{x}}
				return &ast.Binary{
					Left:  &ast.Binary{Left: cosx, Right: &ast.Number{Value: 2}, Op: ast.Pow},
					Right: &ast.Binary{Left: sinx, Right: &ast.Number{Value: 2}, Op: ast.Pow},
					Op:    ast.Sub,
				}
			},
		},
		{
			Name: "tan-double-angle", Category: Expansion, Priority: 50,
			Description: "tan(2x) -> 2 tan(x) / (1 - tan(x)^2)",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "tan")
				if !ok {
					return false
				}
				_, ok = halveDoubleAngle(arg)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "tan")
				x, _ := halveDoubleAngle(arg)
				tanx := &ast.Call{Name: "tan", Args: []ast.Expression{x}}
				num := &ast.Binary{Left: &ast.Number{Value: 2}, Right: tanx, Op: ast.Mul}
				den := &ast.Binary{
					Left:  &ast.Number{Value: 1},
					Right: &ast.Binary{Left: tanx, Right: &ast.Number{Value: 2}, Op: ast.Pow},
					Op:    ast.Sub,
				}
				return &ast.Binary{Left: num, Right: den, Op: ast.Div}
			},
		},
		{
			Name: "sin-half-angle-positive", Category: Expansion, Priority: 45,
			Description: "sin(x/2) -> sqrt((1 - cos(x)) / 2), positive branch only",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "sin")
				if !ok {
					return false
				}
				b, ok := isBinary(arg, ast.Div)
				if !ok {
					return false
				}
				v, ok := asNumber(b.Right)
				return ok && v == 2
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "sin")
				x := arg.(*ast.Binary).Left
				cosx := &ast.Call{Name: "cos", Args: []ast.Expression{x}}
				inner := &ast.Binary{
					Left:  &ast.Binary{Left: &ast.Number{Value: 1}, Right: cosx, Op: ast.Sub},
					Right: &ast.Number{Value: 2},
					Op:    ast.Div,
				}
				return &ast.Call{Name: "sqrt", Args: []ast.Expression{inner}}
			},
		},
		{
			Name: "cos-half-angle-positive", Category: Expansion, Priority: 45,
			Description: "cos(x/2) -> sqrt((1 + cos(x)) / 2), positive branch only",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "cos")
				if !ok {
					return false
				}
				b, ok := isBinary(arg, ast.Div)
				if !ok {
					return false
				}
				v, ok := asNumber(b.Right)
				return ok && v == 2
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "cos")
				x := arg.(*ast.Binary).Left
				cosx := &ast.Call{Name: "cos", Args: []ast.Expression{x}}
				inner := &ast.Binary{
					Left:  &ast.Binary{Left: &ast.Number{Value: 1}, Right: cosx, Op: ast.Add},
					Right: &ast.Number{Value: 2},
					Op:    ast.Div,
				}
				return &ast.Call{Name: "sqrt", Args: []ast.Expression{inner}}
			},
		},
	}
}
