package symbolic

import (
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
)

// isUnaryCall reports whether e is a *ast.Call named name with exactly one
// argument, returning that argument.
func isUnaryCall(e ast.Expression, name string) (ast.Expression, bool) {
	c, ok := e.(*ast.Call)
	if !ok || c.Name != name || len(c.Args) != 1 {
		return nil, false
	}
	return c.Args[0], true
}

func negOf(e ast.Expression) ast.Expression {
	if u, ok := e.(*ast.Unary); ok {
		return u.Operand
	}
	return &ast.Unary{Operand: e}
}

// simplificationRules covers the non-identity arithmetic simplifications:
// double negation, fraction cancellation shapes, and abs-of-square.
func simplificationRules() []Rule {
	return []Rule{
		{
			Name: "double-negation", Category: Simplification, Priority: 85,
			Description: "-(-x) -> x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				u, ok := e.(*ast.Unary)
				if !ok {
					return false
				}
				_, ok = u.Operand.(*ast.Unary)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				return e.(*ast.Unary).Operand.(*ast.Unary).Operand
			},
		},
		{
			Name: "neg-div-neg", Category: Simplification, Priority: 84,
			Description: "(-x) / (-y) -> x / y",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Div)
				if !ok {
					return false
				}
				_, lok := b.Left.(*ast.Unary)
				_, rok := b.Right.(*ast.Unary)
				return lok && rok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				b := e.(*ast.Binary)
				return &ast.Binary{Left: negOf(b.Left), Right: negOf(b.Right), Op: ast.Div}
			},
		},
		{
			Name: "abs-of-square", Category: Simplification, Priority: 70,
			Description: "|x^2| -> x^2",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				a, ok := e.(*ast.Abs)
				if !ok {
					return false
				}
				b, ok := isBinary(a.Operand, ast.Pow)
				if !ok {
					return false
				}
				v, ok := asNumber(b.Right)
				return ok && v == 2
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return e.(*ast.Abs).Operand },
		},
		{
			Name: "sqrt-of-square", Category: Simplification, Priority: 70,
			Description: "sqrt(x^2) -> |x|",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, ok := isUnaryCall(e, "sqrt")
				if !ok {
					return false
				}
				b, ok := isBinary(arg, ast.Pow)
				if !ok {
					return false
				}
				v, ok := asNumber(b.Right)
				return ok && v == 2
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, _ := isUnaryCall(e, "sqrt")
				return &ast.Abs{Operand: arg.(*ast.Binary).Left}
			},
		},
		{
			Name: "fraction-same-sign-cancel", Category: Simplification, Priority: 60,
			Description: "(a*x) / x -> a",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Div)
				if !ok {
					return false
				}
				m, ok := isBinary(b.Left, ast.Mul)
				if !ok {
					return false
				}
				return m.Right.Equal(b.Right) || m.Left.Equal(b.Right)
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				b := e.(*ast.Binary)
				m := b.Left.(*ast.Binary)
				if m.Right.Equal(b.Right) {
					return m.Left
				}
				return m.Right
			},
		},
	}
}
