package symbolic

import (
	"github.com/xirf/texpr/pkg/environment"
	"math"

	"github.com/xirf/texpr/pkg/ast"
)

func asNumber(e ast.Expression) (float64, bool) {
	n, ok := e.(*ast.Number)
	if !ok {
		return 0, false
	}
	return n.Value, true
}

func isBinary(e ast.Expression, op ast.BinaryOp) (*ast.Binary, bool) {
	b, ok := e.(*ast.Binary)
	return b, ok && b.Op == op
}

// identityRules covers arithmetic identities and number-number constant
// folding.
func identityRules() []Rule {
	return []Rule{
		{
			Name: "constant-fold", Category: Identity, Priority: 100,
			Description: "fold a binary operation over two numeric literals",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := e.(*ast.Binary)
				if !ok {
					return false
				}
				_, lok := asNumber(b.Left)
				_, rok := asNumber(b.Right)
				return lok && rok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				b := e.(*ast.Binary)
				a, _ := asNumber(b.Left)
				c, _ := asNumber(b.Right)
				switch b.Op {
				case ast.Add:
					return &ast.Number{Value: a + c}
				case ast.Sub:
					return &ast.Number{Value: a - c}
				case ast.Mul:
					return &ast.Number{Value: a * c}
				case ast.Div:
					if c != 0 {
						return &ast.Number{Value: a / c}
					}
				case ast.Pow:
					if a >= 0 || c == math.Trunc(c) {
						return &ast.Number{Value: math.Pow(a, c)}
					}
				}
				return e
			},
		},
		{
			Name: "zero-add", Category: Identity, Priority: 90,
			Description: "0 + x -> x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Add)
				if !ok {
					return false
				}
				v, lok := asNumber(b.Left)
				return lok && v == 0
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return e.(*ast.Binary).Right },
		},
		{
			Name: "one-mul", Category: Identity, Priority: 90,
			Description: "1 * x -> x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Mul)
				if !ok {
					return false
				}
				v, lok := asNumber(b.Left)
				return lok && v == 1
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return e.(*ast.Binary).Right },
		},
		{
			Name: "zero-mul", Category: Identity, Priority: 90,
			Description: "0 * x -> 0",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Mul)
				if !ok {
					return false
				}
				v, lok := asNumber(b.Left)
				return lok && v == 0
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 0} },
		},
		{
			Name: "double-self-add", Category: Simplification, Priority: 85,
			Description: "x + x -> 2x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Add)
				return ok && b.Left.Equal(b.Right)
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				b := e.(*ast.Binary)
				return &ast.Binary{Left: &ast.Number{Value: 2}, Right: b.Left, Op: ast.Mul}
			},
		},
		{
			Name: "self-sub", Category: Simplification, Priority: 85,
			Description: "x - x -> 0",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Sub)
				return ok && b.Left.Equal(b.Right)
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 0} },
		},
		{
			Name: "self-div", Category: Simplification, Priority: 85,
			Description: "x / x -> 1",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Div)
				return ok && b.Left.Equal(b.Right)
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 1} },
		},
		{
			Name: "self-mul-square", Category: Simplification, Priority: 85,
			Description: "x * x -> x^2",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Mul)
				return ok && b.Left.Equal(b.Right)
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				b := e.(*ast.Binary)
				return &ast.Binary{Left: b.Left, Right: &ast.Number{Value: 2}, Op: ast.Pow}
			},
		},
		{
			Name: "negative-one-mul", Category: Simplification, Priority: 80,
			Description: "(-1) * x -> -x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Mul)
				if !ok {
					return false
				}
				v, lok := asNumber(b.Left)
				return lok && v == -1
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				return &ast.Unary{Operand: e.(*ast.Binary).Right}
			},
		},
		{
			Name: "power-zero", Category: Identity, Priority: 90,
			Description: "x^0 -> 1",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Pow)
				if !ok {
					return false
				}
				v, rok := asNumber(b.Right)
				return rok && v == 0
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 1} },
		},
		{
			Name: "power-one", Category: Identity, Priority: 90,
			Description: "x^1 -> x",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Pow)
				if !ok {
					return false
				}
				v, rok := asNumber(b.Right)
				return rok && v == 1
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return e.(*ast.Binary).Left },
		},
		{
			Name: "zero-power-positive", Category: Identity, Priority: 88,
			Description: "0^x -> 0 for x > 0",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Pow)
				if !ok {
					return false
				}
				base, lok := asNumber(b.Left)
				exp, rok := asNumber(b.Right)
				return lok && rok && base == 0 && exp > 0
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 0} },
		},
		{
			Name: "one-power", Category: Identity, Priority: 88,
			Description: "1^x -> 1",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				b, ok := isBinary(e, ast.Pow)
				if !ok {
					return false
				}
				base, lok := asNumber(b.Left)
				return lok && base == 1
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 1} },
		},
	}
}
