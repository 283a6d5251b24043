package symbolic

import "github.com/xirf/texpr/pkg/ast"

// Antiderivative resolves a closed-form indefinite integral of expr with
// respect to variable for the patterns the differentiation table inverts
// directly: constant, power rule (n != -1), 1/x, and sin, cos, exp, sinh
// and cosh of the bare variable; logarithms, other functions and composed
// arguments are not resolved. Returns ok=false when no rule matches, letting
// the caller fall back to an unresolved Integral node.
func Antiderivative(expr ast.Expression, variable string) (ast.Expression, bool) {
	if !containsVar(expr, variable) {
		return mul(expr, &ast.Variable{Name: variable}), true
	}
	switch n := expr.(type) {
	case *ast.Variable:
		if n.Name == variable {
			return div(pow(n, num(2)), num(2)), true
		}
	case *ast.Unary:
		if inner, ok := Antiderivative(n.Operand, variable); ok {
			return &ast.Unary{Operand: inner}, true
		}
	case *ast.Binary:
		return antiderivativeBinary(n, variable)
	case *ast.Call:
		return antiderivativeCall(n, variable)
	}
	return nil, false
}

func antiderivativeBinary(n *ast.Binary, variable string) (ast.Expression, bool) {
	switch n.Op {
	case ast.Add:
		l, lok := Antiderivative(n.Left, variable)
		r, rok := Antiderivative(n.Right, variable)
		if lok && rok {
			return add(l, r), true
		}
	case ast.Sub:
		l, lok := Antiderivative(n.Left, variable)
		r, rok := Antiderivative(n.Right, variable)
		if lok && rok {
			return sub(l, r), true
		}
	case ast.Mul:
		// constant * f(x)
		if !containsVar(n.Left, variable) {
			if r, ok := Antiderivative(n.Right, variable); ok {
				return mul(n.Left, r), true
			}
		}
		if !containsVar(n.Right, variable) {
			if l, ok := Antiderivative(n.Left, variable); ok {
				return mul(n.Right, l), true
			}
		}
	case ast.Div:
		if !containsVar(n.Right, variable) {
			if l, ok := Antiderivative(n.Left, variable); ok {
				return div(l, n.Right), true
			}
		}
		// 1/x -> ln|x|
		if v, ok := asNumber(n.Left); ok && v == 1 {
			if vv, vok := n.Right.(*ast.Variable); vok && vv.Name == variable {
				return call1("ln", &ast.Abs{Operand: vv}), true
			}
		}
	case ast.Pow:
		base, ok := n.Left.(*ast.Variable)
		if !ok || base.Name != variable || containsVar(n.Right, variable) {
			return nil, false
		}
		k, ok := asNumber(n.Right)
		if !ok || k == -1 {
			return nil, false
		}
		return div(pow(base, num(k+1)), num(k+1)), true
	}
	return nil, false
}

func antiderivativeCall(n *ast.Call, variable string) (ast.Expression, bool) {
	if len(n.Args) != 1 {
		return nil, false
	}
	arg, ok := n.Args[0].(*ast.Variable)
	if !ok || arg.Name != variable {
		return nil, false
	}
	switch n.Name {
	case "sin":
		return &ast.Unary{Operand: call1("cos", arg)}, true
	case "cos":
		return call1("sin", arg), true
	case "exp":
		return call1("exp", arg), true
	case "sinh":
		return call1("cosh", arg), true
	case "cosh":
		return call1("sinh", arg), true
	default:
		return nil, false
	}
}
