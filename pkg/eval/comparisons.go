package eval

import (
	"math"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// boolResult encodes a boolean as Number(1)/Number(0): the result tagged
// union has no dedicated Bool variant, only Number, Complex, Matrix,
// Vector, and Function.
func boolResult(b bool) result.Result {
	if b {
		return result.Num(1)
	}
	return result.Num(0)
}

func truthy(r result.Result) bool {
	v, err := r.AsNumber()
	return err == nil && v != 0
}

func (e *Evaluator) evalComparison(n *ast.Comparison, env *environment.Environment) (result.Result, error) {
	left, err := e.Eval(n.Left, env)
	if err != nil {
		return result.Result{}, err
	}
	if n.Op == ast.MemberOf {
		return e.evalMembership(left, n.Right, env)
	}
	right, err := e.Eval(n.Right, env)
	if err != nil {
		return result.Result{}, err
	}
	return compareNumeric(n.Op, left, right)
}

func compareNumeric(op ast.CompareOp, left, right result.Result) (result.Result, error) {
	a, err := left.AsNumber()
	if err != nil {
		return result.Result{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return result.Result{}, err
	}
	switch op {
	case ast.Lt:
		return boolResult(a < b), nil
	case ast.Gt:
		return boolResult(a > b), nil
	case ast.Le:
		return boolResult(a <= b), nil
	case ast.Ge:
		return boolResult(a >= b), nil
	case ast.Eq:
		return boolResult(a == b), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unsupported comparison operator")
}

func (e *Evaluator) evalMembership(left result.Result, rhs ast.Expression, env *environment.Environment) (result.Result, error) {
	name, ok := rhs.(*ast.Variable)
	if !ok {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"\\in requires a named set (\\mathbb{R}, \\mathbb{Z}, \\mathbb{Q}, \\mathbb{C}, \\mathbb{N}) on the right")
	}
	switch name.Name {
	case "R":
		return boolResult(left.IsReal()), nil
	case "C":
		_, err := left.AsComplex()
		return boolResult(err == nil), nil
	case "Z":
		v, err := left.AsNumber()
		return boolResult(err == nil && v == math.Trunc(v)), nil
	case "N":
		v, err := left.AsNumber()
		return boolResult(err == nil && v == math.Trunc(v) && v >= 0), nil
	case "Q":
		v, err := left.AsNumber()
		return boolResult(err == nil && !math.IsInf(v, 0) && !math.IsNaN(v)), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unrecognised set %q in membership test", name.Name)
}

func (e *Evaluator) evalChainedComparison(n *ast.ChainedComparison, env *environment.Environment) (result.Result, error) {
	values := make([]result.Result, len(n.Exprs))
	for i, expr := range n.Exprs {
		v, err := e.Eval(expr, env)
		if err != nil {
			return result.Result{}, err
		}
		values[i] = v
	}
	for i, op := range n.Ops {
		r, err := compareNumeric(op, values[i], values[i+1])
		if err != nil {
			return result.Result{}, err
		}
		if !truthy(r) {
			return boolResult(false), nil
		}
	}
	return boolResult(true), nil
}

func (e *Evaluator) evalBooleanBinary(n *ast.BooleanBinary, env *environment.Environment) (result.Result, error) {
	left, err := e.Eval(n.Left, env)
	if err != nil {
		return result.Result{}, err
	}
	right, err := e.Eval(n.Right, env)
	if err != nil {
		return result.Result{}, err
	}
	a, b := truthy(left), truthy(right)
	switch n.Op {
	case ast.And:
		return boolResult(a && b), nil
	case ast.Or:
		return boolResult(a || b), nil
	case ast.Xor:
		return boolResult(a != b), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unsupported boolean operator")
}

func (e *Evaluator) evalBooleanUnary(n *ast.BooleanUnary, env *environment.Environment) (result.Result, error) {
	v, err := e.Eval(n.Operand, env)
	if err != nil {
		return result.Result{}, err
	}
	return boolResult(!truthy(v)), nil
}

// evalConditional evaluates "expr, cond": the value of expr when cond
// holds, NaN otherwise.
func (e *Evaluator) evalConditional(n *ast.Conditional, env *environment.Environment) (result.Result, error) {
	cond, err := e.Eval(n.Condition, env)
	if err != nil {
		return result.Result{}, err
	}
	if !truthy(cond) {
		return result.Num(math.NaN()), nil
	}
	return e.Eval(n.Body, env)
}

// evalPiecewise evaluates the first case whose condition is true, in
// source order; a nil Condition marks the "otherwise" case and always
// matches.
func (e *Evaluator) evalPiecewise(n *ast.Piecewise, env *environment.Environment) (result.Result, error) {
	for _, c := range n.Cases {
		if c.Condition == nil {
			return e.Eval(c.Expr, env)
		}
		cond, err := e.Eval(c.Condition, env)
		if err != nil {
			return result.Result{}, err
		}
		if truthy(cond) {
			return e.Eval(c.Expr, env)
		}
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"no piecewise case matched and no otherwise case was given")
}
