package symbolic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// evalNumber is a tiny recursive evaluator over the pure-arithmetic
// subset produced by this package's derivatives, just enough to check
// derivative-evaluation agreement without importing pkg/eval.
func evalNumber(t *testing.T, e ast.Expression, x float64) float64 {
	t.Helper()
	switch n := e.(type) {
	case *ast.Number:
		return n.Value
	case *ast.Variable:
		require.Equal(t, "x", n.Name)
		return x
	case *ast.Unary:
		return -evalNumber(t, n.Operand, x)
	case *ast.Binary:
		l, r := evalNumber(t, n.Left, x), evalNumber(t, n.Right, x)
		switch n.Op {
		case ast.Add:
			return l + r
		case ast.Sub:
			return l - r
		case ast.Mul:
			return l * r
		case ast.Div:
			return l / r
		case ast.Pow:
			p := 1.0
			for i := 0; i < int(r); i++ {
				p *= l
			}
			return p
		}
	}
	t.Fatalf("cannot evaluate %#v", e)
	return 0
}

func TestDifferentiatePowerRule(t *testing.T) {
	e := NewEngine()
	deriv, err := e.Differentiate(pow(varE("x"), num(3)), "x", 1)
	require.NoError(t, err)
	require.InDelta(t, 27.0, evalNumber(t, deriv, 3), 1e-9)
	require.InDelta(t, 0.0, evalNumber(t, deriv, 0), 1e-9)
}

func TestDifferentiateSecondOrder(t *testing.T) {
	e := NewEngine()
	deriv, err := e.Differentiate(pow(varE("x"), num(3)), "x", 2)
	require.NoError(t, err)
	require.InDelta(t, 12.0, evalNumber(t, deriv, 2), 1e-9)
}

func TestDifferentiateProductRule(t *testing.T) {
	e := NewEngine()
	deriv, err := e.Differentiate(mul(varE("x"), pow(varE("x"), num(2))), "x", 1)
	require.NoError(t, err)
	require.InDelta(t, 27.0, evalNumber(t, deriv, 3), 1e-9)
}

func TestDifferentiateConstant(t *testing.T) {
	e := NewEngine()
	deriv, err := e.Differentiate(num(5), "x", 1)
	require.NoError(t, err)
	require.InDelta(t, 0.0, evalNumber(t, deriv, 42), 1e-9)
}

func TestDifferentiateOrderZeroErrors(t *testing.T) {
	e := NewEngine()
	_, err := e.Differentiate(varE("x"), "x", 0)
	require.Error(t, err)
}

func TestEquivalenceNumericFallback(t *testing.T) {
	e := NewEngine()
	env := environment.New()
	a := pow(add(varE("x"), num(1)), num(2))
	b := add(add(pow(varE("x"), num(2)), mul(num(2), varE("x"))), num(1))
	level, err := e.Equivalent(a, b, env, fakeEvaluator{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, int(level), int(Algebraic))
}

type fakeEvaluator struct{}

func (fakeEvaluator) Eval(expr ast.Expression, env *environment.Environment) (result.Result, error) {
	scope := env
	v, ok := scope.Get("x")
	x := 0.0
	if ok {
		x, _ = v.AsNumber()
	}
	return result.Num(evalNumberNoTest(expr, x)), nil
}

func evalNumberNoTest(e ast.Expression, x float64) float64 {
	switch n := e.(type) {
	case *ast.Number:
		return n.Value
	case *ast.Variable:
		return x
	case *ast.Unary:
		return -evalNumberNoTest(n.Operand, x)
	case *ast.Binary:
		l, r := evalNumberNoTest(n.Left, x), evalNumberNoTest(n.Right, x)
		switch n.Op {
		case ast.Add:
			return l + r
		case ast.Sub:
			return l - r
		case ast.Mul:
			return l * r
		case ast.Div:
			return l / r
		case ast.Pow:
			p := 1.0
			for i := 0; i < int(r); i++ {
				p *= l
			}
			return p
		}
	}
	return 0
}
