package symbolic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xirf/texpr/pkg/ast"
)

func varE(name string) ast.Expression { return &ast.Variable{Name: name} }

func TestSimplifyConstantFold(t *testing.T) {
	e := NewEngine()
	expr := add(num(2), num(3))
	out := e.Simplify(expr, nil)
	n, ok := out.(*ast.Number)
	require.True(t, ok)
	require.Equal(t, 5.0, n.Value)
}

func TestSimplifyZeroAddOneMul(t *testing.T) {
	e := NewEngine()
	out := e.Simplify(add(num(0), varE("x")), nil)
	require.True(t, out.Equal(varE("x")))

	out = e.Simplify(mul(num(1), varE("x")), nil)
	require.True(t, out.Equal(varE("x")))
}

func TestSimplifyPythagoreanIdentity(t *testing.T) {
	e := NewEngine()
	sinSq := pow(call1("sin", varE("x")), num(2))
	cosSq := pow(call1("cos", varE("x")), num(2))
	out := e.Simplify(add(sinSq, cosSq), nil)
	n, ok := out.(*ast.Number)
	require.True(t, ok)
	require.Equal(t, 1.0, n.Value)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	e := NewEngine()
	expr := add(add(varE("x"), num(0)), mul(num(1), varE("y")))
	once := e.Simplify(expr, nil)
	twice := e.Simplify(once, nil)
	require.True(t, once.Equal(twice))
}

func TestLogProductRule(t *testing.T) {
	e := NewEngine()
	expr := call1("ln", mul(varE("a"), varE("b")))
	out := e.Simplify(expr, nil)
	b, ok := out.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Add, b.Op)
}

func TestSinDoubleAngleExpansion(t *testing.T) {
	e := NewEngine()
	expr := call1("sin", mul(num(2), varE("x")))
	out := e.Simplify(expr, nil)
	b, ok := out.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Mul, b.Op)
}
