package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

func num(v float64) ast.Expression { return &ast.Number{Value: v} }

func binary(op ast.BinaryOp, l, r ast.Expression) ast.Expression {
	return &ast.Binary{Left: l, Right: r, Op: op}
}

func TestEvalArithmeticPrecedenceTable(t *testing.T) {
	e := New()
	env := environment.New()

	cases := []struct {
		name string
		expr ast.Expression
		want float64
	}{
		{"add", binary(ast.Add, num(2), num(3)), 5},
		{"sub", binary(ast.Sub, num(5), num(2)), 3},
		{"mul", binary(ast.Mul, num(4), num(3)), 12},
		{"div", binary(ast.Div, num(9), num(3)), 3},
		{"pow", binary(ast.Pow, num(2), num(10)), 1024},
		{"nested", binary(ast.Add, num(2), binary(ast.Mul, num(3), num(4))), 14},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := e.Eval(c.expr, env)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			v, err := got.AsNumber()
			if err != nil {
				t.Fatalf("AsNumber: %v", err)
			}
			if v != c.want {
				t.Errorf("got %v, want %v", v, c.want)
			}
		})
	}
}

func TestEvalSqrtOfNegativeProducesComplex(t *testing.T) {
	e := New()
	env := environment.New()

	got, err := e.Eval(&ast.Call{Name: "sqrt", Args: []ast.Expression{num(-4)}}, env)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	c, err := got.AsComplex()
	if err != nil {
		t.Fatalf("AsComplex: %v", err)
	}
	if diff := cmp.Diff(complex(0, 2), c); diff != "" {
		t.Errorf("sqrt(-4) mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalDivisionByZeroErrors(t *testing.T) {
	e := New()
	env := environment.New()
	_, err := e.Eval(binary(ast.Div, num(1), num(0)), env)
	if err == nil {
		t.Fatal("expected an error dividing by zero")
	}
}

func TestEvalMatrixDeterminant2x2(t *testing.T) {
	e := New()
	env := environment.New()
	m := &ast.Matrix{
		Rows: [][]ast.Expression{
			{num(1), num(2)},
			{num(3), num(4)},
		},
		Delimiter: "b",
	}
	got, err := e.Eval(&ast.Call{Name: "det", Args: []ast.Expression{m}}, env)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, err := got.AsNumber()
	if err != nil {
		t.Fatalf("AsNumber: %v", err)
	}
	if v != -2.0 {
		t.Errorf("det = %v, want -2", v)
	}
}

func TestEvalVariableLookupUsesEnvironment(t *testing.T) {
	e := New()
	env := environment.New()
	env.Set("x", result.Num(7))
	got, err := e.Eval(&ast.Variable{Name: "x"}, env)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, _ := got.AsNumber()
	if v != 7 {
		t.Errorf("x = %v, want 7", v)
	}
}

func TestEvalUnboundVariableErrors(t *testing.T) {
	e := New()
	env := environment.New()
	_, err := e.Eval(&ast.Variable{Name: "y"}, env)
	if err == nil {
		t.Fatal("expected an error for an unbound variable")
	}
}
