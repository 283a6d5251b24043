package parser

import (
	"testing"

	"github.com/xirf/texpr/internal/command"
	"github.com/xirf/texpr/internal/lexer"
	"github.com/xirf/texpr/pkg/ast"
)

func mustParse(t *testing.T, src string) ast.Expression {
	t.Helper()
	reg := command.NewRegistry()
	toks, err := lexer.New(src, reg).Tokenize()
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	expr, err := New(toks, src, reg).Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return expr
}

func TestParseArithmeticPrecedence(t *testing.T) {
	expr := mustParse(t, `2 + 3 \times 4`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.Add {
		t.Fatalf("expected top-level Add, got %#v", expr)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != ast.Mul {
		t.Fatalf("expected 3*4 nested under +, got %#v", bin.Right)
	}
}

func TestParseImplicitMultiplication(t *testing.T) {
	expr := mustParse(t, `2x`)
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.Mul {
		t.Fatalf("expected implicit Mul, got %#v", expr)
	}
}

func TestParseBracelessExponentConvention(t *testing.T) {
	// e^ix = (e^i)*x, not e^(ix).
	expr := mustParse(t, `e^ix`)
	outer, ok := expr.(*ast.Binary)
	if !ok || outer.Op != ast.Mul {
		t.Fatalf("expected outer Mul for e^i then x, got %#v", expr)
	}
	pow, ok := outer.Left.(*ast.Binary)
	if !ok || pow.Op != ast.Pow {
		t.Fatalf("expected e^i nested on the left, got %#v", outer.Left)
	}
}

func TestParseFracBraceless(t *testing.T) {
	expr := mustParse(t, `\frac12`)
	div, ok := expr.(*ast.Binary)
	if !ok || div.Op != ast.Div {
		t.Fatalf("expected Div, got %#v", expr)
	}
	num, ok := div.Left.(*ast.Number)
	if !ok || num.Value != 1 {
		t.Fatalf("expected numerator 1, got %#v", div.Left)
	}
	den, ok := div.Right.(*ast.Number)
	if !ok || den.Value != 2 {
		t.Fatalf("expected denominator 2, got %#v", div.Right)
	}
}

func TestParseFracAmbiguousBraceless(t *testing.T) {
	reg := command.NewRegistry()
	toks, err := lexer.New(`\frac123`, reg).Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if _, err := New(toks, `\frac123`, reg).Parse(); err == nil {
		t.Fatal("expected an ambiguity error for \\frac123")
	}
}

func TestParseDerivativeFromFracPattern(t *testing.T) {
	expr := mustParse(t, `\frac{d}{dx}x^2`)
	d, ok := expr.(*ast.Derivative)
	if !ok {
		t.Fatalf("expected Derivative, got %#v", expr)
	}
	if d.Var != "x" || d.Order != 1 {
		t.Fatalf("expected Var=x Order=1, got %+v", d)
	}
}

func TestParseIntegralWithDifferential(t *testing.T) {
	expr := mustParse(t, `\int_{0}^{1}x dx`)
	in, ok := expr.(*ast.Integral)
	if !ok {
		t.Fatalf("expected Integral, got %#v", expr)
	}
	if in.Var != "x" || in.Closed {
		t.Fatalf("expected Var=x Closed=false, got %+v", in)
	}
}

func TestParseSumBinding(t *testing.T) {
	expr := mustParse(t, `\sum_{i=1}^{n}i`)
	sum, ok := expr.(*ast.Sum)
	if !ok || sum.Var != "i" {
		t.Fatalf("expected Sum over i, got %#v", expr)
	}
}

func TestParseChainedComparison(t *testing.T) {
	expr := mustParse(t, `a < b < c`)
	chain, ok := expr.(*ast.ChainedComparison)
	if !ok || len(chain.Exprs) != 3 {
		t.Fatalf("expected a 3-term chained comparison, got %#v", expr)
	}
}

func TestParseMixedDirectionChainRejected(t *testing.T) {
	reg := command.NewRegistry()
	src := `a < b > c`
	toks, err := lexer.New(src, reg).Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if _, err := New(toks, src, reg).Parse(); err == nil {
		t.Fatal("expected a mixed-direction chained comparison to fail")
	}
}

func TestParseLetAssignment(t *testing.T) {
	expr := mustParse(t, `let y = 2 + 2`)
	assign, ok := expr.(*ast.Assignment)
	if !ok || assign.Name != "y" {
		t.Fatalf("expected Assignment to y, got %#v", expr)
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	expr := mustParse(t, `f(x) = x^2 + 1`)
	def, ok := expr.(*ast.FunctionDefinition)
	if !ok || def.Name != "f" || len(def.Params) != 1 || def.Params[0] != "x" {
		t.Fatalf("expected FunctionDefinition f(x), got %#v", expr)
	}
}

func TestParseCasesEnvironment(t *testing.T) {
	expr := mustParse(t, `\begin{cases}1 & x > 0 \\ 0 & x \leq 0\end{cases}`)
	pw, ok := expr.(*ast.Piecewise)
	if !ok || len(pw.Cases) != 2 {
		t.Fatalf("expected a 2-case Piecewise, got %#v", expr)
	}
}

func TestParseMatrixEnvironment(t *testing.T) {
	expr := mustParse(t, `\begin{pmatrix}1 & 2 \\ 3 & 4\end{pmatrix}`)
	m, ok := expr.(*ast.Matrix)
	if !ok || m.Delimiter != "p" || len(m.Rows) != 2 || len(m.Rows[0]) != 2 {
		t.Fatalf("expected a 2x2 pmatrix, got %#v", expr)
	}
}

func TestParseAbsoluteValue(t *testing.T) {
	expr := mustParse(t, `|{-5}|`)
	if _, ok := expr.(*ast.Abs); !ok {
		t.Fatalf("expected Abs, got %#v", expr)
	}
}

func TestParseConditional(t *testing.T) {
	expr := mustParse(t, `x^2, x > 0`)
	cond, ok := expr.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %#v", expr)
	}
	if _, ok := cond.Condition.(*ast.Comparison); !ok {
		t.Fatalf("expected Comparison condition, got %#v", cond.Condition)
	}
}

func TestParseMaxRecursionDepth(t *testing.T) {
	reg := command.NewRegistry()
	src := ""
	for i := 0; i < 50; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 50; i++ {
		src += ")"
	}
	toks, err := lexer.New(src, reg).Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if _, err := New(toks, src, reg, WithMaxRecursionDepth(10)).Parse(); err == nil {
		t.Fatal("expected a recursion-depth error with a depth cap of 10")
	}
}
