// Package eval implements texpr's evaluation visitor: AST + environment
// → tagged result. Numeric operator dispatch falls through to
// complex-number propagation on domain errors, and built-in functions
// are resolved through a name-keyed registry rather than a type switch.
package eval

import (
	"math"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/extensions"
	"github.com/xirf/texpr/pkg/result"
)

// MaxSumProductIterations is the hard cap on \sum / \prod iteration
// count, guarding against runaway or malformed bounds.
const MaxSumProductIterations = 100_000

// Differentiator is the minimal surface Evaluator needs from the symbolic
// engine to evaluate a bare Derivative/PartialDerivative node encountered
// mid-expression. symbolic.Engine satisfies this structurally, avoiding an
// eval<->symbolic import cycle.
type Differentiator interface {
	Differentiate(body ast.Expression, variable string, order int) (ast.Expression, error)
}

// Evaluator walks an AST against an Environment, producing a tagged Result.
type Evaluator struct {
	Extensions     *extensions.Registry // may be nil
	Differentiator Differentiator       // may be nil
}

// New creates an Evaluator with no extensions or differentiator wired.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval is the visitor entry point.
func (e *Evaluator) Eval(expr ast.Expression, env *environment.Environment) (result.Result, error) {
	switch n := expr.(type) {
	case *ast.Number:
		return result.Num(n.Value), nil
	case *ast.Variable:
		return e.evalVariable(n, env)
	case *ast.Binary:
		return e.evalBinary(n, env)
	case *ast.Unary:
		return e.evalUnary(n, env)
	case *ast.Call:
		return e.evalCall(n, env)
	case *ast.Abs:
		return e.evalAbs(n, env)
	case *ast.Assignment:
		return e.evalAssignment(n, env)
	case *ast.FunctionDefinition:
		return e.evalFunctionDefinition(n, env)
	case *ast.Comparison:
		return e.evalComparison(n, env)
	case *ast.ChainedComparison:
		return e.evalChainedComparison(n, env)
	case *ast.BooleanBinary:
		return e.evalBooleanBinary(n, env)
	case *ast.BooleanUnary:
		return e.evalBooleanUnary(n, env)
	case *ast.Conditional:
		return e.evalConditional(n, env)
	case *ast.Piecewise:
		return e.evalPiecewise(n, env)
	case *ast.Matrix:
		return e.evalMatrix(n, env)
	case *ast.Limit:
		return e.evalLimit(n, env)
	case *ast.Sum:
		return e.evalSum(n, env)
	case *ast.Product:
		return e.evalProduct(n, env)
	case *ast.Integral:
		return e.evalIntegral(n, env)
	case *ast.MultiIntegral:
		return e.evalMultiIntegral(n, env)
	case *ast.Derivative:
		return e.evalDerivativeNode(n.Body, n.Var, n.Order, env)
	case *ast.PartialDerivative:
		return e.evalDerivativeNode(n.Body, n.Var, n.Order, env)
	case *ast.Binom:
		return e.evalBinom(n, env)
	case *ast.Gradient:
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"\\nabla is symbolic only and cannot be evaluated to a numeric result")
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"evaluator does not know how to evaluate %T", expr)
}

func (e *Evaluator) evalVariable(n *ast.Variable, env *environment.Environment) (result.Result, error) {
	switch n.Name {
	case "pi":
		return result.Num(math.Pi), nil
	case "tau":
		return result.Num(2 * math.Pi), nil
	case "phi":
		return result.Num((1 + math.Sqrt(5)) / 2), nil
	case "e":
		return result.Num(math.E), nil
	case "i":
		if _, bound := env.Get("i"); !bound {
			return result.Cplx(complex(0, 1)), nil
		}
	case "infty":
		return result.Num(math.Inf(1)), nil
	}
	if v, ok := env.Get(n.Name); ok {
		return v, nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"undefined variable %q", n.Name)
}

func (e *Evaluator) evalUnary(n *ast.Unary, env *environment.Environment) (result.Result, error) {
	v, err := e.Eval(n.Operand, env)
	if err != nil {
		return result.Result{}, err
	}
	switch v.Tag {
	case result.NumberTag:
		return result.Num(-v.Number), nil
	case result.ComplexTag:
		return result.Cplx(-v.Complex), nil
	case result.MatrixTag:
		return result.Mat(negateMatrix(v.Matrix)), nil
	case result.VectorTag:
		return result.Vec(negateVector(v.Vector)), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"cannot negate a %s", v.Tag)
}

func (e *Evaluator) evalAbs(n *ast.Abs, env *environment.Environment) (result.Result, error) {
	v, err := e.Eval(n.Operand, env)
	if err != nil {
		return result.Result{}, err
	}
	switch v.Tag {
	case result.NumberTag:
		return result.Num(math.Abs(v.Number)), nil
	case result.ComplexTag:
		return result.Num(cmplxAbs(v.Complex)), nil
	case result.VectorTag:
		return result.Num(vectorMagnitude(v.Vector)), nil
	case result.MatrixTag:
		d, err := determinant(v.Matrix)
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Abs(real(d))), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"cannot take the absolute value of a %s", v.Tag)
}

func (e *Evaluator) evalAssignment(n *ast.Assignment, env *environment.Environment) (result.Result, error) {
	v, err := e.Eval(n.Value, env)
	if err != nil {
		return result.Result{}, err
	}
	env.Set(n.Name, v)
	return v, nil
}

func (e *Evaluator) evalFunctionDefinition(n *ast.FunctionDefinition, env *environment.Environment) (result.Result, error) {
	fn := result.Fn(result.Closure{Params: n.Params, Body: n.Body, Env: env})
	env.Set(n.Name, fn)
	return fn, nil
}

func (e *Evaluator) evalBinom(n *ast.Binom, env *environment.Environment) (result.Result, error) {
	nv, err := e.evalAsNumber(n.N, env)
	if err != nil {
		return result.Result{}, err
	}
	kv, err := e.evalAsNumber(n.K, env)
	if err != nil {
		return result.Result{}, err
	}
	return result.Num(binomial(nv, kv)), nil
}

func (e *Evaluator) evalAsNumber(expr ast.Expression, env *environment.Environment) (float64, error) {
	v, err := e.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	return v.AsNumber()
}

// evalDerivativeNode evaluates a bare Derivative/PartialDerivative
// encountered inside a larger expression: differentiate symbolically, then
// evaluate the result against env. A user-defined variable's current
// binding is irrelevant to the differentiation itself (it operates on the
// AST), but is used when evaluating the resulting derivative expression.
func (e *Evaluator) evalDerivativeNode(body ast.Expression, v string, order int, env *environment.Environment) (result.Result, error) {
	if e.Differentiator == nil {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"differentiation requires a symbolic engine, none is configured")
	}
	derived, err := e.Differentiator.Differentiate(body, v, order)
	if err != nil {
		return result.Result{}, err
	}
	return e.Eval(derived, env)
}
