package eval

import (
	"math"
	"math/cmplx"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

func cmplxAbs(c complex128) float64 { return cmplx.Abs(c) }

func (e *Evaluator) evalBinary(n *ast.Binary, env *environment.Environment) (result.Result, error) {
	left, err := e.Eval(n.Left, env)
	if err != nil {
		return result.Result{}, err
	}

	// Juxtaposition against a Function-tag value is application, not
	// multiplication: "f(x)" with f a user-defined closure is parsed as
	// implicit Mul(Variable f, group), so Mul is where call sites live.
	if n.Op == ast.Mul && left.Tag == result.FunctionTag {
		arg, err := e.Eval(n.Right, env)
		if err != nil {
			return result.Result{}, err
		}
		return e.callClosure(left.Closure, []result.Result{arg})
	}

	right, err := e.Eval(n.Right, env)
	if err != nil {
		return result.Result{}, err
	}

	if left.Tag == result.MatrixTag || right.Tag == result.MatrixTag {
		return evalMatrixBinary(n.Op, left, right)
	}
	if left.Tag == result.VectorTag || right.Tag == result.VectorTag {
		return evalVectorBinary(n.Op, left, right)
	}

	if left.Tag == result.ComplexTag || right.Tag == result.ComplexTag {
		lc, err := left.AsComplex()
		if err != nil {
			return result.Result{}, err
		}
		rc, err := right.AsComplex()
		if err != nil {
			return result.Result{}, err
		}
		return evalComplexBinary(n.Op, lc, rc)
	}

	return evalNumberBinary(n.Op, left.Number, right.Number)
}

func evalNumberBinary(op ast.BinaryOp, a, b float64) (result.Result, error) {
	switch op {
	case ast.Add:
		return result.Num(a + b), nil
	case ast.Sub:
		return result.Num(a - b), nil
	case ast.Mul:
		return result.Num(a * b), nil
	case ast.Div:
		if b == 0 {
			if a == 0 {
				return result.Num(math.NaN()), nil
			}
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"division by zero")
		}
		return result.Num(a / b), nil
	case ast.Pow:
		// Negative base with a non-integer exponent escapes the reals:
		// fall back to complex power. 0^negative is an error.
		if a < 0 && b != math.Trunc(b) {
			return evalComplexBinary(op, complex(a, 0), complex(b, 0))
		}
		if a == 0 && b < 0 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"0 raised to a negative power is undefined")
		}
		return result.Num(math.Pow(a, b)), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "unknown binary operator")
}

func evalComplexBinary(op ast.BinaryOp, a, b complex128) (result.Result, error) {
	switch op {
	case ast.Add:
		return collapseComplex(a + b), nil
	case ast.Sub:
		return collapseComplex(a - b), nil
	case ast.Mul:
		return collapseComplex(a * b), nil
	case ast.Div:
		if b == 0 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"division by zero")
		}
		return collapseComplex(a / b), nil
	case ast.Pow:
		return collapseComplex(cmplx.Pow(a, b)), nil
	}
	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator, "unknown binary operator")
}

// collapseComplex narrows back to a Number result when the imaginary part
// is negligible, keeping "once any sub-result is complex the enclosing
// operation returns complex" true only for genuinely complex values.
func collapseComplex(c complex128) result.Result {
	if math.Abs(imag(c)) < 1e-9 {
		return result.Num(real(c))
	}
	return result.Cplx(c)
}
