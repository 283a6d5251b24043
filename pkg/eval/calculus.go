package eval

import (
	"math"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// simpsonIntervals is the fixed sub-interval count used for numerical
// integration.
const simpsonIntervals = 10_000

// infiniteBoundClamp is the finite stand-in used when an integral bound
// evaluates to +-infinity.
const infiniteBoundClamp = 100

// limitStepSizes are the two-sided approach distances tried around a
// finite limit target, nearest last so the final successful sample is
// the most accurate one.
var limitStepSizes = []float64{1e-1, 1e-3, 1e-5, 1e-7, 1e-9}

// limitInfiniteSamples are the sample points used when the limit target
// itself is +-infinity.
var limitInfiniteSamples = []float64{1e2, 1e4, 1e6, 1e8}

const limitAgreementTolerance = 1e-7

func (e *Evaluator) evalLimit(n *ast.Limit, env *environment.Environment) (result.Result, error) {
	target, err := e.evalAsNumber(n.Target, env)
	if err != nil {
		return result.Result{}, err
	}

	sample := func(x float64) (result.Result, bool) {
		scope := env.Child()
		scope.Set(n.Var, result.Num(x))
		v, err := e.Eval(n.Body, scope)
		if err != nil {
			return result.Result{}, false
		}
		f, err := v.AsNumber()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return result.Result{}, false
		}
		return v, true
	}

	if math.IsInf(target, 0) {
		var last result.Result
		ok := false
		for _, mag := range limitInfiniteSamples {
			x := mag
			if target < 0 {
				x = -mag
			}
			if v, good := sample(x); good {
				last, ok = v, true
			}
		}
		if !ok {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"limit did not converge to a finite value")
		}
		return last, nil
	}

	var lastLeft, lastRight result.Result
	okLeft, okRight := false, false
	for _, h := range limitStepSizes {
		if v, good := sample(target - h); good {
			lastLeft, okLeft = v, true
		}
		if v, good := sample(target + h); good {
			lastRight, okRight = v, true
		}
	}

	switch {
	case okLeft && okRight:
		lv, _ := lastLeft.AsNumber()
		rv, _ := lastRight.AsNumber()
		if math.Abs(lv-rv) > limitAgreementTolerance {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"left and right limits disagree: %g vs %g", lv, rv)
		}
		return result.Num((lv + rv) / 2), nil
	case okLeft:
		return lastLeft, nil
	case okRight:
		return lastRight, nil
	default:
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"limit did not converge to a finite value")
	}
}

func (e *Evaluator) evalSum(n *ast.Sum, env *environment.Environment) (result.Result, error) {
	start, end, err := e.evalBounds(n.Start, n.End, env)
	if err != nil {
		return result.Result{}, err
	}
	acc := complex(0, 0)
	for i := start; i <= end; i++ {
		scope := env.Child()
		scope.Set(n.Var, result.Num(float64(i)))
		v, err := e.Eval(n.Body, scope)
		if err != nil {
			return result.Result{}, err
		}
		c, err := v.AsComplex()
		if err != nil {
			return result.Result{}, err
		}
		acc += c
	}
	return collapseComplex(acc), nil
}

func (e *Evaluator) evalProduct(n *ast.Product, env *environment.Environment) (result.Result, error) {
	start, end, err := e.evalBounds(n.Start, n.End, env)
	if err != nil {
		return result.Result{}, err
	}
	acc := complex(1, 0)
	for i := start; i <= end; i++ {
		scope := env.Child()
		scope.Set(n.Var, result.Num(float64(i)))
		v, err := e.Eval(n.Body, scope)
		if err != nil {
			return result.Result{}, err
		}
		c, err := v.AsComplex()
		if err != nil {
			return result.Result{}, err
		}
		acc *= c
	}
	return collapseComplex(acc), nil
}

// evalBounds validates the shared \sum/\prod contract: both bounds must
// evaluate to integers with start <= end, and the iteration count is
// capped at MaxSumProductIterations.
func (e *Evaluator) evalBounds(startExpr, endExpr ast.Expression, env *environment.Environment) (int, int, error) {
	startF, err := e.evalAsNumber(startExpr, env)
	if err != nil {
		return 0, 0, err
	}
	endF, err := e.evalAsNumber(endExpr, env)
	if err != nil {
		return 0, 0, err
	}
	if startF != math.Trunc(startF) || endF != math.Trunc(endF) {
		return 0, 0, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"sum/product bounds must be integers")
	}
	start, end := int(startF), int(endF)
	if start > end {
		return 0, 0, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"sum/product requires start <= end, got %d > %d", start, end)
	}
	if end-start+1 > MaxSumProductIterations {
		return 0, 0, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"sum/product range exceeds the %d iteration cap", MaxSumProductIterations)
	}
	return start, end, nil
}

func (e *Evaluator) evalIntegral(n *ast.Integral, env *environment.Environment) (result.Result, error) {
	if n.Lower == nil || n.Upper == nil {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"indefinite integral: provide bounds")
	}
	lo, err := e.boundedValueIn(n.Lower, env)
	if err != nil {
		return result.Result{}, err
	}
	hi, err := e.boundedValueIn(n.Upper, env)
	if err != nil {
		return result.Result{}, err
	}
	f := func(x float64) (float64, error) {
		scope := env.Child()
		scope.Set(n.Var, result.Num(x))
		v, err := e.Eval(n.Body, scope)
		if err != nil {
			return 0, err
		}
		return v.AsNumber()
	}
	return simpson(f, lo, hi)
}

func (e *Evaluator) evalMultiIntegral(n *ast.MultiIntegral, env *environment.Environment) (result.Result, error) {
	if len(n.Lower) != n.Order || len(n.Upper) != n.Order || len(n.Vars) != n.Order {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"multi-integral requires %d bound pairs and variables", n.Order)
	}
	var integrate func(depth int, scope *environment.Environment) (float64, error)
	integrate = func(depth int, scope *environment.Environment) (float64, error) {
		lo, err := e.boundedValueIn(n.Lower[depth], scope)
		if err != nil {
			return 0, err
		}
		hi, err := e.boundedValueIn(n.Upper[depth], scope)
		if err != nil {
			return 0, err
		}
		f := func(x float64) (float64, error) {
			child := scope.Child()
			child.Set(n.Vars[depth], result.Num(x))
			if depth+1 == n.Order {
				v, err := e.Eval(n.Body, child)
				if err != nil {
					return 0, err
				}
				return v.AsNumber()
			}
			return integrate(depth+1, child)
		}
		res, err := simpson(f, lo, hi)
		if err != nil {
			return 0, err
		}
		return res.AsNumber()
	}

	v, err := integrate(0, env)
	if err != nil {
		return result.Result{}, err
	}
	return result.Num(v), nil
}

func (e *Evaluator) boundedValueIn(expr ast.Expression, env *environment.Environment) (float64, error) {
	v, err := e.evalAsNumber(expr, env)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 1) {
		return infiniteBoundClamp, nil
	}
	if math.IsInf(v, -1) {
		return -infiniteBoundClamp, nil
	}
	return v, nil
}

// simpson applies composite Simpson's rule with simpsonIntervals
// sub-intervals.
func simpson(f func(float64) (float64, error), a, b float64) (result.Result, error) {
	if a == b {
		return result.Num(0), nil
	}
	n := simpsonIntervals
	if n%2 != 0 {
		n++
	}
	h := (b - a) / float64(n)
	fa, err := f(a)
	if err != nil {
		return result.Result{}, err
	}
	fb, err := f(b)
	if err != nil {
		return result.Result{}, err
	}
	sum := fa + fb
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		fx, err := f(x)
		if err != nil {
			return result.Result{}, err
		}
		if i%2 == 0 {
			sum += 2 * fx
		} else {
			sum += 4 * fx
		}
	}
	return result.Num(sum * h / 3), nil
}
