package symbolic

import (
	"math"
	"sort"

	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// EquivalenceLevel classifies how two expressions were found equivalent.
type EquivalenceLevel int

const (
	NotEquivalent EquivalenceLevel = iota
	Structural
	Algebraic
	Numeric
)

const (
	numericSampleCount = 10
	numericSampleLo    = -10.0
	numericSampleHi    = 10.0
	numericTolerance   = 1e-9
)

// numericSamples is a fixed deterministic sequence spanning
// [numericSampleLo, numericSampleHi], standing in for a seeded RNG so
// repeated runs (and cache hits) agree bit-for-bit.
var numericSamples = func() []float64 {
	out := make([]float64, numericSampleCount)
	for i := range out {
		out[i] = numericSampleLo + (numericSampleHi-numericSampleLo)*float64(i)/float64(numericSampleCount-1)
	}
	return out
}()

// Equivalent checks a and b for equivalence, escalating from structural
// to algebraic to numeric: each stronger guarantee implies the weaker
// ones.
func (e *Engine) Equivalent(a, b ast.Expression, env *environment.Environment, eval Evaluator) (EquivalenceLevel, error) {
	if a.Equal(b) {
		return Structural, nil
	}
	sa := e.Simplify(Normalize(a), env)
	sb := e.Simplify(Normalize(b), env)
	if sa.Equal(sb) {
		return Algebraic, nil
	}
	ok, err := e.numericEquivalent(a, b, env, eval)
	if err != nil {
		return NotEquivalent, err
	}
	if ok {
		return Numeric, nil
	}
	return NotEquivalent, nil
}

// Evaluator is the minimal surface the equivalence checker needs to
// numerically sample both expressions without importing pkg/eval;
// pkg/eval in turn reaches the engine only through eval.Differentiator.
type Evaluator interface {
	Eval(expr ast.Expression, env *environment.Environment) (result.Result, error)
}

func freeVariables(e ast.Expression) []string {
	seen := map[string]bool{}
	var walk func(ast.Expression)
	walk = func(n ast.Expression) {
		switch v := n.(type) {
		case nil:
			return
		case *ast.Variable:
			seen[v.Name] = true
		case *ast.Binary:
			walk(v.Left)
			walk(v.Right)
		case *ast.Unary:
			walk(v.Operand)
		case *ast.Call:
			walk(v.Base)
			walk(v.Optional)
			for _, a := range v.Args {
				walk(a)
			}
		case *ast.Abs:
			walk(v.Operand)
		}
	}
	walk(e)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) numericEquivalent(a, b ast.Expression, env *environment.Environment, eval Evaluator) (bool, error) {
	vars := freeVariables(a)
	tested := false
	for _, s := range numericSamples {
		scope := env.Child()
		for _, v := range vars {
			scope.Set(v, result.Num(s))
		}
		ra, errA := eval.Eval(a, scope)
		rb, errB := eval.Eval(b, scope)
		if errA != nil || errB != nil {
			continue
		}
		fa, okA := asFiniteNumber(ra)
		fb, okB := asFiniteNumber(rb)
		if !okA || !okB {
			continue
		}
		tested = true
		if math.Abs(fa-fb) > numericTolerance {
			return false, nil
		}
	}
	return tested, nil
}

func asFiniteNumber(r result.Result) (float64, bool) {
	v, err := r.AsNumber()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
