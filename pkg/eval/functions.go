package eval

import (
	"math"
	"math/cmplx"
	"strconv"

	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// builtinFn receives the already-evaluated argument, the evaluated Base
// (subscript) result when present, and reports whether a base was given.
type builtinFn func(arg result.Result, base result.Result, hasBase bool) (result.Result, error)

var builtins = map[string]builtinFn{
	"sin":  real1(math.Sin), "cos": real1(math.Cos), "tan": real1(math.Tan),
	"cot": real1(func(x float64) float64 { return 1 / math.Tan(x) }),
	"sec": real1(func(x float64) float64 { return 1 / math.Cos(x) }),
	"csc": real1(func(x float64) float64 { return 1 / math.Sin(x) }),
	"sinh": real1(math.Sinh), "cosh": real1(math.Cosh), "tanh": real1(math.Tanh),
	"exp": real1(math.Exp),
	"sign": real1(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	}),
	"floor": real1(math.Floor), "ceil": real1(math.Ceil),
	"round": real1(math.Round),
	"dot":   identityDecoration, "ddot": identityDecoration, "bar": identityDecoration,
	"hat": identityDecoration, "vec": identityDecoration,
}

func real1(f func(float64) float64) builtinFn {
	return func(arg result.Result, _ result.Result, _ bool) (result.Result, error) {
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(f(x)), nil
	}
}

func identityDecoration(arg result.Result, _ result.Result, _ bool) (result.Result, error) {
	return arg, nil
}

func (e *Evaluator) evalCall(n *ast.Call, env *environment.Environment) (result.Result, error) {
	arg, err := e.Eval(n.Args[0], env)
	if err != nil {
		return result.Result{}, err
	}
	var base result.Result
	hasBase := n.Base != nil
	if hasBase {
		base, err = e.Eval(n.Base, env)
		if err != nil {
			return result.Result{}, err
		}
	}

	switch n.Name {
	case "arcsin", "arccos":
		return evalInverseTrig(n.Name, arg)
	case "arctan":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Atan(x)), nil
	case "arccot":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Pi/2 - math.Atan(x)), nil
	case "arcsec":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Acos(1 / x)), nil
	case "arccsc":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Asin(1 / x)), nil
	case "arcsinh":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		return result.Num(math.Asinh(x)), nil
	case "arccosh":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		if x < 1 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"arccosh is undefined below 1")
		}
		return result.Num(math.Acosh(x)), nil
	case "arctanh":
		x, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		if x <= -1 || x >= 1 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"arctanh is only defined on (-1, 1)")
		}
		return result.Num(math.Atanh(x)), nil
	case "ln":
		return evalLog(arg, math.E)
	case "log":
		b := 10.0
		if hasBase {
			bv, err := base.AsNumber()
			if err != nil {
				return result.Result{}, err
			}
			b = bv
		}
		return evalLog(arg, b)
	case "abs":
		return e.evalAbs(&ast.Abs{Operand: n.Args[0]}, env)
	case "sqrt":
		return evalSqrt(arg, n.Optional, e, env)
	case "gcd", "lcm":
		if !hasBase {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"\\%s needs a second operand, supply it as a subscript: \\%s_{b}{a}", n.Name, n.Name)
		}
		a, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		b, err := base.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		if a != math.Trunc(a) || b != math.Trunc(b) {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"\\%s requires integer operands", n.Name)
		}
		if n.Name == "gcd" {
			return result.Num(float64(gcdInt(int64(a), int64(b)))), nil
		}
		return result.Num(float64(lcmInt(int64(a), int64(b)))), nil
	case "max", "min":
		if !hasBase {
			return arg, nil
		}
		a, err := arg.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		b, err := base.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		if (n.Name == "max") == (a >= b) {
			return result.Num(a), nil
		}
		return result.Num(b), nil
	case "det":
		m, err := arg.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		d, err := determinant(m)
		if err != nil {
			return result.Result{}, err
		}
		return collapseComplex(d), nil
	case "tr":
		m, err := arg.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		t, err := trace(m)
		if err != nil {
			return result.Result{}, err
		}
		return collapseComplex(t), nil
	case "inv":
		m, err := arg.AsMatrix()
		if err != nil {
			return result.Result{}, err
		}
		inv, err := inverse(m)
		if err != nil {
			return result.Result{}, err
		}
		return result.Mat(inv), nil
	case "cross":
		v, err := arg.AsVector()
		if err != nil {
			return result.Result{}, err
		}
		if !hasBase {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"\\cross requires a second vector, supply it as a subscript: \\cross_{w}{v}")
		}
		w, err := base.AsVector()
		if err != nil {
			return result.Result{}, err
		}
		return crossProduct(v, w)
	case "normalize":
		v, err := arg.AsVector()
		if err != nil {
			return result.Result{}, err
		}
		mag := vectorMagnitude(v)
		if mag == 0 {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"cannot normalize the zero vector")
		}
		out := make([]complex128, len(v.Components))
		for i, c := range v.Components {
			out[i] = c / complex(mag, 0)
		}
		return result.Vec(result.Vector{Components: out, Unit: v.Unit}), nil
	case "factorial":
		return evalFactorial(arg)
	case "subscript":
		// Produced by the parser's postfix subscript rule for bare
		// "a_i" notation; evaluated as an indexed lookup into a vector.
		return evalSubscript(n, e, env)
	}

	if fn, ok := builtins[n.Name]; ok {
		return fn(arg, base, hasBase)
	}

	if e.Extensions != nil {
		res, ok, err := e.Extensions.DispatchEvaluator(n, env, func(x ast.Expression) (result.Result, error) {
			return e.Eval(x, env)
		})
		if err != nil {
			return result.Result{}, err
		}
		if ok {
			return res, nil
		}
	}

	return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
		"unknown function \\%s", n.Name).WithSuggestion(texprerrors.Suggest(n.Name, knownFunctionNames()))
}

func knownFunctionNames() []string {
	names := make([]string, 0, len(builtins)+12)
	for name := range builtins {
		names = append(names, name)
	}
	for _, name := range []string{
		"arcsin", "arccos", "arctan", "arccot", "arcsec", "arccsc",
		"arcsinh", "arccosh", "arctanh", "ln", "log", "abs", "sqrt",
		"gcd", "lcm", "max", "min", "det", "tr", "inv", "cross", "normalize", "factorial",
	} {
		names = append(names, name)
	}
	return names
}

// evalFactorial extends to non-negative non-integers via the Gamma
// function (n! = Gamma(n+1)), matching \binom's generalised-coefficient
// treatment in numeric.go.
func evalFactorial(arg result.Result) (result.Result, error) {
	x, err := arg.AsNumber()
	if err != nil {
		return result.Result{}, err
	}
	if x < 0 {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"factorial is undefined for negative numbers")
	}
	if x == math.Trunc(x) && x < 171 {
		n := int(x)
		v := 1.0
		for i := 2; i <= n; i++ {
			v *= float64(i)
		}
		return result.Num(v), nil
	}
	return result.Num(math.Exp(lgammaSafe(x + 1))), nil
}

func evalInverseTrig(name string, arg result.Result) (result.Result, error) {
	x, err := arg.AsNumber()
	if err != nil {
		return result.Result{}, err
	}
	if x < -1 || x > 1 {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"\\%s is only defined on [-1, 1], got %g", name, x)
	}
	if name == "arcsin" {
		return result.Num(math.Asin(x)), nil
	}
	return result.Num(math.Acos(x)), nil
}

func evalLog(arg result.Result, base float64) (result.Result, error) {
	if arg.Tag == result.NumberTag && arg.Number > 0 {
		return result.Num(math.Log(arg.Number) / math.Log(base)), nil
	}
	c, err := arg.AsComplex()
	if err != nil {
		return result.Result{}, err
	}
	return collapseComplex(cmplx.Log(c) / complex(math.Log(base), 0)), nil
}

func evalSqrt(arg result.Result, optional ast.Expression, e *Evaluator, env *environment.Environment) (result.Result, error) {
	root := 2.0
	if optional != nil {
		v, err := e.Eval(optional, env)
		if err != nil {
			return result.Result{}, err
		}
		root, err = v.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
	}
	if arg.Tag == result.NumberTag && arg.Number >= 0 {
		return result.Num(math.Pow(arg.Number, 1/root)), nil
	}
	if arg.Tag == result.NumberTag && root == 2 {
		return collapseComplex(cmplx.Sqrt(complex(arg.Number, 0))), nil
	}
	c, err := arg.AsComplex()
	if err != nil {
		return result.Result{}, err
	}
	return collapseComplex(cmplx.Pow(c, complex(1/root, 0))), nil
}

func evalSubscript(n *ast.Call, e *Evaluator, env *environment.Environment) (result.Result, error) {
	base, err := e.Eval(n.Args[0], env)
	if err != nil {
		return result.Result{}, err
	}
	idxVal, err := e.Eval(n.Args[1], env)
	if err != nil {
		return result.Result{}, err
	}
	switch base.Tag {
	case result.VectorTag:
		idx, err := idxVal.AsNumber()
		if err != nil {
			return result.Result{}, err
		}
		i := int(idx)
		if i < 0 || i >= len(base.Vector.Components) {
			return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
				"vector subscript %d out of range", i)
		}
		return collapseComplex(base.Vector.Components[i]), nil
	default:
		// Most subscripted identifiers ("a_1", "x_i") are just part of
		// a longer variable name bound directly in the environment;
		// look up "<name>_<index>" as a single identifier.
		if nv, ok := n.Args[0].(*ast.Variable); ok {
			if iv, ok := n.Args[1].(*ast.Variable); ok {
				if v, found := env.Get(nv.Name + "_" + iv.Name); found {
					return v, nil
				}
			}
			if iv, ok := n.Args[1].(*ast.Number); ok {
				key := nv.Name + "_" + formatSubscript(iv.Value)
				if v, found := env.Get(key); found {
					return v, nil
				}
			}
		}
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"undefined subscripted identifier")
	}
}

func formatSubscript(v float64) string {
	if v == math.Trunc(v) {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
