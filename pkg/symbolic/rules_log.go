package symbolic

import (
	"math"

	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
)

// isLogCall reports whether e is \ln{x} or \log_{b}{x} (b defaulting to
// 10, tracked on Call.Base per the parser's convention), returning the
// argument and an ast.Expression for the base (nil for \ln, meaning e).
func isLogCall(e ast.Expression) (arg ast.Expression, base ast.Expression, isLn bool, ok bool) {
	c, ok2 := e.(*ast.Call)
	if !ok2 || len(c.Args) != 1 {
		return nil, nil, false, false
	}
	switch c.Name {
	case "ln":
		return c.Args[0], nil, true, true
	case "log":
		return c.Args[0], c.Base, false, true
	default:
		return nil, nil, false, false
	}
}

func mkLog(arg, base ast.Expression, isLn bool) ast.Expression {
	if isLn {
		return &ast.Call{Name: "ln", Args: []ast.Expression{arg}}
	}
	return &ast.Call{Name: "log", Args: []ast.Expression{arg}, Base: base}
}

// logRules covers the standard log laws: log(1) -> 0, log(ab) -> log(a) +
// log(b), log(a/b) -> log(a) - log(b), and log(a^b) -> b*log(a) guarded by
// a positivity or even-power assumption.
func logRules() []Rule {
	return []Rule{
		{
			Name: "log-one", Category: Identity, Priority: 90,
			Description: "log(1) -> 0",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, _, _, ok := isLogCall(e)
				if !ok {
					return false
				}
				v, nok := asNumber(arg)
				return nok && v == 1
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression { return &ast.Number{Value: 0} },
		},
		{
			Name: "log-product", Category: Expansion, Priority: 55,
			Description: "log(a*b) -> log(a) + log(b)",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, _, _, ok := isLogCall(e)
				if !ok {
					return false
				}
				_, ok = isBinary(arg, ast.Mul)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, base, isLn, _ := isLogCall(e)
				m := arg.(*ast.Binary)
				return &ast.Binary{Left: mkLog(m.Left, base, isLn), Right: mkLog(m.Right, base, isLn), Op: ast.Add}
			},
		},
		{
			Name: "log-quotient", Category: Expansion, Priority: 55,
			Description: "log(a/b) -> log(a) - log(b)",
			Matches: func(e ast.Expression, _ *environment.Environment) bool {
				arg, _, _, ok := isLogCall(e)
				if !ok {
					return false
				}
				_, ok = isBinary(arg, ast.Div)
				return ok
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, base, isLn, _ := isLogCall(e)
				d := arg.(*ast.Binary)
				return &ast.Binary{Left: mkLog(d.Left, base, isLn), Right: mkLog(d.Right, base, isLn), Op: ast.Sub}
			},
		},
		{
			Name: "log-power", Category: Expansion, Priority: 55,
			Description: "log(a^b) -> b*log(a) when a is assumed positive or b is an even integer",
			Matches: func(e ast.Expression, env *environment.Environment) bool {
				arg, _, _, ok := isLogCall(e)
				if !ok {
					return false
				}
				base, exp, ok := asPow(arg)
				if !ok {
					return false
				}
				if v, isVar := base.(*ast.Variable); isVar && hasAssumption(env, v.Name, environment.Positive) {
					return true
				}
				return math.Mod(exp, 2) == 0
			},
			Apply: func(e ast.Expression, _ *environment.Environment) ast.Expression {
				arg, base, isLn, _ := isLogCall(e)
				powBase, exp, _ := asPow(arg)
				return &ast.Binary{Left: &ast.Number{Value: exp}, Right: mkLog(powBase, base, isLn), Op: ast.Mul}
			},
		},
	}
}
