package eval

import (
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// callClosure applies a user-defined function value to args, evaluating
// its body in a fresh scope chained off the environment it was defined
// in: the closure captures its defining environment by reference, not by
// value, so later assignments in an enclosing scope are visible to it.
//
// result.Closure.Env is typed as the narrow result.Env interface to keep
// pkg/result free of an import on pkg/environment; in practice every
// Closure built by evalFunctionDefinition carries a live
// *environment.Environment, so the assertion below always succeeds.
func (e *Evaluator) callClosure(c result.Closure, args []result.Result) (result.Result, error) {
	defining, ok := c.Env.(*environment.Environment)
	if !ok {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"closure has no evaluable defining environment")
	}
	if len(args) != len(c.Params) {
		return result.Result{}, texprerrors.NewWithoutPosition(texprerrors.Evaluator,
			"function expects %d argument(s), got %d", len(c.Params), len(args))
	}
	scope := defining.Child()
	for i, p := range c.Params {
		scope.Set(p, args[i])
	}
	return e.Eval(c.Body, scope)
}
