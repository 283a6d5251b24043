// Package extensions implements the user-extensible fallback registries: a
// tokenizer-name table consulted by the lexer when the built-in command
// registry misses, and an ordered list of evaluator handlers consulted
// when the core evaluator cannot dispatch a Call.
package extensions

import (
	"github.com/xirf/texpr/internal/token"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// TokenizerHandler resolves a command name the built-in registry does not
// recognise to a token kind and canonical function name.
type TokenizerHandler func(name string) (token.Kind, string, bool)

// EvalSub is the callback an EvaluatorHandler uses to evaluate its own
// sub-expressions against the same environment.
type EvalSub func(ast.Expression) (result.Result, error)

// EvaluatorHandler is consulted, in registration order, when the core
// evaluator encounters a Call it cannot otherwise dispatch. Returning
// ok=false lets the next handler (or the final "unknown function" error)
// take over.
type EvaluatorHandler func(call *ast.Call, env *environment.Environment, eval EvalSub) (res result.Result, ok bool, err error)

// Registry holds user-registered tokenizer and evaluator extensions.
type Registry struct {
	tokenizers map[string]TokenizerHandler
	evaluators []EvaluatorHandler
}

// New creates an empty extension registry.
func New() *Registry {
	return &Registry{tokenizers: make(map[string]TokenizerHandler)}
}

// RegisterTokenizer installs a handler for the backslashed command name.
func (r *Registry) RegisterTokenizer(name string, h TokenizerHandler) {
	r.tokenizers[name] = h
}

// RegisterEvaluator appends an evaluator handler, consulted after
// previously registered handlers.
func (r *Registry) RegisterEvaluator(h EvaluatorHandler) {
	r.evaluators = append(r.evaluators, h)
}

// LookupTokenizer implements the lexer.Option WithExtensionLookup signature.
func (r *Registry) LookupTokenizer(name string) (token.Kind, string, bool) {
	h, ok := r.tokenizers[name]
	if !ok {
		return 0, "", false
	}
	return h(name)
}

// DispatchEvaluator tries each registered evaluator handler in order,
// returning the first one that accepts the call.
func (r *Registry) DispatchEvaluator(call *ast.Call, env *environment.Environment, eval EvalSub) (result.Result, bool, error) {
	for _, h := range r.evaluators {
		if res, ok, err := h(call, env, eval); ok || err != nil {
			return res, ok, err
		}
	}
	return result.Result{}, false, nil
}
