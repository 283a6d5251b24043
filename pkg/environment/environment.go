// Package environment implements the identifier-to-value mapping used by
// the evaluator: a persistent "global" environment owned by the façade,
// plus per-call shadowing scopes.
package environment

import "github.com/xirf/texpr/pkg/result"

// Environment is a mapping from identifier to value, optionally chained
// to a parent for lexical shadowing.
type Environment struct {
	parent      *Environment
	bindings    map[string]result.Result
	assumptions map[string]AssumptionSet
}

// New creates a root environment with no parent.
func New() *Environment {
	return &Environment{bindings: make(map[string]result.Result)}
}

// Child creates a scratch scope that shadows e without mutating it.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, bindings: make(map[string]result.Result)}
}

// Get resolves name, walking up through parent scopes. Implements
// result.Env so Closures can be evaluated against the environment they
// captured.
func (e *Environment) Get(name string) (result.Result, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return result.Result{}, false
}

// Set binds name in this scope (not the parent), used for `let` and
// function-parameter binding.
func (e *Environment) Set(name string, v result.Result) {
	e.bindings[name] = v
}

// IsEmpty reports whether this scope has no bindings of its own. Used by
// the façade: a scratch bindings map that the caller passed in empty is
// treated as *being* the global scope, so a top-level `let` inside it
// persists.
func (e *Environment) IsEmpty() bool { return len(e.bindings) == 0 }

// Names returns the bindings map's keys directly owned by this scope
// (not walking parents), used for diagnostics.
func (e *Environment) Names() []string {
	out := make([]string, 0, len(e.bindings))
	for k := range e.bindings {
		out = append(out, k)
	}
	return out
}

// AssumptionSet is a bitmask of declared properties of a free variable.
// It is consulted by the symbolic rule engine's log-power rule; factoring
// takes no environment and does not read it.
type AssumptionSet uint8

const (
	Positive AssumptionSet = 1 << iota
	Negative
	Real
	Integer
	NonZero
)

// Has reports whether every flag in want is set.
func (a AssumptionSet) Has(want AssumptionSet) bool { return a&want == want }

// Assume records assumption flags for name in the global scope (assumptions
// are not scope-chained; they describe the variable itself, not a binding).
func (e *Environment) Assume(name string, flags AssumptionSet) {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	if root.assumptions == nil {
		root.assumptions = make(map[string]AssumptionSet)
	}
	root.assumptions[name] |= flags
}

// Assumptions returns the assumption flags declared for name, walking to
// the root scope where assumptions live.
func (e *Environment) Assumptions(name string) AssumptionSet {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root.assumptions[name]
}

// Clear removes all bindings from this scope (used by the façade's
// clear_environment). Assumptions are cleared too.
func (e *Environment) Clear() {
	e.bindings = make(map[string]result.Result)
	e.assumptions = nil
}
