// Package symbolic implements texpr's symbolic engine: normalization, a
// priority-ordered rewrite rule engine, polynomial operations, a
// differentiation visitor, and an equivalence checker.
//
// Rules are grouped by concern, one file per category
// (rules_identity.go, rules_simplify.go, rules_trig.go, rules_log.go)
// rather than one monolithic rule table.
package symbolic

import (
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
)

// Category classifies a Rule for selective enabling.
type Category int

const (
	Identity Category = iota
	Simplification
	Expansion
	Normalization
)

// Rule is one rewrite: matches reports applicability, apply performs the
// rewrite (only ever called when matches returned true).
type Rule struct {
	Name        string
	Category    Category
	Priority    int
	Description string
	Matches     func(e ast.Expression, env *environment.Environment) bool
	Apply       func(e ast.Expression, env *environment.Environment) ast.Expression
}

// hasAssumption reports whether env (which may be nil, meaning "no
// environment was supplied") declares every flag in want for name.
func hasAssumption(env *environment.Environment, name string, want environment.AssumptionSet) bool {
	if env == nil {
		return false
	}
	return env.Assumptions(name).Has(want)
}

// Step records one non-identity rewrite for simplify_with_steps et al.
type Step struct {
	Type        string
	Description string
	RuleName    string
	Before      string
	After       string
}

// MaxRuleIterations bounds the rewrite loop's fixed-point search so a
// cyclic or runaway rule set cannot hang simplification.
const MaxRuleIterations = 100
