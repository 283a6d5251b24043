package symbolic

import (
	"sort"

	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
)

// Engine aggregates the symbolic components: rule-based simplification,
// polynomial expand/factor, differentiation and equivalence checking.
type Engine struct {
	rules []Rule
}

// NewEngine builds an Engine with the built-in rule set.
func NewEngine() *Engine {
	e := &Engine{}
	e.rules = append(e.rules, identityRules()...)
	e.rules = append(e.rules, simplificationRules()...)
	e.rules = append(e.rules, trigRules()...)
	e.rules = append(e.rules, logRules()...)
	sort.SliceStable(e.rules, func(i, j int) bool { return e.rules[i].Priority > e.rules[j].Priority })
	return e
}

// Simplify runs the rule engine with every category enabled.
func (e *Engine) Simplify(expr ast.Expression, env *environment.Environment) ast.Expression {
	out, _ := e.rewrite(expr, env, nil, nil)
	return out
}

// SimplifyWithSteps is Simplify plus a recorded trace of every non-identity rewrite.
func (e *Engine) SimplifyWithSteps(expr ast.Expression, env *environment.Environment) (ast.Expression, []Step) {
	var steps []Step
	out, _ := e.rewrite(expr, env, nil, &steps)
	return out, steps
}

func categoryEnabled(enabled map[Category]bool, c Category) bool {
	if enabled == nil {
		return true
	}
	return enabled[c]
}

// rewrite performs repeated bottom-up passes: simplify every child first,
// then try rules in descending priority, restarting the pass whenever a
// rule fires, up to MaxRuleIterations.
func (e *Engine) rewrite(expr ast.Expression, env *environment.Environment, enabled map[Category]bool, steps *[]Step) (ast.Expression, bool) {
	current := Normalize(expr)
	changed := false
	for iter := 0; iter < MaxRuleIterations; iter++ {
		current = e.simplifyChildren(current, env, enabled, steps)

		fired := false
		for _, rule := range e.rules {
			if !categoryEnabled(enabled, rule.Category) {
				continue
			}
			if !rule.Matches(current, env) {
				continue
			}
			next := rule.Apply(current, env)
			if next == nil || next.Equal(current) {
				continue
			}
			if steps != nil && rule.Category != Identity {
				*steps = append(*steps, Step{
					Type: "rewrite", Description: rule.Description, RuleName: rule.Name,
					Before: current.ToLatex(), After: next.ToLatex(),
				})
			}
			current = next
			fired = true
			changed = true
			break
		}
		if !fired {
			break
		}
	}
	return current, changed
}

// simplifyChildren recurses into each node's sub-expressions, simplifying
// them before the parent's own rules are tried.
func (e *Engine) simplifyChildren(n ast.Expression, env *environment.Environment, enabled map[Category]bool, steps *[]Step) ast.Expression {
	rec := func(x ast.Expression) ast.Expression {
		if x == nil {
			return nil
		}
		out, _ := e.rewrite(x, env, enabled, steps)
		return out
	}
	switch v := n.(type) {
	case *ast.Binary:
		return &ast.Binary{Left: rec(v.Left), Right: rec(v.Right), Op: v.Op}
	case *ast.Unary:
		return &ast.Unary{Operand: rec(v.Operand)}
	case *ast.Call:
		return &ast.Call{Name: v.Name, Args: recAll(rec, v.Args), Base: rec(v.Base), Optional: rec(v.Optional)}
	case *ast.Abs:
		return &ast.Abs{Operand: rec(v.Operand)}
	case *ast.Binom:
		return &ast.Binom{N: rec(v.N), K: rec(v.K)}
	default:
		return n
	}
}

func recAll(rec func(ast.Expression) ast.Expression, es []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(es))
	for i, x := range es {
		out[i] = rec(x)
	}
	return out
}
