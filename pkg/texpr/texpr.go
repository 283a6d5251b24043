// Package texpr is the single aggregating façade over the lexer, parser,
// evaluator, symbolic engine, and cache manager: an owned environment and
// owned caches behind a handful of public methods, configured through
// functional Options at construction time.
package texpr

import (
	"github.com/xirf/texpr/internal/command"
	texprerrors "github.com/xirf/texpr/internal/errors"
	"github.com/xirf/texpr/internal/lexer"
	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/cache"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/eval"
	"github.com/xirf/texpr/pkg/extensions"
	"github.com/xirf/texpr/pkg/parser"
	"github.com/xirf/texpr/pkg/result"
	"github.com/xirf/texpr/pkg/symbolic"
)

// Texpr aggregates the whole pipeline behind one façade. Two instances
// share nothing; one instance must not be used concurrently without
// external synchronisation.
type Texpr struct {
	registry   *command.Registry
	extensions *extensions.Registry
	env        *environment.Environment
	evaluator  *eval.Evaluator
	engine     *symbolic.Engine
	cache      *cache.Manager

	cachingEnabled         bool
	implicitMultiplication bool
	maxRecursionDepth      int
}

// Option configures a Texpr façade at construction time.
type Option func(*Texpr)

// WithExtensions installs a user-supplied tokenizer/evaluator extension
// registry.
func WithExtensions(r *extensions.Registry) Option {
	return func(t *Texpr) { t.extensions = r }
}

// WithCachingDisabled turns off every cache layer's consultation. The
// caches still exist, so ClearAllCaches/CacheStatistics remain callable;
// this only affects whether parse/evaluate consult them, preserving
// cache transparency (caching must never change a result, only its cost).
func WithCachingDisabled() Option {
	return func(t *Texpr) { t.cachingEnabled = false }
}

// WithMaxCacheInputLength overrides the L1 soft admission cap.
func WithMaxCacheInputLength(n int) Option {
	return func(t *Texpr) { t.cache.SetMaxCacheInputLength(n) }
}

// WithCacheSizes overrides the max size of the parsed/eval/derivative/
// sub-expression cache layers, in that order. A zero value leaves that
// layer's default size untouched.
func WithCacheSizes(parsed, eval, derivative, subExpr int) Option {
	return func(t *Texpr) {
		if parsed != 0 {
			t.cache.ResizeParsed(parsed)
		}
		if eval != 0 {
			t.cache.ResizeEval(eval)
		}
		if derivative != 0 {
			t.cache.ResizeDerivative(derivative)
		}
		if subExpr != 0 {
			t.cache.ResizeSubExpr(subExpr)
		}
	}
}

// WithEvictionPolicy sets the eviction policy on every cache layer.
func WithEvictionPolicy(p cache.Policy) Option {
	return func(t *Texpr) {
		t.cache.SetParsedPolicy(p)
		t.cache.SetEvalPolicy(p)
		t.cache.SetDerivativePolicy(p)
		t.cache.SetSubExprPolicy(p)
	}
}

// WithStatistics turns hit/miss/eviction tracking on or off for every
// cache layer.
func WithStatistics(enabled bool) Option {
	return func(t *Texpr) { t.cache.EnableStatistics(enabled) }
}

// WithImplicitMultiplication toggles the lexer's single-character
// identifier multiplication rule (default true).
func WithImplicitMultiplication(enabled bool) Option {
	return func(t *Texpr) { t.implicitMultiplication = enabled }
}

// WithMaxRecursionDepth overrides the parser's recursion cap.
func WithMaxRecursionDepth(n int) Option {
	return func(t *Texpr) { t.maxRecursionDepth = n }
}

// New builds a Texpr façade with its own global environment and caches.
func New(opts ...Option) *Texpr {
	ext := extensions.New()
	t := &Texpr{
		registry:               command.NewRegistry(),
		extensions:             ext,
		env:                    environment.New(),
		cache:                  cache.NewManager(),
		cachingEnabled:         true,
		implicitMultiplication: true,
		maxRecursionDepth:      parser.DefaultMaxRecursionDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.evaluator = &eval.Evaluator{Extensions: t.extensions}
	t.engine = symbolic.NewEngine()
	t.evaluator.Differentiator = t.engine
	return t
}

// Parse tokenizes and parses source into an AST, consulting and
// populating the L1 cache when caching is enabled.
func (t *Texpr) Parse(source string) (ast.Expression, error) {
	if t.cachingEnabled {
		if cached, ok := t.cache.GetParsed(source); ok {
			return cached, nil
		}
	}
	toks, err := lexer.New(source, t.registry,
		lexer.WithExtensionLookup(t.extensions.LookupTokenizer),
		lexer.WithImplicitMultiplication(t.implicitMultiplication),
	).Tokenize()
	if err != nil {
		return nil, err
	}
	expr, err := parser.New(toks, source, t.registry, parser.WithMaxRecursionDepth(t.maxRecursionDepth)).Parse()
	if err != nil {
		return nil, err
	}
	if t.cachingEnabled {
		t.cache.SetParsed(source, expr)
	}
	return expr, nil
}

// astOrString accepts either an already-parsed AST or a source string, the
// common parameter shape for the symbolic methods (differentiate,
// integrate, simplify, ...) that can operate on either.
func (t *Texpr) astOrString(v interface{}) (ast.Expression, error) {
	switch x := v.(type) {
	case ast.Expression:
		return x, nil
	case string:
		return t.Parse(x)
	default:
		return nil, texprerrors.NewWithoutPosition(texprerrors.Parser, "expected an AST or a source string")
	}
}

// Evaluate parses (if needed) and evaluates source against bindings,
// persisting any top-level assignment or function definition into the
// global environment. A nil bindings map evaluates against the global
// environment directly.
func (t *Texpr) Evaluate(source string, bindings map[string]result.Result) (result.Result, error) {
	expr, err := t.Parse(source)
	if err != nil {
		return result.Result{}, err
	}
	return t.EvaluateParsed(expr, bindings)
}

// EvaluateParsed is Evaluate for an already-parsed AST.
func (t *Texpr) EvaluateParsed(expr ast.Expression, bindings map[string]result.Result) (result.Result, error) {
	scope := t.scopeFor(bindings)

	if t.cachingEnabled && cache.ShouldConsultEval(expr, scope) {
		if cached, ok := t.cache.GetEval(expr, scope); ok {
			return cached, nil
		}
	}

	res, err := t.evaluator.Eval(expr, scope)
	if err != nil {
		return result.Result{}, err
	}

	if t.cachingEnabled && cache.ShouldConsultEval(expr, scope) {
		t.cache.SetEval(expr, scope, res)
	}
	return res, nil
}

// scopeFor builds the per-call environment: a nil or empty bindings map
// means "evaluate directly against global" (so assignments persist); a
// non-empty bindings map becomes a child scope shadowing global.
func (t *Texpr) scopeFor(bindings map[string]result.Result) *environment.Environment {
	if len(bindings) == 0 {
		return t.env
	}
	scope := t.env.Child()
	for k, v := range bindings {
		scope.Set(k, v)
	}
	return scope
}

// EvaluateNumeric evaluates source and coerces the result to a real number.
func (t *Texpr) EvaluateNumeric(source string, bindings map[string]result.Result) (float64, error) {
	res, err := t.Evaluate(source, bindings)
	if err != nil {
		return 0, err
	}
	return res.AsNumber()
}

// EvaluateMatrix evaluates source and coerces the result to a matrix.
func (t *Texpr) EvaluateMatrix(source string, bindings map[string]result.Result) (result.Matrix, error) {
	res, err := t.Evaluate(source, bindings)
	if err != nil {
		return result.Matrix{}, err
	}
	return res.AsMatrix()
}

// EvaluateVector evaluates source and coerces the result to a vector.
func (t *Texpr) EvaluateVector(source string, bindings map[string]result.Result) (result.Vector, error) {
	res, err := t.Evaluate(source, bindings)
	if err != nil {
		return result.Vector{}, err
	}
	return res.AsVector()
}

// IsValid is a boolean wrapper over Validate.
func (t *Texpr) IsValid(source string) bool {
	return t.Validate(source).Valid
}

// ValidationResult is validate's result: the parse outcome plus, in
// strict mode, every recoverable sub-error found.
type ValidationResult struct {
	Valid  bool
	Errors []*texprerrors.Error
}

// Validate parses source in strict (error-recovering) mode and collects
// every sub-error found.
func (t *Texpr) Validate(source string) ValidationResult {
	toks, err := lexer.New(source, t.registry,
		lexer.WithExtensionLookup(t.extensions.LookupTokenizer),
		lexer.WithImplicitMultiplication(t.implicitMultiplication),
	).Tokenize()
	if err != nil {
		if te, ok := err.(*texprerrors.Error); ok {
			return ValidationResult{Valid: false, Errors: []*texprerrors.Error{te}}
		}
		return ValidationResult{Valid: false, Errors: []*texprerrors.Error{texprerrors.NewWithoutPosition(texprerrors.Tokenizer, "%v", err)}}
	}
	_, errs := parser.New(toks, source, t.registry,
		parser.WithStrictMode(true),
		parser.WithMaxRecursionDepth(t.maxRecursionDepth),
	).ParseStrict()
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Differentiate computes the order-th derivative of astOrSource with
// respect to variable, cached by (AST identity, variable, order).
func (t *Texpr) Differentiate(astOrSource interface{}, variable string, order int) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	if t.cachingEnabled {
		if cached, ok := t.cache.GetDerivative(expr, variable, order); ok {
			return cached, nil
		}
	}
	deriv, err := t.engine.Differentiate(expr, variable, order)
	if err != nil {
		return nil, err
	}
	if t.cachingEnabled {
		t.cache.SetDerivative(expr, variable, order, deriv)
	}
	return deriv, nil
}

// DifferentiateWithSteps is Differentiate plus the rule-engine step
// trace recorded while simplifying the raw derivative.
func (t *Texpr) DifferentiateWithSteps(astOrSource interface{}, variable string, order int) (ast.Expression, []symbolic.Step, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, nil, err
	}
	cur := expr
	var allSteps []symbolic.Step
	for i := 0; i < order; i++ {
		raw, err := t.engine.DifferentiateOnce(cur, variable)
		if err != nil {
			return nil, nil, err
		}
		simplified, steps := t.engine.SimplifyWithSteps(raw, t.env)
		allSteps = append(allSteps, steps...)
		cur = simplified
	}
	return cur, allSteps, nil
}

// Integrate returns the indefinite antiderivative of astOrSource with
// respect to variable when the symbolic rules resolve one, falling back
// to an unresolved Integral node otherwise.
func (t *Texpr) Integrate(astOrSource interface{}, variable string) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	if resolved, ok := symbolic.Antiderivative(expr, variable); ok {
		return t.engine.Simplify(resolved, t.env), nil
	}
	return &ast.Integral{Body: expr, Var: variable}, nil
}

// Simplify runs the rule engine over astOrSource with every category enabled.
func (t *Texpr) Simplify(astOrSource interface{}) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	if t.cachingEnabled {
		if cached, ok := t.cache.GetSubExpr(expr); ok {
			return cached, nil
		}
	}
	out := t.engine.Simplify(expr, t.env)
	if t.cachingEnabled {
		t.cache.SetSubExpr(expr, out)
	}
	return out, nil
}

// SimplifyWithSteps is Simplify plus a recorded rewrite trace.
func (t *Texpr) SimplifyWithSteps(astOrSource interface{}) (ast.Expression, []symbolic.Step, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, nil, err
	}
	out, steps := t.engine.SimplifyWithSteps(expr, t.env)
	return out, steps, nil
}

// Expand applies binomial/FOIL polynomial expansion.
func (t *Texpr) Expand(astOrSource interface{}) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	return t.engine.Expand(expr), nil
}

// ExpandWithSteps is Expand plus a step trace.
func (t *Texpr) ExpandWithSteps(astOrSource interface{}) (ast.Expression, []symbolic.Step, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, nil, err
	}
	out, steps := t.engine.ExpandWithSteps(expr)
	return out, steps, nil
}

// Factor applies difference-of-squares and monic-quadratic factoring.
func (t *Texpr) Factor(astOrSource interface{}) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	return t.engine.Factor(expr), nil
}

// FactorWithSteps is Factor plus a step trace.
func (t *Texpr) FactorWithSteps(astOrSource interface{}) (ast.Expression, []symbolic.Step, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, nil, err
	}
	out, steps := t.engine.FactorWithSteps(expr)
	return out, steps, nil
}

// SolveLinear solves astOrSource = 0 for variable.
func (t *Texpr) SolveLinear(astOrSource interface{}, variable string) (ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	return t.engine.SolveLinear(expr, variable)
}

// SolveQuadratic solves astOrSource = 0 for variable, returning 0, 1, or
// 2 roots depending on the discriminant.
func (t *Texpr) SolveQuadratic(astOrSource interface{}, variable string) ([]ast.Expression, error) {
	expr, err := t.astOrString(astOrSource)
	if err != nil {
		return nil, err
	}
	return t.engine.SolveQuadratic(expr, variable)
}

// Equivalent checks two expressions for structural, algebraic, or
// numeric equivalence.
func (t *Texpr) Equivalent(aSrc, bSrc interface{}) (symbolic.EquivalenceLevel, error) {
	a, err := t.astOrString(aSrc)
	if err != nil {
		return symbolic.NotEquivalent, err
	}
	b, err := t.astOrString(bSrc)
	if err != nil {
		return symbolic.NotEquivalent, err
	}
	return t.engine.Equivalent(a, b, t.env, t.evaluator)
}

// WarmUp parses and caches every expression in sources without
// evaluating them, priming the L1 layer.
func (t *Texpr) WarmUp(sources []string) {
	for _, s := range sources {
		_, _ = t.Parse(s)
	}
}

// ClearAllCaches empties every cache layer.
func (t *Texpr) ClearAllCaches() { t.cache.ClearAll() }

// CacheStatistics returns a snapshot of every layer's hit/miss/eviction
// counters.
func (t *Texpr) CacheStatistics() cache.Statistics { return t.cache.Statistics() }

// ClearEnvironment drops every global assignment and function
// definition, and clears declared assumptions.
func (t *Texpr) ClearEnvironment() { t.env.Clear() }

// Assume declares an assumption flag set for a free variable, consulted
// by the symbolic engine's log-law rule.
func (t *Texpr) Assume(name string, flags environment.AssumptionSet) { t.env.Assume(name, flags) }
