package cache

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xirf/texpr/pkg/ast"
	"github.com/xirf/texpr/pkg/environment"
	"github.com/xirf/texpr/pkg/result"
)

// Default sizes for each cache layer.
const (
	DefaultParsedSize     = 128
	DefaultEvalSize       = 256
	DefaultDerivativeSize = 64
	DefaultSubExprSize    = 512

	// DefaultMaxCacheInputLength is the soft L1 admission cap; oversize
	// inputs still parse, they just aren't cached.
	DefaultMaxCacheInputLength = 8192
)

type evalKey struct {
	astID        uint64
	bindingsHash uint64
}

type derivativeKey struct {
	astID uint64
	var_  string
	order int
}

// Manager aggregates the four bounded cache layers: parsed ASTs,
// evaluation results, derivatives, and simplified sub-expressions. One
// Manager belongs to exactly one façade instance.
type Manager struct {
	parsed     *boundedCache[string, ast.Expression]
	eval       *boundedCache[evalKey, result.Result]
	derivative *boundedCache[derivativeKey, ast.Expression]
	subExpr    *boundedCache[string, ast.Expression]

	maxCacheInputLength int
}

// NewManager builds a Manager with default sizes and LRU eviction on
// every layer.
func NewManager() *Manager {
	return &Manager{
		parsed:              newBoundedCache[string, ast.Expression](DefaultParsedSize, LRU),
		eval:                newBoundedCache[evalKey, result.Result](DefaultEvalSize, LRU),
		derivative:          newBoundedCache[derivativeKey, ast.Expression](DefaultDerivativeSize, LRU),
		subExpr:             newBoundedCache[string, ast.Expression](DefaultSubExprSize, LRU),
		maxCacheInputLength: DefaultMaxCacheInputLength,
	}
}

// SetMaxCacheInputLength overrides the soft L1 admission cap.
func (m *Manager) SetMaxCacheInputLength(n int) { m.maxCacheInputLength = n }

// SetParsedPolicy, SetEvalPolicy, SetDerivativePolicy, SetSubExprPolicy
// change a layer's eviction policy, re-evicting against the (unchanged)
// size immediately.
func (m *Manager) SetParsedPolicy(p Policy)     { m.parsed.SetPolicy(p) }
func (m *Manager) SetEvalPolicy(p Policy)       { m.eval.SetPolicy(p) }
func (m *Manager) SetDerivativePolicy(p Policy) { m.derivative.SetPolicy(p) }
func (m *Manager) SetSubExprPolicy(p Policy)    { m.subExpr.SetPolicy(p) }

// ResizeParsed, ResizeEval, ResizeDerivative, ResizeSubExpr change a
// layer's max size, triggering eviction to the new size if it shrank.
func (m *Manager) ResizeParsed(n int)     { m.parsed.Resize(n) }
func (m *Manager) ResizeEval(n int)       { m.eval.Resize(n) }
func (m *Manager) ResizeDerivative(n int) { m.derivative.Resize(n) }
func (m *Manager) ResizeSubExpr(n int)    { m.subExpr.Resize(n) }

// EnableStatistics turns hit/miss/eviction tracking on or off for every
// layer at once.
func (m *Manager) EnableStatistics(enabled bool) {
	m.parsed.EnableStatistics(enabled)
	m.eval.EnableStatistics(enabled)
	m.derivative.EnableStatistics(enabled)
	m.subExpr.EnableStatistics(enabled)
}

// Statistics is a snapshot of all four layers' Stats, keyed by layer name.
type Statistics struct {
	Parsed     Stats
	Eval       Stats
	Derivative Stats
	SubExpr    Stats
}

func (m *Manager) Statistics() Statistics {
	return Statistics{
		Parsed:     m.parsed.Stats(),
		Eval:       m.eval.Stats(),
		Derivative: m.derivative.Stats(),
		SubExpr:    m.subExpr.Stats(),
	}
}

// ClearAll empties every layer without changing configuration.
func (m *Manager) ClearAll() {
	m.parsed.Clear()
	m.eval.Clear()
	m.derivative.Clear()
	m.subExpr.Clear()
}

// GetParsed/SetParsed back the L1 layer, keyed by source text. Oversize
// sources (beyond maxCacheInputLength) are silently not cached; they
// still parse normally through the non-cached path.
func (m *Manager) GetParsed(source string) (ast.Expression, bool) {
	if len(source) > m.maxCacheInputLength {
		return nil, false
	}
	return m.parsed.Get(source)
}

func (m *Manager) SetParsed(source string, expr ast.Expression) {
	if len(source) > m.maxCacheInputLength {
		return
	}
	m.parsed.Set(source, expr)
}

// IsCostly reports whether expr is expensive enough to be worth an L2
// lookup: integral, sum, product, limit, or a matrix with more than 4
// rows.
func IsCostly(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.Integral, *ast.MultiIntegral, *ast.Sum, *ast.Product, *ast.Limit:
		return true
	case *ast.Matrix:
		return len(n.Rows) > 4
	default:
		return false
	}
}

// GetEval/SetEval back the L2 layer. Callers are expected to consult
// IsCostly (or an empty environment) before paying the lookup cost.
func (m *Manager) GetEval(expr ast.Expression, env *environment.Environment) (result.Result, bool) {
	return m.eval.Get(evalKey{astID: expr.Hash(), bindingsHash: hashBindings(env)})
}

func (m *Manager) SetEval(expr ast.Expression, env *environment.Environment, res result.Result) {
	m.eval.Set(evalKey{astID: expr.Hash(), bindingsHash: hashBindings(env)}, res)
}

// ShouldConsultEval reports whether an L2 lookup is worth attempting: only
// for costly expressions, or when the bindings set is empty.
func ShouldConsultEval(expr ast.Expression, env *environment.Environment) bool {
	return IsCostly(expr) || env == nil || env.IsEmpty()
}

// hashBindings combines every (name, value) binding visible in env into
// one order-independent hash, so two environments with the same bindings
// set collapse to the same key regardless of insertion order, and two
// environments that differ in even one binding produce different keys.
func hashBindings(env *environment.Environment) uint64 {
	if env == nil {
		return 0
	}
	names := append([]string(nil), env.Names()...)
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		v, _ := env.Get(name)
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(v.String())
		sb.WriteByte(';')
	}
	return fnv64(sb.String())
}

func fnv64(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// GetDerivative/SetDerivative back the L3 layer, keyed by (AST identity,
// variable, order).
func (m *Manager) GetDerivative(expr ast.Expression, variable string, order int) (ast.Expression, bool) {
	return m.derivative.Get(derivativeKey{astID: expr.Hash(), var_: variable, order: order})
}

func (m *Manager) SetDerivative(expr ast.Expression, variable string, order int, deriv ast.Expression) {
	m.derivative.Set(derivativeKey{astID: expr.Hash(), var_: variable, order: order}, deriv)
}

// GetSubExpr/SetSubExpr back the L4 layer, keyed by the sub-expression's
// own rendered LaTeX, which is stable across re-derivations of the same
// normalized/simplified form.
func (m *Manager) GetSubExpr(expr ast.Expression) (ast.Expression, bool) {
	return m.subExpr.Get(subExprKey(expr))
}

func (m *Manager) SetSubExpr(expr, simplified ast.Expression) {
	m.subExpr.Set(subExprKey(expr), simplified)
}

func subExprKey(expr ast.Expression) string {
	return strconv.FormatUint(expr.Hash(), 36) + ":" + expr.ToLatex()
}
