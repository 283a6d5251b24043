// Package command holds the closed catalogue of LaTeX command names the
// lexer recognises, the Unicode-to-command normalisation table, and the
// alias table consulted when producing "did you mean" suggestions. Each
// category lives in its own static map rather than one combined table.
package command

import "github.com/xirf/texpr/internal/token"

// Entry describes what a recognised command name lexes to.
type Entry struct {
	Kind     token.Kind
	FuncName string // set for FUNCTION entries; canonical name used by eval/symbolic
	Ignored  bool   // \left, \right, \big, ... are dropped silently
	Font     bool   // \mathbf, \mathrm, ... dropped, inner braced arg kept
}

// Registry maps a command name (without the leading backslash) to an Entry.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds the built-in command registry: constants and Greek
// letters, structural commands, operators, functions, font commands and
// ignored sizing commands. Environment names are classified separately,
// by LookupEnvironment.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry, 192)}
	r.registerConstants()
	r.registerStructural()
	r.registerOperatorsAndRelations()
	r.registerFunctions()
	r.registerDecorationsAndFonts()
	r.registerEnvironmentsAndIgnored()
	return r
}

func (r *Registry) add(name string, e Entry) { r.entries[name] = e }

func (r *Registry) registerConstants() {
	r.add("pi", Entry{Kind: token.CONSTANT, FuncName: "pi"})
	r.add("tau", Entry{Kind: token.CONSTANT, FuncName: "tau"})
	r.add("phi", Entry{Kind: token.CONSTANT, FuncName: "phi"})
	r.add("infty", Entry{Kind: token.INFINITY, FuncName: "infty"})
	for _, greek := range []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
		"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "rho", "sigma",
		"upsilon", "chi", "psi", "omega",
		"Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma", "Upsilon",
		"Phi", "Psi", "Omega",
	} {
		r.add(greek, Entry{Kind: token.VARIABLE})
	}
}

func (r *Registry) registerStructural() {
	r.add("frac", Entry{Kind: token.FRAC})
	r.add("binom", Entry{Kind: token.BINOM})
	r.add("sqrt", Entry{Kind: token.SQRT})
	r.add("lim", Entry{Kind: token.LIM})
	r.add("sum", Entry{Kind: token.SUM})
	r.add("prod", Entry{Kind: token.PROD})
	r.add("int", Entry{Kind: token.INT})
	r.add("iint", Entry{Kind: token.IINT})
	r.add("iiint", Entry{Kind: token.IIINT})
	r.add("oint", Entry{Kind: token.OINT})
	r.add("partial", Entry{Kind: token.PARTIAL})
	r.add("nabla", Entry{Kind: token.NABLA})
	r.add("begin", Entry{Kind: token.BEGIN})
	r.add("end", Entry{Kind: token.END})
	r.add("text", Entry{Kind: token.TEXT})
	r.add("to", Entry{Kind: token.TO})
	r.add("rightarrow", Entry{Kind: token.TO})
	r.add("mapsto", Entry{Kind: token.ARROW})
	r.add("Rightarrow", Entry{Kind: token.ARROW})
	r.add("Leftarrow", Entry{Kind: token.ARROW})
	r.add("Leftrightarrow", Entry{Kind: token.ARROW})
}

func (r *Registry) registerOperatorsAndRelations() {
	r.add("times", Entry{Kind: token.TIMES})
	r.add("cdot", Entry{Kind: token.TIMES})
	r.add("div", Entry{Kind: token.DIVIDE})
	r.add("leq", Entry{Kind: token.LEQ})
	r.add("geq", Entry{Kind: token.GEQ})
	r.add("neq", Entry{Kind: token.NEQ})
	r.add("approx", Entry{Kind: token.APPROX})
	r.add("propto", Entry{Kind: token.APPROX})
	r.add("in", Entry{Kind: token.MEMBER})
	r.add("cup", Entry{Kind: token.FUNCTION, FuncName: "union"})
	r.add("cap", Entry{Kind: token.FUNCTION, FuncName: "intersect"})
	r.add("setminus", Entry{Kind: token.FUNCTION, FuncName: "setminus"})
	r.add("subset", Entry{Kind: token.LESS})
	r.add("subseteq", Entry{Kind: token.LEQ})
	r.add("supset", Entry{Kind: token.GREATER})
	r.add("supseteq", Entry{Kind: token.GEQ})
	r.add("forall", Entry{Kind: token.VARIABLE})
	r.add("exists", Entry{Kind: token.VARIABLE})
	r.add("langle", Entry{Kind: token.LANGLE})
	r.add("rangle", Entry{Kind: token.RANGLE})
	r.add("land", Entry{Kind: token.BOOL_AND})
	r.add("lor", Entry{Kind: token.BOOL_OR})
	r.add("lnot", Entry{Kind: token.BOOL_NOT})
	r.add("neg", Entry{Kind: token.BOOL_NOT})
	r.add("oplus", Entry{Kind: token.BOOL_XOR})
}

// functionNames is the closed catalogue of recognised function commands.
// Keys are the LaTeX command name; values are the canonical function name
// used throughout eval/symbolic (identical here, kept distinct so
// aliases like "asin" can map onto "arcsin").
var functionNames = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan", "cot": "cot", "sec": "sec", "csc": "csc",
	"arcsin": "arcsin", "arccos": "arccos", "arctan": "arctan",
	"asin": "arcsin", "acos": "arccos", "atan": "arctan",
	"arccot": "arccot", "arcsec": "arcsec", "arccsc": "arccsc",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"arcsinh": "arcsinh", "arccosh": "arccosh", "arctanh": "arctanh",
	"asinh": "arcsinh", "acosh": "arccosh", "atanh": "arctanh",
	"exp": "exp", "ln": "ln", "log": "log",
	"abs": "abs", "sign": "sign", "sgn": "sign",
	"floor": "floor", "ceil": "ceil", "round": "round",
	"gcd": "gcd", "lcm": "lcm",
	"det": "det", "tr": "tr", "cross": "cross", "normalize": "normalize", "inv": "inv",
	"dot": "dot", "ddot": "ddot", "bar": "bar", "hat": "hat", "vec": "vec",
	"max": "max", "min": "min",
}

func (r *Registry) registerFunctions() {
	for name, canon := range functionNames {
		r.add(name, Entry{Kind: token.FUNCTION, FuncName: canon})
	}
}

func (r *Registry) registerDecorationsAndFonts() {
	for _, f := range []string{"mathbf", "mathrm", "mathbb", "mathcal", "boldsymbol"} {
		r.add(f, Entry{Kind: token.FONT, Font: true})
	}
}

func (r *Registry) registerEnvironmentsAndIgnored() {
	for _, ig := range []string{"left", "right", "big", "Big", "bigg", "Bigg", "displaystyle", "limits"} {
		r.add(ig, Entry{Kind: token.IGNORED, Ignored: true})
	}
}

// Lookup returns the Entry registered for name and whether it was found.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered command name, used for suggestion ranking.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}

// EnvironmentKind classifies a \begin{...} environment name.
type EnvironmentKind int

const (
	EnvUnknown EnvironmentKind = iota
	EnvMatrix
	EnvBMatrix
	EnvPMatrix
	EnvVMatrix
	EnvCases
	EnvAlign
)

var environments = map[string]EnvironmentKind{
	"matrix":  EnvMatrix,
	"bmatrix": EnvBMatrix,
	"pmatrix": EnvPMatrix,
	"vmatrix": EnvVMatrix,
	"cases":   EnvCases,
	"align":   EnvAlign,
}

// LookupEnvironment classifies a \begin{name} environment.
func LookupEnvironment(name string) (EnvironmentKind, bool) {
	k, ok := environments[name]
	return k, ok
}
