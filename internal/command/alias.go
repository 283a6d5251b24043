package command

// aliases maps common misspellings / English words to the canonical
// command they should suggest ("sine"→sin, "cosine"→cos,
// "squareroot"→sqrt, ...).
var aliases = map[string]string{
	"sine":       "sin",
	"cosine":     "cos",
	"tangent":    "tan",
	"squareroot": "sqrt",
	"root":       "sqrt",
	"summation":  "sum",
	"product":    "prod",
	"integral":   "int",
	"limit":      "lim",
	"fraction":   "frac",
	"logarithm":  "log",
	"natural":    "ln",
	"infinity":   "infty",
	"absolute":   "abs",
	"factorial":  "abs", // closest structurally-known command; factorial itself is postfix "!"
}

// AliasTarget returns the canonical command name name should suggest, if
// name is a known alias (not a registered command itself).
func AliasTarget(name string) (string, bool) {
	t, ok := aliases[name]
	return t, ok
}

// AllSuggestionCandidates returns the full set of strings to rank
// suggestions against: every registered command name plus every alias
// key, so "sine" (not a command) can still surface "sin".
func (r *Registry) AllSuggestionCandidates() []string {
	names := r.Names()
	out := make([]string, 0, len(names)+len(aliases))
	out = append(out, names...)
	for k := range aliases {
		out = append(out, k)
	}
	return out
}
