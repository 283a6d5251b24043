package command

import "golang.org/x/text/unicode/norm"

// unicodeToCommand rewrites a single Unicode math rune to the canonical
// command name it stands for. NormalizeRune looks a rune up by its NFC
// form, so a rune whose NFC form is a single table rune (e.g. U+2126 OHM
// SIGN, which folds to Ω) reaches the same entry.
var unicodeToCommand = map[rune]string{
	'π': "pi", '∞': "infty", '√': "sqrt", '∑': "sum", '∫': "int", '∂': "partial",
	'∇': "nabla", '×': "times", '÷': "div", '≤': "leq", '≥': "geq", '≠': "neq",
	'≈': "approx", '∈': "in", '∪': "cup", '∩': "cap", '⊂': "subset", '⊆': "subseteq",
	'⊃': "supset", '⊇': "supseteq", '→': "to", '↦': "mapsto",
	'⇒': "Rightarrow", '⇐': "Leftarrow", '⇔': "Leftrightarrow",
	'∀': "forall", '∃': "exists", '⟨': "langle", '⟩': "rangle",
	'τ': "tau", 'φ': "phi", 'α': "alpha", 'β': "beta", 'γ': "gamma", 'δ': "delta",
	'ε': "epsilon", 'ζ': "zeta", 'η': "eta", 'θ': "theta", 'ι': "iota", 'κ': "kappa",
	'λ': "lambda", 'μ': "mu", 'ν': "nu", 'ξ': "xi", 'ο': "omicron", 'ρ': "rho",
	'σ': "sigma", 'υ': "upsilon", 'χ': "chi", 'ψ': "psi", 'ω': "omega",
	'Γ': "Gamma", 'Δ': "Delta", 'Θ': "Theta", 'Λ': "Lambda", 'Ξ': "Xi", 'Π': "Pi",
	'Σ': "Sigma", 'Υ': "Upsilon", 'Φ': "Phi", 'Ψ': "Psi", 'Ω': "Omega",
}

// NormalizeRune returns the canonical command name for a Unicode math
// symbol or Greek letter, and true if r is recognised. r is folded to NFC
// before the table lookup. Only one rune is examined, so a base letter
// followed by a separate combining mark is not matched.
func NormalizeRune(r rune) (string, bool) {
	folded := norm.NFC.String(string(r))
	runes := []rune(folded)
	if len(runes) != 1 {
		return "", false
	}
	name, ok := unicodeToCommand[runes[0]]
	return name, ok
}

// IsMathSymbol reports whether r is part of texpr's recognised Unicode
// math alphabet (used by the lexer to decide whether a bare rune outside
// the ASCII identifier set should be treated as a command rather than an
// illegal character).
func IsMathSymbol(r rune) bool {
	_, ok := unicodeToCommand[r]
	return ok
}
