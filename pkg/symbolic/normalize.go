package symbolic

import (
	"sort"

	"github.com/xirf/texpr/pkg/ast"
)

// Normalize flattens associative-commutative +/* chains into sorted term
// lists, folds constant runs, and rebuilds a right-associative tree. It
// recurses bottom-up so nested sums/products are normalized before the
// parent is flattened.
func Normalize(e ast.Expression) ast.Expression {
	switch n := e.(type) {
	case *ast.Binary:
		left := Normalize(n.Left)
		right := Normalize(n.Right)
		switch n.Op {
		case ast.Add:
			return normalizeFlat(left, right, ast.Add, 0, addFold)
		case ast.Mul:
			return normalizeFlat(left, right, ast.Mul, 1, mulFold)
		default:
			return &ast.Binary{Left: left, Right: right, Op: n.Op}
		}
	case *ast.Unary:
		return &ast.Unary{Operand: Normalize(n.Operand)}
	case *ast.Call:
		return &ast.Call{Name: n.Name, Args: normalizeAll(n.Args), Base: normalizeOpt(n.Base), Optional: normalizeOpt(n.Optional)}
	case *ast.Abs:
		return &ast.Abs{Operand: Normalize(n.Operand)}
	default:
		return e
	}
}

func normalizeOpt(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	return Normalize(e)
}

func normalizeAll(es []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(es))
	for i, x := range es {
		out[i] = Normalize(x)
	}
	return out
}

// flatten collects every operand of a chain of the same associative op
// into a flat term list (e.g. (a+b)+c -> [a,b,c]).
func flatten(e ast.Expression, op ast.BinaryOp) []ast.Expression {
	b, ok := e.(*ast.Binary)
	if !ok || b.Op != op {
		return []ast.Expression{e}
	}
	return append(flatten(b.Left, op), flatten(b.Right, op)...)
}

func addFold(a, b *ast.Number) *ast.Number { return &ast.Number{Value: a.Value + b.Value} }
func mulFold(a, b *ast.Number) *ast.Number { return &ast.Number{Value: a.Value * b.Value} }

func normalizeFlat(left, right ast.Expression, op ast.BinaryOp, identity float64, fold func(a, b *ast.Number) *ast.Number) ast.Expression {
	terms := append(flatten(left, op), flatten(right, op)...)

	var numeric *ast.Number
	rest := terms[:0]
	for _, t := range terms {
		if num, ok := t.(*ast.Number); ok {
			if numeric == nil {
				numeric = num
			} else {
				numeric = fold(numeric, num)
			}
			continue
		}
		rest = append(rest, t)
	}

	sort.SliceStable(rest, func(i, j int) bool { return termKey(rest[i]) < termKey(rest[j]) })

	if numeric != nil && (numeric.Value != identity || len(rest) == 0) {
		rest = append([]ast.Expression{numeric}, rest...)
	}
	if len(rest) == 0 {
		return &ast.Number{Value: identity}
	}
	result := rest[len(rest)-1]
	for i := len(rest) - 2; i >= 0; i-- {
		result = &ast.Binary{Left: rest[i], Right: result, Op: op}
	}
	return result
}

// termKey orders terms for AC-flattening: numbers first (there should be
// at most one after folding), then variables alphabetically, then
// everything else by rendered LaTeX form.
func termKey(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Number:
		return "0" + n.ToLatex()
	case *ast.Variable:
		return "1" + n.Name
	default:
		return "2" + e.ToLatex()
	}
}
