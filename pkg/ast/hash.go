package ast

import (
	"math"
	"strconv"
)

// FNV-1a 64-bit constants, used to fold a sequence of sub-hashes into one
// order-sensitive value. Folding operands strictly left-to-right is what
// makes hash(a op b) != hash(b op a) for every binary-shaped node,
// uniformly rather than special-casing non-commutative operators.
const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func mixString(h uint64, s string) uint64 {
	h ^= hashString(s)
	h *= fnvPrime
	return h
}

func hashString(s string) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

func mixUint(h uint64, v uint64) uint64 {
	h ^= v
	h *= fnvPrime
	return h
}

func mixFloat(h uint64, f float64) uint64 {
	return mixUint(h, math.Float64bits(f))
}

func mixExpr(h uint64, e Expression) uint64 {
	if e == nil {
		return mixUint(h, 0)
	}
	return mixUint(h, e.Hash())
}

func mixExprs(h uint64, es []Expression) uint64 {
	h = mixUint(h, uint64(len(es)))
	for _, e := range es {
		h = mixExpr(h, e)
	}
	return h
}

// Node-kind tags seed each node's hash so structurally different node
// types never collide by accident even when their fields happen to line up.
const (
	tagNumber uint64 = iota + 1
	tagVariable
	tagBinary
	tagUnary
	tagCall
	tagAbs
	tagAssignment
	tagFunctionDefinition
	tagLimit
	tagSum
	tagProduct
	tagIntegral
	tagMultiIntegral
	tagDerivative
	tagPartialDerivative
	tagBinom
	tagGradient
	tagComparison
	tagChainedComparison
	tagBooleanBinary
	tagBooleanUnary
	tagConditional
	tagPiecewise
	tagMatrix
	tagVector
	tagInterval
)

func (n *Number) Hash() uint64 { return mixFloat(mixUint(fnvOffset, tagNumber), n.Value) }

func (v *Variable) Hash() uint64 { return mixString(mixUint(fnvOffset, tagVariable), v.Name) }

func (b *Binary) Hash() uint64 {
	h := mixUint(fnvOffset, tagBinary)
	h = mixUint(h, uint64(b.Op))
	h = mixExpr(h, b.Left)
	h = mixExpr(h, b.Right)
	return h
}

func (u *Unary) Hash() uint64 {
	return mixExpr(mixUint(fnvOffset, tagUnary), u.Operand)
}

func (c *Call) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagCall), c.Name)
	h = mixExprs(h, c.Args)
	h = mixExpr(h, c.Base)
	h = mixExpr(h, c.Optional)
	return h
}

func (a *Abs) Hash() uint64 { return mixExpr(mixUint(fnvOffset, tagAbs), a.Operand) }

func (a *Assignment) Hash() uint64 {
	return mixExpr(mixString(mixUint(fnvOffset, tagAssignment), a.Name), a.Value)
}

func (f *FunctionDefinition) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagFunctionDefinition), f.Name)
	for _, p := range f.Params {
		h = mixString(h, p)
	}
	return mixExpr(h, f.Body)
}

func (l *Limit) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagLimit), l.Var)
	h = mixExpr(h, l.Target)
	return mixExpr(h, l.Body)
}

func (s *Sum) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagSum), s.Var)
	h = mixExpr(h, s.Start)
	h = mixExpr(h, s.End)
	return mixExpr(h, s.Body)
}

func (p *Product) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagProduct), p.Var)
	h = mixExpr(h, p.Start)
	h = mixExpr(h, p.End)
	return mixExpr(h, p.Body)
}

func (i *Integral) Hash() uint64 {
	h := mixUint(fnvOffset, tagIntegral)
	h = mixExpr(h, i.Lower)
	h = mixExpr(h, i.Upper)
	h = mixExpr(h, i.Body)
	h = mixString(h, i.Var)
	h = mixUint(h, boolUint(i.Closed))
	return h
}

func (m *MultiIntegral) Hash() uint64 {
	h := mixUint(mixUint(fnvOffset, tagMultiIntegral), uint64(m.Order))
	h = mixExprs(h, m.Lower)
	h = mixExprs(h, m.Upper)
	h = mixExpr(h, m.Body)
	for _, v := range m.Vars {
		h = mixString(h, v)
	}
	return h
}

func (d *Derivative) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagDerivative), d.Body)
	h = mixString(h, d.Var)
	return mixUint(h, uint64(d.Order))
}

func (d *PartialDerivative) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagPartialDerivative), d.Body)
	h = mixString(h, d.Var)
	return mixUint(h, uint64(d.Order))
}

func (b *Binom) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagBinom), b.N)
	return mixExpr(h, b.K)
}

func (g *Gradient) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagGradient), g.Body)
	for _, v := range g.Vars {
		h = mixString(h, v)
	}
	return h
}

func (c *Comparison) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagComparison), c.Left)
	h = mixUint(h, uint64(c.Op))
	return mixExpr(h, c.Right)
}

func (c *ChainedComparison) Hash() uint64 {
	h := mixExprs(mixUint(fnvOffset, tagChainedComparison), c.Exprs)
	for _, op := range c.Ops {
		h = mixUint(h, uint64(op))
	}
	return h
}

func (b *BooleanBinary) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagBooleanBinary), b.Left)
	h = mixUint(h, uint64(b.Op))
	return mixExpr(h, b.Right)
}

func (b *BooleanUnary) Hash() uint64 {
	return mixExpr(mixUint(fnvOffset, tagBooleanUnary), b.Operand)
}

func (c *Conditional) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagConditional), c.Body)
	return mixExpr(h, c.Condition)
}

func (p *Piecewise) Hash() uint64 {
	h := mixUint(fnvOffset, tagPiecewise)
	h = mixUint(h, uint64(len(p.Cases)))
	for _, c := range p.Cases {
		h = mixExpr(h, c.Expr)
		h = mixExpr(h, c.Condition)
	}
	return h
}

func (m *Matrix) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagMatrix), m.Delimiter)
	h = mixUint(h, uint64(len(m.Rows)))
	for _, row := range m.Rows {
		h = mixExprs(h, row)
	}
	return h
}

func (v *Vector) Hash() uint64 {
	h := mixString(mixUint(fnvOffset, tagVector), v.Unit)
	return mixExprs(h, v.Components)
}

func (iv *Interval) Hash() uint64 {
	h := mixExpr(mixUint(fnvOffset, tagInterval), iv.Lower)
	h = mixExpr(h, iv.Upper)
	h = mixUint(h, boolUint(iv.LowerClosed))
	return mixUint(h, boolUint(iv.UpperClosed))
}

func boolUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// formatNumber renders a float the same way across ToLatex implementations.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
