package ast

// exprEqual compares two possibly-nil Expressions.
func exprEqual(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func exprsEqual(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !exprEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (n *Number) Equal(other Expression) bool {
	o, ok := other.(*Number)
	return ok && o.Value == n.Value
}

func (v *Variable) Equal(other Expression) bool {
	o, ok := other.(*Variable)
	return ok && o.Name == v.Name
}

func (b *Binary) Equal(other Expression) bool {
	o, ok := other.(*Binary)
	return ok && o.Op == b.Op && exprEqual(o.Left, b.Left) && exprEqual(o.Right, b.Right)
}

func (u *Unary) Equal(other Expression) bool {
	o, ok := other.(*Unary)
	return ok && exprEqual(o.Operand, u.Operand)
}

func (c *Call) Equal(other Expression) bool {
	o, ok := other.(*Call)
	return ok && o.Name == c.Name && exprsEqual(o.Args, c.Args) &&
		exprEqual(o.Base, c.Base) && exprEqual(o.Optional, c.Optional)
}

func (a *Abs) Equal(other Expression) bool {
	o, ok := other.(*Abs)
	return ok && exprEqual(o.Operand, a.Operand)
}

func (a *Assignment) Equal(other Expression) bool {
	o, ok := other.(*Assignment)
	return ok && o.Name == a.Name && exprEqual(o.Value, a.Value)
}

func (f *FunctionDefinition) Equal(other Expression) bool {
	o, ok := other.(*FunctionDefinition)
	return ok && o.Name == f.Name && stringsEqual(o.Params, f.Params) && exprEqual(o.Body, f.Body)
}

func (l *Limit) Equal(other Expression) bool {
	o, ok := other.(*Limit)
	return ok && o.Var == l.Var && exprEqual(o.Target, l.Target) && exprEqual(o.Body, l.Body)
}

func (s *Sum) Equal(other Expression) bool {
	o, ok := other.(*Sum)
	return ok && o.Var == s.Var && exprEqual(o.Start, s.Start) && exprEqual(o.End, s.End) && exprEqual(o.Body, s.Body)
}

func (p *Product) Equal(other Expression) bool {
	o, ok := other.(*Product)
	return ok && o.Var == p.Var && exprEqual(o.Start, p.Start) && exprEqual(o.End, p.End) && exprEqual(o.Body, p.Body)
}

func (i *Integral) Equal(other Expression) bool {
	o, ok := other.(*Integral)
	return ok && o.Var == i.Var && o.Closed == i.Closed &&
		exprEqual(o.Lower, i.Lower) && exprEqual(o.Upper, i.Upper) && exprEqual(o.Body, i.Body)
}

func (m *MultiIntegral) Equal(other Expression) bool {
	o, ok := other.(*MultiIntegral)
	return ok && o.Order == m.Order && stringsEqual(o.Vars, m.Vars) &&
		exprsEqual(o.Lower, m.Lower) && exprsEqual(o.Upper, m.Upper) && exprEqual(o.Body, m.Body)
}

func (d *Derivative) Equal(other Expression) bool {
	o, ok := other.(*Derivative)
	return ok && o.Var == d.Var && o.Order == d.Order && exprEqual(o.Body, d.Body)
}

func (d *PartialDerivative) Equal(other Expression) bool {
	o, ok := other.(*PartialDerivative)
	return ok && o.Var == d.Var && o.Order == d.Order && exprEqual(o.Body, d.Body)
}

func (b *Binom) Equal(other Expression) bool {
	o, ok := other.(*Binom)
	return ok && exprEqual(o.N, b.N) && exprEqual(o.K, b.K)
}

func (g *Gradient) Equal(other Expression) bool {
	o, ok := other.(*Gradient)
	return ok && stringsEqual(o.Vars, g.Vars) && exprEqual(o.Body, g.Body)
}

func (c *Comparison) Equal(other Expression) bool {
	o, ok := other.(*Comparison)
	return ok && o.Op == c.Op && exprEqual(o.Left, c.Left) && exprEqual(o.Right, c.Right)
}

func (c *ChainedComparison) Equal(other Expression) bool {
	o, ok := other.(*ChainedComparison)
	if !ok || len(o.Ops) != len(c.Ops) {
		return false
	}
	for i := range c.Ops {
		if o.Ops[i] != c.Ops[i] {
			return false
		}
	}
	return exprsEqual(o.Exprs, c.Exprs)
}

func (b *BooleanBinary) Equal(other Expression) bool {
	o, ok := other.(*BooleanBinary)
	return ok && o.Op == b.Op && exprEqual(o.Left, b.Left) && exprEqual(o.Right, b.Right)
}

func (b *BooleanUnary) Equal(other Expression) bool {
	o, ok := other.(*BooleanUnary)
	return ok && exprEqual(o.Operand, b.Operand)
}

func (c *Conditional) Equal(other Expression) bool {
	o, ok := other.(*Conditional)
	return ok && exprEqual(o.Body, c.Body) && exprEqual(o.Condition, c.Condition)
}

func (p *Piecewise) Equal(other Expression) bool {
	o, ok := other.(*Piecewise)
	if !ok || len(o.Cases) != len(p.Cases) {
		return false
	}
	for i := range p.Cases {
		if !exprEqual(o.Cases[i].Expr, p.Cases[i].Expr) || !exprEqual(o.Cases[i].Condition, p.Cases[i].Condition) {
			return false
		}
	}
	return true
}

func (m *Matrix) Equal(other Expression) bool {
	o, ok := other.(*Matrix)
	if !ok || o.Delimiter != m.Delimiter || len(o.Rows) != len(m.Rows) {
		return false
	}
	for i := range m.Rows {
		if !exprsEqual(o.Rows[i], m.Rows[i]) {
			return false
		}
	}
	return true
}

func (v *Vector) Equal(other Expression) bool {
	o, ok := other.(*Vector)
	return ok && o.Unit == v.Unit && exprsEqual(o.Components, v.Components)
}

func (iv *Interval) Equal(other Expression) bool {
	o, ok := other.(*Interval)
	return ok && o.LowerClosed == iv.LowerClosed && o.UpperClosed == iv.UpperClosed &&
		exprEqual(o.Lower, iv.Lower) && exprEqual(o.Upper, iv.Upper)
}
