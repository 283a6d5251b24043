package ast

import "strings"

// precedence levels, lowest to highest.
const (
	precAssignLike = 5
	precBoolOr     = 20
	precBoolAnd    = 30
	precBoolNot    = 40
	precAdditive   = 50
	precMultiplicative = 60
	precUnary      = 70
	precPower      = 80
	precAtom       = 100
)

func precedenceOf(e Expression) int {
	switch n := e.(type) {
	case *Binary:
		switch n.Op {
		case Add, Sub:
			return precAdditive
		case Mul, Div:
			return precMultiplicative
		case Pow:
			return precPower
		}
	case *Unary:
		return precUnary
	case *Comparison, *ChainedComparison:
		return 10
	case *BooleanBinary:
		switch n.Op {
		case Or:
			return precBoolOr
		default:
			return precBoolAnd
		}
	case *BooleanUnary:
		return precBoolNot
	case *Conditional, *Assignment, *FunctionDefinition:
		return precAssignLike
	}
	return precAtom
}

// wrap renders child.ToLatex(), wrapping it in \left( \right) when its
// precedence is too low to appear unparenthesised as an operand of a
// node with parentPrec, or when equal precedence would still be
// ambiguous for a non-associative/non-commutative operator (e.g. the
// right operand of a subtraction or division, or the left operand of a
// right-associative power).
func wrap(parentPrec int, child Expression, forceAtEqual bool) string {
	cp := precedenceOf(child)
	s := child.ToLatex()
	if cp < parentPrec || (cp == parentPrec && forceAtEqual) {
		return "\\left(" + s + "\\right)"
	}
	return s
}

func (n *Number) ToLatex() string { return formatNumber(n.Value) }

func (v *Variable) ToLatex() string { return v.Name }

func (b *Binary) ToLatex() string {
	switch b.Op {
	case Add:
		return wrap(precAdditive, b.Left, false) + " + " + wrap(precAdditive, b.Right, false)
	case Sub:
		return wrap(precAdditive, b.Left, false) + " - " + wrap(precAdditive, b.Right, true)
	case Mul:
		return wrap(precMultiplicative, b.Left, false) + " \\times " + wrap(precMultiplicative, b.Right, false)
	case Div:
		// \frac is unambiguous regardless of child precedence.
		return "\\frac{" + b.Left.ToLatex() + "}{" + b.Right.ToLatex() + "}"
	case Pow:
		return wrap(precPower, b.Left, true) + "^{" + b.Right.ToLatex() + "}"
	default:
		return "?"
	}
}

func (u *Unary) ToLatex() string {
	return "-" + wrap(precUnary, u.Operand, false)
}

func (c *Call) ToLatex() string {
	var sb strings.Builder
	sb.WriteString("\\")
	sb.WriteString(c.Name)
	if c.Base != nil {
		sb.WriteString("_{")
		sb.WriteString(c.Base.ToLatex())
		sb.WriteString("}")
	}
	if c.Optional != nil {
		sb.WriteString("[")
		sb.WriteString(c.Optional.ToLatex())
		sb.WriteString("]")
	}
	for _, a := range c.Args {
		sb.WriteString("{")
		sb.WriteString(a.ToLatex())
		sb.WriteString("}")
	}
	return sb.String()
}

func (a *Abs) ToLatex() string {
	return "|" + a.Operand.ToLatex() + "|"
}

func (a *Assignment) ToLatex() string {
	return "let " + a.Name + " = " + a.Value.ToLatex()
}

func (f *FunctionDefinition) ToLatex() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ") = " + f.Body.ToLatex()
}

func (l *Limit) ToLatex() string {
	return "\\lim_{" + l.Var + " \\to " + l.Target.ToLatex() + "} " + l.Body.ToLatex()
}

func (s *Sum) ToLatex() string {
	return "\\sum_{" + s.Var + "=" + s.Start.ToLatex() + "}^{" + s.End.ToLatex() + "} " + s.Body.ToLatex()
}

func (p *Product) ToLatex() string {
	return "\\prod_{" + p.Var + "=" + p.Start.ToLatex() + "}^{" + p.End.ToLatex() + "} " + p.Body.ToLatex()
}

func (i *Integral) ToLatex() string {
	name := "\\int"
	if i.Closed {
		name = "\\oint"
	}
	var sb strings.Builder
	sb.WriteString(name)
	if i.Lower != nil {
		sb.WriteString("_{" + i.Lower.ToLatex() + "}")
	}
	if i.Upper != nil {
		sb.WriteString("^{" + i.Upper.ToLatex() + "}")
	}
	sb.WriteString(" " + i.Body.ToLatex() + " d" + i.Var)
	return sb.String()
}

func (m *MultiIntegral) ToLatex() string {
	name := map[int]string{2: "\\iint", 3: "\\iiint"}[m.Order]
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" " + m.Body.ToLatex())
	for _, v := range m.Vars {
		sb.WriteString(" d" + v)
	}
	return sb.String()
}

func (d *Derivative) ToLatex() string {
	if d.Order == 1 {
		return "\\frac{d}{d" + d.Var + "} " + d.Body.ToLatex()
	}
	return "\\frac{d^{" + formatNumber(float64(d.Order)) + "}}{d" + d.Var + "^{" + formatNumber(float64(d.Order)) + "}} " + d.Body.ToLatex()
}

func (d *PartialDerivative) ToLatex() string {
	if d.Order == 1 {
		return "\\frac{\\partial}{\\partial " + d.Var + "} " + d.Body.ToLatex()
	}
	return "\\frac{\\partial^{" + formatNumber(float64(d.Order)) + "}}{\\partial " + d.Var + "^{" + formatNumber(float64(d.Order)) + "}} " + d.Body.ToLatex()
}

func (b *Binom) ToLatex() string {
	return "\\binom{" + b.N.ToLatex() + "}{" + b.K.ToLatex() + "}"
}

func (g *Gradient) ToLatex() string {
	return "\\nabla " + g.Body.ToLatex()
}

func (c *Comparison) ToLatex() string {
	return wrap(10, c.Left, false) + " " + c.Op.String() + " " + wrap(10, c.Right, false)
}

func (c *ChainedComparison) ToLatex() string {
	var sb strings.Builder
	for i, e := range c.Exprs {
		sb.WriteString(wrap(10, e, false))
		if i < len(c.Ops) {
			sb.WriteString(" " + c.Ops[i].String() + " ")
		}
	}
	return sb.String()
}

func (b *BooleanBinary) ToLatex() string {
	op := map[BoolOp]string{And: "\\land", Or: "\\lor", Xor: "\\oplus"}[b.Op]
	return wrap(precedenceOf(b), b.Left, false) + " " + op + " " + wrap(precedenceOf(b), b.Right, false)
}

func (b *BooleanUnary) ToLatex() string {
	return "\\lnot " + wrap(precBoolNot, b.Operand, false)
}

func (c *Conditional) ToLatex() string {
	return c.Body.ToLatex() + ", " + c.Condition.ToLatex()
}

func (p *Piecewise) ToLatex() string {
	var sb strings.Builder
	sb.WriteString("\\begin{cases}")
	for i, cs := range p.Cases {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		sb.WriteString(cs.Expr.ToLatex())
		if cs.Condition != nil {
			sb.WriteString(" & " + cs.Condition.ToLatex())
		} else {
			sb.WriteString(" & \\text{otherwise}")
		}
	}
	sb.WriteString("\\end{cases}")
	return sb.String()
}

var matrixEnvName = map[string]string{"": "matrix", "b": "bmatrix", "p": "pmatrix", "v": "vmatrix"}

func (m *Matrix) ToLatex() string {
	env := matrixEnvName[m.Delimiter]
	var sb strings.Builder
	sb.WriteString("\\begin{" + env + "}")
	for i, row := range m.Rows {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(cell.ToLatex())
		}
	}
	sb.WriteString("\\end{" + env + "}")
	return sb.String()
}

func (v *Vector) ToLatex() string {
	parts := make([]string, len(v.Components))
	for i, c := range v.Components {
		parts[i] = c.ToLatex()
	}
	s := "\\begin{pmatrix}" + strings.Join(parts, " \\\\ ") + "\\end{pmatrix}"
	if v.Unit != "" {
		s += "\\,\\text{" + v.Unit + "}"
	}
	return s
}

func (iv *Interval) ToLatex() string {
	l, r := "(", ")"
	if iv.LowerClosed {
		l = "["
	}
	if iv.UpperClosed {
		r = "]"
	}
	return l + iv.Lower.ToLatex() + ", " + iv.Upper.ToLatex() + r
}
