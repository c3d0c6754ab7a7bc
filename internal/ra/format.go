package ra

import (
	"strings"
)

func (r *RelRef) String() string {
	return r.Name
}

func (r *Rename) String() string {
	return `\rename_{` + r.Alias + `: *} ` + unaryInput(r.Input)
}

func (c *Cross) String() string {
	return binaryOperand(c.Left) + ` \cross ` + binaryOperand(c.Right)
}

func (s *Select) String() string {
	return `\select_{` + s.Cond.String() + `} ` + unaryInput(s.Input)
}

func (p *Project) String() string {
	names := make([]string, len(p.Attrs))
	for i, a := range p.Attrs {
		names[i] = a.String()
	}
	return `\project_{` + strings.Join(names, ", ") + `} ` + unaryInput(p.Input)
}

// unaryInput renders the input of a unary operator. Binary inputs are
// parenthesized so the operator applies to the whole product.
func unaryInput(e RelExpr) string {
	if _, ok := e.(*Cross); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// binaryOperand renders an operand of \cross; anything but a bare relation
// name is parenthesized.
func binaryOperand(e RelExpr) string {
	if _, ok := e.(*RelRef); ok {
		return e.String()
	}
	return "(" + e.String() + ")"
}

func (a *AttrRef) String() string {
	if a.Rel == "" {
		return a.Name
	}
	return a.Rel + "." + a.Name
}

func (n Number) String() string {
	return string(n)
}

func (s String) String() string {
	return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
}

func (b *BinaryOp) String() string {
	return valOperand(b.Left) + " " + b.Op.Symbol() + " " + valOperand(b.Right)
}

func valOperand(v ValExpr) string {
	if _, ok := v.(*BinaryOp); ok {
		return "(" + v.String() + ")"
	}
	return v.String()
}
