package value

import (
	"strings"

	"github.com/funvibe/vcore/internal/config"
)

// PairList is one cell of a cons chain. Cdr is the next *PairList or Null.
// A chain whose head is a language cell is an unevaluated call; its Car is
// the function and the remaining cells are the arguments.
type PairList struct {
	Car      Value
	Cdr      Value
	Tag      Value // *Symbol or Null
	attrs    *Attributes
	language bool
}

// Cons returns a pairlist cell. A nil cdr or tag is Null.
func Cons(car, cdr, tag Value) *PairList {
	if car == nil {
		car = Null
	}
	if cdr == nil {
		cdr = Null
	}
	if tag == nil {
		tag = Null
	}
	retain(car)
	return &PairList{Car: car, Cdr: cdr, Tag: tag}
}

// NewPairList builds a chain from values and optional tag names. An empty
// chain is Null; an empty name leaves the cell untagged.
func NewPairList(vals []Value, names []string) Value {
	var head Value = Null
	for i := len(vals) - 1; i >= 0; i-- {
		var tag Value = Null
		if i < len(names) && names[i] != "" {
			tag = Intern(names[i])
		}
		head = Cons(vals[i], head, tag)
	}
	return head
}

// Call builds a language object fn(args...). Tagged arguments come from
// names, matched by position.
func Call(fn Value, args []Value, names []string) *PairList {
	rest := NewPairList(args, names)
	c := Cons(fn, rest, nil)
	c.language = true
	return c
}

func (p *PairList) Type() Kind {
	if p.language {
		return KindLanguage
	}
	return KindPairList
}

// Next returns the following cell, or nil at the end of the chain.
func (p *PairList) Next() *PairList {
	n, _ := p.Cdr.(*PairList)
	return n
}

// TagName returns the tag's text; untagged cells report "".
func (p *PairList) TagName() string {
	if s, ok := p.Tag.(*Symbol); ok {
		return s.name
	}
	return ""
}

func (p *PairList) Attributes() *Attributes { return p.attrs }

// SetAttr stores an attribute on this cell. Only head cells carry
// attributes; operations that walk chains reject them on inner cells.
func (p *PairList) SetAttr(name string, val Value) {
	if IsNull(val) {
		p.attrs.Delete(name)
		return
	}
	if p.attrs == nil {
		p.attrs = NewAttributes()
	}
	retain(val)
	p.attrs.Set(name, val)
}

// Cells returns the chain's cells in order. A cycle is fatal.
func (p *PairList) Cells() []*PairList {
	var out []*PairList
	slow := p
	for cur := p; cur != nil; cur = cur.Next() {
		out = append(out, cur)
		if len(out)%2 == 0 {
			slow = slow.Next()
		}
		if len(out) > 2 && cur == slow {
			Fail(PanicCircularPairList, "cons chain loops back after %d cells", len(out))
		}
	}
	return out
}

// Len returns the number of cells.
func (p *PairList) Len() int { return len(p.Cells()) }

// ToList flattens the chain into a list vector; tags become names.
func (p *PairList) ToList() *Vector {
	cells := p.Cells()
	elems := make([]Value, len(cells))
	names := make([]string, len(cells))
	tagged := false
	for i, c := range cells {
		elems[i] = c.Car
		names[i] = c.TagName()
		tagged = tagged || names[i] != ""
	}
	l := NewList(elems)
	if tagged {
		l.SetAttr(config.NamesAttr, NewCharacter(names))
	}
	return l
}

func (p *PairList) Inspect() string {
	cells := p.Cells()
	var b strings.Builder
	if p.language {
		b.WriteString(inspectShort(p.Car))
		b.WriteString("(")
		for i, c := range cells[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			if t := c.TagName(); t != "" {
				b.WriteString(t)
				b.WriteString(" = ")
			}
			b.WriteString(inspectShort(c.Car))
		}
		b.WriteString(")")
		return b.String()
	}
	b.WriteString("pairlist(")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(", ")
		}
		if t := c.TagName(); t != "" {
			b.WriteString(t)
			b.WriteString(" = ")
		}
		b.WriteString(inspectShort(c.Car))
	}
	b.WriteString(")")
	return b.String()
}
