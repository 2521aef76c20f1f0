package value

import (
	"strconv"
	"strings"

	"github.com/funvibe/vcore/internal/config"
	"github.com/funvibe/vcore/internal/na"
)

// Inspect renders the vector the way the console prints it: an index
// prefix, the elements, and one line per attribute other than names.
func (v *Vector) Inspect() string {
	n := v.Len()
	var b strings.Builder
	if n == 0 {
		if v.kind.IsList() {
			b.WriteString(v.kind.String() + "()")
		} else {
			b.WriteString(v.kind.String() + "(0)")
		}
	} else {
		var names []string
		if nv := v.Names(); nv != nil {
			names = nv.Strings()
		}
		if v.kind.IsList() {
			b.WriteString(v.kind.String() + "(")
		} else {
			b.WriteString("[1] ")
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				if v.kind.IsList() {
					b.WriteString(", ")
				} else {
					b.WriteString(" ")
				}
			}
			if i < len(names) && names[i] != "" {
				b.WriteString(names[i])
				b.WriteString("=")
			}
			b.WriteString(elementString(v, i))
		}
		if v.kind.IsList() {
			b.WriteString(")")
		}
	}
	for i := 0; i < v.attrs.Len(); i++ {
		k, a := v.attrs.At(i)
		if k == config.NamesAttr {
			continue
		}
		b.WriteString("\nattr(,\"")
		b.WriteString(k)
		b.WriteString("\") ")
		b.WriteString(inspectShort(a))
	}
	return b.String()
}

// elementString renders element i in deparsed form.
func elementString(v *Vector, i int) string {
	switch v.kind {
	case KindLogical:
		return naOr(StringFromLogical(v.LogicalAt(i)))
	case KindInteger:
		return naOr(StringFromInt(v.IntAt(i)))
	case KindDouble:
		return naOr(StringFromDouble(v.DoubleAt(i)))
	case KindComplex:
		return naOr(StringFromComplex(v.ComplexAt(i)))
	case KindCharacter:
		s := v.StringAt(i)
		if na.IsString(s) {
			return "NA"
		}
		return strconv.Quote(s)
	case KindRaw:
		return StringFromRaw(v.RawAt(i))
	case KindList, KindExpression:
		return inspectShort(v.ElemAt(i))
	}
	return "?"
}

func naOr(s string) string {
	if na.IsString(s) {
		return "NA"
	}
	return s
}

// inspectShort renders v on one line, as it would appear nested inside
// another value.
func inspectShort(v Value) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case *Vector:
		n := x.Len()
		if x.kind.IsList() {
			parts := make([]string, n)
			for i := range parts {
				parts[i] = elementString(x, i)
			}
			return x.kind.String() + "(" + strings.Join(parts, ", ") + ")"
		}
		if n == 0 {
			return x.kind.String() + "(0)"
		}
		if n == 1 {
			return elementString(x, 0)
		}
		parts := make([]string, n)
		for i := range parts {
			parts[i] = elementString(x, i)
		}
		return "c(" + strings.Join(parts, ", ") + ")"
	}
	return v.Inspect()
}
