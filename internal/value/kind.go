// Package value implements the runtime value model: a closed set of value
// kinds, attribute-bearing vector containers over interchangeable storage,
// and the access protocol every generic operation reads vectors through.
package value

import "fmt"

// Kind identifies the runtime shape of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNull
	KindMissing

	// Atomic vector kinds.
	KindLogical
	KindInteger
	KindDouble
	KindComplex
	KindCharacter
	KindRaw

	// Generic vector kinds.
	KindList
	KindExpression

	// Cons chains. Language cells hold unevaluated calls.
	KindPairList
	KindLanguage

	KindSymbol
	KindEnvironment
	KindClosure
	KindBuiltin

	// Boundary values.
	KindForeign
	KindInteropScalar
	KindExternalPtr
	KindS4
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindNull:          "NULL",
	KindMissing:       "missing",
	KindLogical:       "logical",
	KindInteger:       "integer",
	KindDouble:        "double",
	KindComplex:       "complex",
	KindCharacter:     "character",
	KindRaw:           "raw",
	KindList:          "list",
	KindExpression:    "expression",
	KindPairList:      "pairlist",
	KindLanguage:      "language",
	KindSymbol:        "symbol",
	KindEnvironment:   "environment",
	KindClosure:       "closure",
	KindBuiltin:       "builtin",
	KindForeign:       "foreign",
	KindInteropScalar: "interop",
	KindExternalPtr:   "externalptr",
	KindS4:            "S4",
}

// String returns the kind's type name as the language reports it.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a type name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	switch name {
	case "numeric":
		return KindDouble, true
	case "int":
		return KindInteger, true
	case "bool":
		return KindLogical, true
	case "string":
		return KindCharacter, true
	}
	return KindInvalid, false
}

// IsAtomic reports whether k is an atomic vector kind.
func (k Kind) IsAtomic() bool { return k >= KindLogical && k <= KindRaw }

// IsList reports whether k is a generic vector kind.
func (k Kind) IsList() bool { return k == KindList || k == KindExpression }

// IsVector reports whether values of kind k are Vectors.
func (k Kind) IsVector() bool { return k.IsAtomic() || k.IsList() }

// IsNumeric reports whether k participates in arithmetic without coercion.
func (k Kind) IsNumeric() bool {
	return k == KindLogical || k == KindInteger || k == KindDouble || k == KindComplex
}

// StorageKind identifies how a Vector holds its elements.
type StorageKind uint8

const (
	StorageDense StorageKind = iota
	StorageSequence
	StorageForeign
	StorageView
)

func (s StorageKind) String() string {
	switch s {
	case StorageDense:
		return "dense"
	case StorageSequence:
		return "sequence"
	case StorageForeign:
		return "foreign"
	case StorageView:
		return "view"
	default:
		return fmt.Sprintf("StorageKind(%d)", s)
	}
}
