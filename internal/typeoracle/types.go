package typeoracle

import "strings"

// TypeKind discriminates Type.
type TypeKind uint8

const (
	KindAny TypeKind = iota
	KindUnknown
	KindNumber
	KindString
	KindBoolean
	KindVoid
	KindUndefined
	KindNull
	KindNever
	KindArray
	KindTuple
	KindFunction
	KindObject
	KindClass
	KindEnum
	KindStringLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindUnion
	KindTypeParameter
)

// Type is the structural type representation shared between the oracle and
// the transformer. Instances are immutable after construction.
type Type struct {
	Kind    TypeKind
	Elem    *Type        // KindArray element
	Members []*Type      // KindTuple / KindUnion members
	Sigs    []*Signature // KindFunction call signatures
	Name    string       // nominal name: class/enum name, or a standard-library object ("Math", "Console", "Map", ...)
	Symbol  *Symbol
	StrVal  string  // KindStringLiteral
	NumVal  float64 // KindNumberLiteral
	BoolVal bool    // KindBooleanLiteral
}

// Prebuilt singletons for the structureless kinds.
var (
	Any       = &Type{Kind: KindAny}
	Unknown   = &Type{Kind: KindUnknown}
	Number    = &Type{Kind: KindNumber}
	String    = &Type{Kind: KindString}
	Boolean   = &Type{Kind: KindBoolean}
	Void      = &Type{Kind: KindVoid}
	Undefined = &Type{Kind: KindUndefined}
	Null      = &Type{Kind: KindNull}
	Never     = &Type{Kind: KindNever}
)

// ArrayOf builds an array type.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// TupleOf builds a tuple type.
func TupleOf(members ...*Type) *Type {
	return &Type{Kind: KindTuple, Members: members}
}

// UnionOf builds a union type.
func UnionOf(members ...*Type) *Type {
	return &Type{Kind: KindUnion, Members: members}
}

// FunctionOf builds a function type from its call signatures.
func FunctionOf(sigs ...*Signature) *Type {
	return &Type{Kind: KindFunction, Sigs: sigs}
}

// ObjectNamed builds a nominal object type ("Math", "Map", user classes).
func ObjectNamed(name string) *Type {
	return &Type{Kind: KindObject, Name: name}
}

// StringLiteralOf builds a string literal type.
func StringLiteralOf(v string) *Type {
	return &Type{Kind: KindStringLiteral, StrVal: v}
}

// IsArray reports whether t is an array (not a tuple).
func (t *Type) IsArray() bool {
	return t != nil && t.Kind == KindArray
}

// IsTuple reports whether t is a tuple.
func (t *Type) IsTuple() bool {
	return t != nil && t.Kind == KindTuple
}

// IsString reports whether t is string-like: string, a string literal, or
// a union made only of those.
func (t *Type) IsString() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindString, KindStringLiteral:
		return true
	case KindUnion:
		for _, m := range t.Members {
			if !m.IsString() {
				return false
			}
		}
		return len(t.Members) > 0
	}
	return false
}

// IsNumber reports whether t is number-like.
func (t *Type) IsNumber() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindNumber, KindNumberLiteral:
		return true
	case KindEnum:
		return true
	case KindUnion:
		for _, m := range t.Members {
			if !m.IsNumber() {
				return false
			}
		}
		return len(t.Members) > 0
	}
	return false
}

// IsFunction reports whether t carries call signatures.
func (t *Type) IsFunction() bool {
	return t != nil && t.Kind == KindFunction
}

// CanBeFalsyNotNumber reports whether a value of t may be a falsy value
// other than a number: undefined, null, false, void, any/unknown/never, or
// a non-literal boolean. Lua's `cond and a or b` idiom is only safe when
// the true branch can never be falsy; the conditional lowering consults
// this.
func (t *Type) CanBeFalsyNotNumber(strictNullChecks bool) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case KindAny, KindUnknown, KindVoid, KindUndefined, KindNull, KindNever, KindBoolean:
		return true
	case KindBooleanLiteral:
		return !t.BoolVal
	case KindNumber, KindNumberLiteral, KindString, KindStringLiteral, KindArray, KindTuple,
		KindFunction, KindObject, KindClass, KindEnum:
		// без strictNullChecks любое значение может оказаться nil
		return !strictNullChecks
	case KindUnion:
		for _, m := range t.Members {
			if m.CanBeFalsyNotNumber(strictNullChecks) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// String renders a debug form of the type.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindNever:
		return "never"
	case KindArray:
		return t.Elem.String() + "[]"
	case KindTuple:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		return "function"
	case KindObject, KindClass, KindEnum:
		if t.Name != "" {
			return t.Name
		}
		return "object"
	case KindStringLiteral:
		return "\"" + t.StrVal + "\""
	case KindNumberLiteral:
		return "number-literal"
	case KindBooleanLiteral:
		if t.BoolVal {
			return "true"
		}
		return "false"
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return strings.Join(parts, " | ")
	case KindTypeParameter:
		return t.Name
	default:
		return "<invalid>"
	}
}
