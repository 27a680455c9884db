// Package typeoracle defines the narrow type-resolution interface the
// transformer consumes. A real TSL type-checker sits behind it in
// production; internal/typeoracle/statictypes ships a reference
// implementation good enough for tests and the CLI's JSON-AST path.
package typeoracle

import (
	"tstl/internal/tsast"
)

// Oracle is the minimal capability set the transformer requires from the
// TSL type-checker.
type Oracle interface {
	// TypeOf returns the resolved type of an expression node, or nil when
	// nothing is known (treated as `any`).
	TypeOf(n tsast.Node) *Type
	// TypeFromAnnotation resolves a written type annotation.
	TypeFromAnnotation(annotation string) *Type

	// SymbolOf returns the symbol an identifier or name node resolves to.
	SymbolOf(n tsast.Node) *Symbol
	// SymbolDeclarations lists the declaration nodes of a symbol.
	SymbolDeclarations(s *Symbol) []tsast.Node
	// ExportsOf returns the export table of a file or namespace symbol.
	ExportsOf(scope *Symbol) map[string]*Symbol
	// FullyQualifiedName renders a dotted path for diagnostics.
	FullyQualifiedName(s *Symbol) string

	// ResolvedSignature returns the signature a call or new expression
	// resolves to.
	ResolvedSignature(call tsast.Node) *Signature
	// SignaturesOfType lists the call signatures of a function type.
	SignaturesOfType(t *Type) []*Signature

	// ContextualType returns the type expected at the node's position.
	ContextualType(n tsast.Node) *Type

	// BaseConstraintOf resolves a type parameter to its constraint.
	BaseConstraintOf(t *Type) *Type
	// BaseTypesOf lists the declared heritage of a class type.
	BaseTypesOf(t *Type) []*Type

	// ConstantValueOf returns the folded value of a const-enum member
	// access, when one exists.
	ConstantValueOf(n tsast.Node) (ConstantValue, bool)

	// EmitResolver returns per-file alias/export queries.
	EmitResolver(file *tsast.SourceFile) EmitResolver
}

// EmitResolver answers module-emit questions for one source file.
type EmitResolver interface {
	IsValueAliasDeclaration(n tsast.Node) bool
	IsReferencedAliasDeclaration(n tsast.Node) bool
	IsTopLevelValueImportEqualsWithEntityName(n tsast.Node) bool
	ModuleExportsSomeValue(modulePath string) bool
}

// ConstantValue is a folded const-enum member value.
type ConstantValue struct {
	Str      string
	Num      float64
	IsString bool
}

// ContextType states whether a function-type value receives an implicit
// self parameter.
type ContextType uint8

const (
	// ContextNone means no signatures were found.
	ContextNone ContextType = iota
	// ContextVoid means the function takes no implicit self.
	ContextVoid
	// ContextNonVoid means the function takes an implicit self.
	ContextNonVoid
	// ContextMixed means signatures disagree; conversions between the two
	// conventions are rejected.
	ContextMixed
)

func (c ContextType) String() string {
	switch c {
	case ContextNone:
		return "None"
	case ContextVoid:
		return "Void"
	case ContextNonVoid:
		return "NonVoid"
	case ContextMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}
