// Package statictypes is a reference Oracle implementation backed by plain
// in-memory tables. It is not a TSL type-checker: it binds symbols lexically
// and propagates the types that are syntactically obvious (literals,
// annotations, signature returns), which is enough to drive the transformer
// in tests and in the CLI's JSON-AST path. A production host supplies its
// own checker behind the same interface.
package statictypes

import (
	"strings"

	"tstl/internal/tsast"
	"tstl/internal/typeoracle"
)

// Checker implements typeoracle.Oracle over per-node tables filled by Bind
// or directly by tests.
type Checker struct {
	types   map[tsast.NodeID]*typeoracle.Type
	syms    map[tsast.NodeID]*typeoracle.Symbol
	sigs    map[tsast.NodeID]*typeoracle.Signature
	ctx     map[tsast.NodeID]*typeoracle.Type
	consts  map[tsast.NodeID]typeoracle.ConstantValue
	exports map[*typeoracle.Symbol]map[string]*typeoracle.Symbol
	bases   map[*typeoracle.Type][]*typeoracle.Type

	moduleValues map[string]bool
	valueAliases map[tsast.NodeID]bool

	classes     map[string]*classInfo
	enums       map[*typeoracle.Symbol]*enumInfo
	symTypes    map[*typeoracle.Symbol]*typeoracle.Type
	globalTypes map[*typeoracle.Symbol]*typeoracle.Type
}

type enumInfo struct {
	typ    *typeoracle.Type
	values map[string]typeoracle.ConstantValue
	decl   *tsast.EnumDecl
}

type classInfo struct {
	typ     *typeoracle.Type
	members map[string]*memberInfo
	statics map[string]*memberInfo
}

type memberInfo struct {
	typ *typeoracle.Type
	sig *typeoracle.Signature
}

// NewChecker returns an empty checker.
func NewChecker() *Checker {
	return &Checker{
		types:        make(map[tsast.NodeID]*typeoracle.Type),
		syms:         make(map[tsast.NodeID]*typeoracle.Symbol),
		sigs:         make(map[tsast.NodeID]*typeoracle.Signature),
		ctx:          make(map[tsast.NodeID]*typeoracle.Type),
		consts:       make(map[tsast.NodeID]typeoracle.ConstantValue),
		exports:      make(map[*typeoracle.Symbol]map[string]*typeoracle.Symbol),
		bases:        make(map[*typeoracle.Type][]*typeoracle.Type),
		moduleValues: make(map[string]bool),
		valueAliases: make(map[tsast.NodeID]bool),
		classes:      make(map[string]*classInfo),
	}
}

// SetType records the type of a node. Tests use the setters directly when
// they need shapes the binder does not infer.
func (c *Checker) SetType(n tsast.Node, t *typeoracle.Type) {
	c.types[n.Base().ID] = t
}

// SetSymbol records the symbol a node resolves to.
func (c *Checker) SetSymbol(n tsast.Node, s *typeoracle.Symbol) {
	c.syms[n.Base().ID] = s
}

// SetSignature records the resolved signature of a call node.
func (c *Checker) SetSignature(n tsast.Node, s *typeoracle.Signature) {
	c.sigs[n.Base().ID] = s
}

// SetContextualType records the expected type at a node's position.
func (c *Checker) SetContextualType(n tsast.Node, t *typeoracle.Type) {
	c.ctx[n.Base().ID] = t
}

// SetConstantValue records a folded const-enum member value.
func (c *Checker) SetConstantValue(n tsast.Node, v typeoracle.ConstantValue) {
	c.consts[n.Base().ID] = v
}

// AddExport registers name in the export table of scope.
func (c *Checker) AddExport(scope *typeoracle.Symbol, name string, sym *typeoracle.Symbol) {
	tbl := c.exports[scope]
	if tbl == nil {
		tbl = make(map[string]*typeoracle.Symbol)
		c.exports[scope] = tbl
	}
	tbl[name] = sym
}

// SetModuleExportsValue marks a module path as exporting at least one value.
func (c *Checker) SetModuleExportsValue(path string, ok bool) {
	c.moduleValues[path] = ok
}

// SetValueAlias marks an import specifier as a referenced value alias.
func (c *Checker) SetValueAlias(n tsast.Node, ok bool) {
	c.valueAliases[n.Base().ID] = ok
}

// --- typeoracle.Oracle ---

func (c *Checker) TypeOf(n tsast.Node) *typeoracle.Type {
	if n == nil {
		return nil
	}
	if t, ok := c.types[n.Base().ID]; ok {
		return t
	}
	// identifiers fall back to their symbol's declared type
	if sym := c.syms[n.Base().ID]; sym != nil {
		if t, ok := c.symTypes[sym]; ok {
			return t
		}
		if t, ok := c.globalTypes[sym]; ok {
			return t
		}
	}
	return nil
}

func (c *Checker) TypeFromAnnotation(annotation string) *typeoracle.Type {
	return c.parseAnnotation(annotation)
}

func (c *Checker) SymbolOf(n tsast.Node) *typeoracle.Symbol {
	if n == nil {
		return nil
	}
	return c.syms[n.Base().ID]
}

func (c *Checker) SymbolDeclarations(s *typeoracle.Symbol) []tsast.Node {
	if s == nil {
		return nil
	}
	return s.Decls
}

func (c *Checker) ExportsOf(scope *typeoracle.Symbol) map[string]*typeoracle.Symbol {
	return c.exports[scope]
}

func (c *Checker) FullyQualifiedName(s *typeoracle.Symbol) string {
	if s == nil {
		return ""
	}
	parts := []string{s.Name}
	for p := s.Parent; p != nil; p = p.Parent {
		parts = append([]string{p.Name}, parts...)
	}
	return strings.Join(parts, ".")
}

func (c *Checker) ResolvedSignature(call tsast.Node) *typeoracle.Signature {
	if call == nil {
		return nil
	}
	return c.sigs[call.Base().ID]
}

func (c *Checker) SignaturesOfType(t *typeoracle.Type) []*typeoracle.Signature {
	if t == nil {
		return nil
	}
	return t.Sigs
}

func (c *Checker) ContextualType(n tsast.Node) *typeoracle.Type {
	if n == nil {
		return nil
	}
	return c.ctx[n.Base().ID]
}

func (c *Checker) BaseConstraintOf(t *typeoracle.Type) *typeoracle.Type {
	// type parameters are opaque to the reference checker
	return nil
}

func (c *Checker) BaseTypesOf(t *typeoracle.Type) []*typeoracle.Type {
	return c.bases[t]
}

func (c *Checker) ConstantValueOf(n tsast.Node) (typeoracle.ConstantValue, bool) {
	if n == nil {
		return typeoracle.ConstantValue{}, false
	}
	v, ok := c.consts[n.Base().ID]
	return v, ok
}

func (c *Checker) EmitResolver(file *tsast.SourceFile) typeoracle.EmitResolver {
	return emitResolver{c: c}
}

type emitResolver struct{ c *Checker }

func (r emitResolver) IsValueAliasDeclaration(n tsast.Node) bool {
	if n == nil {
		return false
	}
	ok, recorded := r.c.valueAliases[n.Base().ID]
	if !recorded {
		// невыставленный алиас считаем значением
		return true
	}
	return ok
}

func (r emitResolver) IsReferencedAliasDeclaration(n tsast.Node) bool {
	return r.IsValueAliasDeclaration(n)
}

func (r emitResolver) IsTopLevelValueImportEqualsWithEntityName(n tsast.Node) bool {
	return false
}

func (r emitResolver) ModuleExportsSomeValue(modulePath string) bool {
	ok, recorded := r.c.moduleValues[modulePath]
	if !recorded {
		return true
	}
	return ok
}
