// Package lualib tracks which runtime-support features the emitted Lua
// uses and serves their hand-written Lua implementations. The registry is
// a monotonic set: entries accumulate for the whole compilation and are
// serialised once by the host.
package lualib

import (
	"sort"
)

// Feature names one runtime helper bundle. The string value is stable and
// appears in cache manifests.
type Feature string

const (
	ArrayConcat     Feature = "ArrayConcat"
	ArrayEvery      Feature = "ArrayEvery"
	ArrayFilter     Feature = "ArrayFilter"
	ArrayForEach    Feature = "ArrayForEach"
	ArrayIndexOf    Feature = "ArrayIndexOf"
	ArrayMap        Feature = "ArrayMap"
	ArrayPush       Feature = "ArrayPush"
	ArraySlice      Feature = "ArraySlice"
	ArraySome       Feature = "ArraySome"
	ArraySplice     Feature = "ArraySplice"
	ArrayUnshift    Feature = "ArrayUnshift"
	ClassIndex      Feature = "ClassIndex"
	ClassNewIndex   Feature = "ClassNewIndex"
	Decorate        Feature = "Decorate"
	Index           Feature = "Index"
	NewIndex        Feature = "NewIndex"
	InstanceOf      Feature = "InstanceOf"
	InstanceOfObject Feature = "InstanceOfObject"
	Iterator        Feature = "Iterator"
	Map             Feature = "Map"
	ObjectAssign    Feature = "ObjectAssign"
	ObjectEntries   Feature = "ObjectEntries"
	ObjectKeys      Feature = "ObjectKeys"
	ObjectValues    Feature = "ObjectValues"
	Set             Feature = "Set"
	Spread          Feature = "Spread"
	StringEndsWith  Feature = "StringEndsWith"
	StringReplace   Feature = "StringReplace"
	StringSplit     Feature = "StringSplit"
	StringStartsWith Feature = "StringStartsWith"
	SymbolFeature   Feature = "Symbol"
	TypeOf          Feature = "TypeOf"
	WeakMap         Feature = "WeakMap"
	WeakSet         Feature = "WeakSet"
)

// featureDeps lists features a feature's Lua implementation itself uses.
var featureDeps = map[Feature][]Feature{
	Iterator:   {SymbolFeature},
	Map:        {Iterator},
	Set:        {Iterator},
	WeakMap:    {Iterator},
	WeakSet:    {Iterator},
	ClassIndex: {Index},
	ClassNewIndex: {NewIndex},
}

// Registry is the monotonic set of used features. Pass one instance
// explicitly through transformation state; it is not a singleton.
type Registry struct {
	used map[Feature]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[Feature]struct{})}
}

// Use records f and its transitive dependencies.
func (r *Registry) Use(f Feature) {
	if _, ok := r.used[f]; ok {
		return
	}
	r.used[f] = struct{}{}
	for _, dep := range featureDeps[f] {
		r.Use(dep)
	}
}

// Has reports whether f was recorded.
func (r *Registry) Has(f Feature) bool {
	_, ok := r.used[f]
	return ok
}

// Features returns the recorded set sorted by name for deterministic
// bundle emission.
func (r *Registry) Features() []Feature {
	out := make([]Feature, 0, len(r.used))
	for f := range r.used {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge folds другие used-множества (между файлами) в один реестр.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for f := range other.used {
		r.Use(f)
	}
}

// ImportKind selects how the host materialises the runtime bundle.
type ImportKind uint8

const (
	// ImportInline pastes used helpers at the top of each chunk.
	ImportInline ImportKind = iota
	// ImportRequire emits `require("lualib_bundle")` when features are used.
	ImportRequire
	// ImportAlways emits the require even for files using no features.
	ImportAlways
	// ImportNone emits nothing; the host preloads the runtime.
	ImportNone
)

func (k ImportKind) String() string {
	switch k {
	case ImportInline:
		return "inline"
	case ImportRequire:
		return "require"
	case ImportAlways:
		return "always"
	case ImportNone:
		return "none"
	default:
		return "invalid"
	}
}

// ParseImportKind parses the manifest spelling of k.
func ParseImportKind(s string) (ImportKind, bool) {
	switch s {
	case "inline", "":
		return ImportInline, true
	case "require":
		return ImportRequire, true
	case "always":
		return ImportAlways, true
	case "none":
		return ImportNone, true
	default:
		return ImportInline, false
	}
}

// BundleModuleName is the module path the require import kinds reference.
const BundleModuleName = "lualib_bundle"
