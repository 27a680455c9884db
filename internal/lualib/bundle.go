package lualib

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed runtime/*.lua
var runtimeFS embed.FS

// LoadFeature returns the Lua source implementing f.
func LoadFeature(f Feature) (string, error) {
	data, err := runtimeFS.ReadFile("runtime/" + string(f) + ".lua")
	if err != nil {
		return "", fmt.Errorf("lualib feature %s: %w", f, err)
	}
	return string(data), nil
}

// Bundle renders the dependency-closed, deterministically ordered Lua
// source for the given features.
func Bundle(features []Feature) (string, error) {
	reg := NewRegistry()
	for _, f := range features {
		reg.Use(f)
	}
	var sb strings.Builder
	for _, f := range reg.Features() {
		src, err := LoadFeature(f)
		if err != nil {
			return "", err
		}
		sb.WriteString(src)
		if !strings.HasSuffix(src, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// AllFeatures lists every feature, for emitting the complete bundle module.
func AllFeatures() []Feature {
	return []Feature{
		ArrayConcat, ArrayEvery, ArrayFilter, ArrayForEach, ArrayIndexOf,
		ArrayMap, ArrayPush, ArraySlice, ArraySome, ArraySplice, ArrayUnshift,
		ClassIndex, ClassNewIndex, Decorate, Index, NewIndex, InstanceOf,
		InstanceOfObject, Iterator, Map, ObjectAssign, ObjectEntries,
		ObjectKeys, ObjectValues, Set, Spread, StringEndsWith, StringReplace,
		StringSplit, StringStartsWith, SymbolFeature, TypeOf, WeakMap, WeakSet,
	}
}
