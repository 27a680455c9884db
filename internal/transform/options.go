package transform

import (
	"fmt"

	"tstl/internal/lualib"
)

// Target selects the Lua dialect generation is aimed at. It controls
// bitwise-operator lowering, goto availability and the unpack spelling.
type Target uint8

const (
	// TargetLowest is Lua 5.1: no goto, no bitwise support at all.
	TargetLowest Target = iota
	// TargetMid is Lua 5.2: goto, bit32 library.
	TargetMid
	// TargetNative is Lua 5.3/5.4: native bitwise operators.
	TargetNative
	// TargetJit is LuaJIT: goto, the bit library, 5.1 unpack.
	TargetJit
)

func (t Target) String() string {
	switch t {
	case TargetLowest:
		return "lowest"
	case TargetMid:
		return "mid"
	case TargetNative:
		return "native"
	case TargetJit:
		return "jit"
	default:
		return "invalid"
	}
}

// ParseTarget parses the manifest spelling of t.
func ParseTarget(s string) (Target, bool) {
	switch s {
	case "lowest":
		return TargetLowest, true
	case "mid", "":
		return TargetMid, true
	case "native":
		return TargetNative, true
	case "jit":
		return TargetJit, true
	default:
		return TargetMid, false
	}
}

// SupportsGoto reports whether the dialect has goto/labels; switch
// lowering requires them.
func (t Target) SupportsGoto() bool {
	return t != TargetLowest
}

// NativeBitwise reports whether native bitwise operators exist.
func (t Target) NativeBitwise() bool {
	return t == TargetNative
}

// BitLibrary returns the library routed to for bitwise operations, or ""
// when none is available.
func (t Target) BitLibrary() string {
	switch t {
	case TargetMid:
		return "bit32"
	case TargetJit:
		return "bit"
	default:
		return ""
	}
}

// UnpackSpelling returns how list unpacking is written on this dialect.
func (t Target) UnpackSpelling() (table bool) {
	return t == TargetMid || t == TargetNative
}

// Options is the host configuration bundle consumed by the transformer.
type Options struct {
	LuaTarget        Target
	LuaLibImport     lualib.ImportKind
	RootDir          string
	BaseURL          string
	NoHoisting       bool
	Strict           bool
	StrictNullChecks bool
	AlwaysStrict     bool
}

// Fingerprint renders the option fields that influence emitted Lua into a
// stable string. The host keys its chunk cache on it: any change that
// could alter output invalidates cached chunks.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("target=%s;lib=%s;root=%s;base=%s;nohoist=%t;strict=%t;nulls=%t;always=%t",
		o.LuaTarget, o.LuaLibImport, o.RootDir, o.BaseURL,
		o.NoHoisting, o.Strict, o.StrictNullChecks, o.AlwaysStrict)
}
