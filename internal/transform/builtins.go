package transform

import (
	"tstl/internal/diag"
	"tstl/internal/lualib"
	"tstl/internal/luaast"
	"tstl/internal/tsast"
)

// transformBuiltinCall dispatches method calls on built-in receivers
// (strings, arrays, Math, console, Object, Symbol) to their intrinsic
// lowerings. It returns nil when the receiver is not a built-in so the
// generic call path takes over.
func (t *Transformer) transformBuiltinCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	if pa.Name == "hasOwnProperty" && len(call.Args) == 1 {
		// rawget deliberately ignores inherited properties
		rg := luaast.NewCall(luaast.NewAnonymousIdentifier("rawget", call),
			[]luaast.Expr{t.transformExpr(pa.Expr), t.transformExpr(call.Args[0])}, call)
		return luaast.NewBinaryExpr(luaast.BinaryNeq, rg, luaast.NewNil(call), call)
	}

	recvType := t.oracle.TypeOf(pa.Expr)
	switch {
	case recvType.IsString():
		return t.transformStringCall(call, pa)
	case recvType.IsArray():
		return t.transformArrayCall(call, pa)
	}
	if recvType == nil {
		return nil
	}
	switch recvType.Name {
	case "Math":
		return t.transformMathCall(call, pa)
	case "Console":
		return t.transformConsoleCall(call, pa)
	case "ObjectConstructor":
		return t.transformObjectCall(call, pa)
	case "SymbolConstructor":
		t.useFeature(lualib.SymbolFeature)
		return nil
	}
	return nil
}

func (t *Transformer) transformStringCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	recv := t.transformExpr(pa.Expr)
	args := t.transformCallArgs(call.Args)
	str := func(name string) luaast.Expr {
		return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("string", call), name, call)
	}
	lib := func(feature lualib.Feature, helper string) luaast.Expr {
		t.useFeature(feature)
		return luaast.NewCall(luaast.NewAnonymousIdentifier(helper, call),
			append([]luaast.Expr{recv}, args...), call)
	}
	plusOne := func(e luaast.Expr) luaast.Expr {
		if lit, ok := e.(*luaast.NumericLiteral); ok {
			return luaast.NewNumber(lit.Value+1, call)
		}
		return luaast.NewBinaryExpr(luaast.BinaryAdd, e, luaast.NewNumber(1, call), call)
	}

	switch pa.Name {
	case "split":
		return lib(lualib.StringSplit, "__TS__StringSplit")
	case "replace":
		return lib(lualib.StringReplace, "__TS__StringReplace")
	case "startsWith":
		return lib(lualib.StringStartsWith, "__TS__StringStartsWith")
	case "endsWith":
		return lib(lualib.StringEndsWith, "__TS__StringEndsWith")
	case "toUpperCase":
		return luaast.NewCall(str("upper"), []luaast.Expr{recv}, call)
	case "toLowerCase":
		return luaast.NewCall(str("lower"), []luaast.Expr{recv}, call)
	case "repeat":
		return luaast.NewCall(str("rep"), append([]luaast.Expr{recv}, args...), call)
	case "charAt":
		if len(args) == 1 {
			idx := plusOne(args[0])
			return luaast.NewCall(str("sub"), []luaast.Expr{recv, idx, idx}, call)
		}
	case "charCodeAt":
		if len(args) == 1 {
			return luaast.NewCall(str("byte"), []luaast.Expr{recv, plusOne(args[0])}, call)
		}
	case "substring", "slice":
		if len(args) >= 1 {
			out := []luaast.Expr{recv, plusOne(args[0])}
			if len(args) >= 2 {
				out = append(out, args[1])
			}
			return luaast.NewCall(str("sub"), out, call)
		}
	case "indexOf":
		if len(args) == 1 {
			// (string.find(s, pattern, 1, true) or 0) - 1
			find := luaast.NewCall(str("find"),
				[]luaast.Expr{recv, args[0], luaast.NewNumber(1, call), luaast.NewBoolean(true, call)}, call)
			or := luaast.NewParen(luaast.NewBinaryExpr(luaast.BinaryOr, find, luaast.NewNumber(0, call), call), call)
			return luaast.NewBinaryExpr(luaast.BinarySub, or, luaast.NewNumber(1, call), call)
		}
	case "toString":
		return luaast.NewCall(luaast.NewAnonymousIdentifier("tostring", call), []luaast.Expr{recv}, call)
	}
	t.fail(diag.UnsupportedProperty, call, "unsupported string method '%s'", pa.Name)
	return nil
}

func (t *Transformer) transformArrayCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	recv := t.transformExpr(pa.Expr)
	args := t.transformCallArgs(call.Args)
	lib := func(feature lualib.Feature, helper string) luaast.Expr {
		t.useFeature(feature)
		return luaast.NewCall(luaast.NewAnonymousIdentifier(helper, call),
			append([]luaast.Expr{recv}, args...), call)
	}
	tbl := func(name string) luaast.Expr {
		return luaast.NewDotAccess(luaast.NewAnonymousIdentifier("table", call), name, call)
	}

	switch pa.Name {
	case "push":
		return lib(lualib.ArrayPush, "__TS__ArrayPush")
	case "unshift":
		return lib(lualib.ArrayUnshift, "__TS__ArrayUnshift")
	case "concat":
		return lib(lualib.ArrayConcat, "__TS__ArrayConcat")
	case "forEach":
		return lib(lualib.ArrayForEach, "__TS__ArrayForEach")
	case "map":
		return lib(lualib.ArrayMap, "__TS__ArrayMap")
	case "filter":
		return lib(lualib.ArrayFilter, "__TS__ArrayFilter")
	case "some":
		return lib(lualib.ArraySome, "__TS__ArraySome")
	case "every":
		return lib(lualib.ArrayEvery, "__TS__ArrayEvery")
	case "indexOf":
		return lib(lualib.ArrayIndexOf, "__TS__ArrayIndexOf")
	case "slice":
		return lib(lualib.ArraySlice, "__TS__ArraySlice")
	case "splice":
		return lib(lualib.ArraySplice, "__TS__ArraySplice")
	case "pop":
		return luaast.NewCall(tbl("remove"), []luaast.Expr{recv}, call)
	case "shift":
		return luaast.NewCall(tbl("remove"), []luaast.Expr{recv, luaast.NewNumber(1, call)}, call)
	case "join":
		out := []luaast.Expr{recv}
		if len(args) > 0 {
			out = append(out, args...)
		} else {
			out = append(out, luaast.NewString(",", call))
		}
		return luaast.NewCall(tbl("concat"), out, call)
	case "sort":
		return luaast.NewCall(tbl("sort"), append([]luaast.Expr{recv}, args...), call)
	}
	t.fail(diag.UnsupportedProperty, call, "unsupported array method '%s'", pa.Name)
	return nil
}

func (t *Transformer) transformMathCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	args := t.transformCallArgs(call.Args)
	math := func(name string, callArgs ...luaast.Expr) luaast.Expr {
		fn := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("math", call), name, call)
		return luaast.NewCall(fn, callArgs, call)
	}

	switch pa.Name {
	case "atan2":
		if len(args) == 2 {
			return math("atan", luaast.NewBinaryExpr(luaast.BinaryDiv, args[0], args[1], call))
		}
	case "log10":
		if len(args) == 1 {
			return luaast.NewBinaryExpr(luaast.BinaryDiv,
				math("log", args[0]), luaast.NewNumber(mathConstants["LN10"], call), call)
		}
	case "log2":
		if len(args) == 1 {
			return luaast.NewBinaryExpr(luaast.BinaryDiv,
				math("log", args[0]), luaast.NewNumber(mathConstants["LN2"], call), call)
		}
	case "log1p":
		if len(args) == 1 {
			return math("log", luaast.NewBinaryExpr(luaast.BinaryAdd,
				luaast.NewNumber(1, call), args[0], call))
		}
	case "round":
		if len(args) == 1 {
			return math("floor", luaast.NewBinaryExpr(luaast.BinaryAdd,
				args[0], luaast.NewNumber(0.5, call), call))
		}
	case "pow":
		if len(args) == 2 {
			return luaast.NewBinaryExpr(luaast.BinaryPow, args[0], args[1], call)
		}
	case "abs", "ceil", "floor", "sqrt", "sin", "cos", "tan", "asin", "acos", "atan",
		"exp", "log", "max", "min", "random", "fmod", "modf":
		return math(pa.Name, args...)
	}
	t.fail(diag.UnsupportedProperty, call, "unsupported Math method '%s'", pa.Name)
	return nil
}

func (t *Transformer) transformConsoleCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	args := t.transformCallArgs(call.Args)
	switch pa.Name {
	case "log", "info", "warn", "error", "debug":
		return luaast.NewCall(luaast.NewAnonymousIdentifier("print", call), args, call)
	case "assert":
		return luaast.NewCall(luaast.NewAnonymousIdentifier("assert", call), args, call)
	case "trace":
		traceback := luaast.NewDotAccess(luaast.NewAnonymousIdentifier("debug", call), "traceback", call)
		return luaast.NewCall(luaast.NewAnonymousIdentifier("print", call),
			[]luaast.Expr{luaast.NewCall(traceback, args, call)}, call)
	}
	t.fail(diag.UnsupportedProperty, call, "unsupported console method '%s'", pa.Name)
	return nil
}

func (t *Transformer) transformObjectCall(call *tsast.Call, pa *tsast.PropertyAccess) luaast.Expr {
	args := t.transformCallArgs(call.Args)
	lib := func(feature lualib.Feature, helper string) luaast.Expr {
		t.useFeature(feature)
		return luaast.NewCall(luaast.NewAnonymousIdentifier(helper, call), args, call)
	}
	switch pa.Name {
	case "assign":
		return lib(lualib.ObjectAssign, "__TS__ObjectAssign")
	case "keys":
		return lib(lualib.ObjectKeys, "__TS__ObjectKeys")
	case "values":
		return lib(lualib.ObjectValues, "__TS__ObjectValues")
	case "entries":
		return lib(lualib.ObjectEntries, "__TS__ObjectEntries")
	}
	t.fail(diag.UnsupportedProperty, call, "unsupported Object method '%s'", pa.Name)
	return nil
}
