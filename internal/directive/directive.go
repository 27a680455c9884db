// Package directive parses and queries the doc-comment annotations that
// alter how declarations are lowered. Directive names form a closed set;
// unknown names are warned about and ignored.
package directive

import (
	"fmt"
	"strings"

	"tstl/internal/diag"
	"tstl/internal/source"
	"tstl/internal/tsast"
)

// Kind enumerates the supported directives.
type Kind uint8

const (
	KindInvalid Kind = iota
	Extension
	MetaExtension
	PureAbstract
	NoResolution
	NoSelf
	NoSelfInFile
	Phantom
	TupleReturn
	LuaIterator
	LuaTable
	ForRange
	Vararg
	CompileMembersOnly
	CustomConstructor
)

var kindNames = map[string]Kind{
	"extension":          Extension,
	"metaExtension":      MetaExtension,
	"pureAbstract":       PureAbstract,
	"noResolution":       NoResolution,
	"noSelf":             NoSelf,
	"noSelfInFile":       NoSelfInFile,
	"phantom":            Phantom,
	"tupleReturn":        TupleReturn,
	"luaIterator":        LuaIterator,
	"luaTable":           LuaTable,
	"forRange":           ForRange,
	"vararg":             Vararg,
	"compileMembersOnly": CompileMembersOnly,
	"customConstructor":  CustomConstructor,
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "invalid"
}

// Directive is one parsed annotation with its whitespace-separated
// arguments.
type Directive struct {
	Kind Kind
	Args []string
}

// FromDoc parses the directives out of raw doc-comment lines. Two syntaxes
// are accepted: structured `@name args` tags and the deprecated `!name
// args` text form, which still works but draws a warning. Unknown names
// are warned about and dropped.
func FromDoc(doc []string, span source.Span, r diag.Reporter) []Directive {
	var out []Directive
	for _, line := range doc {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var name string
		var rest string
		switch line[0] {
		case '@':
			name, rest = splitTag(line[1:])
		case '!':
			name, rest = splitTag(line[1:])
			diag.ReportWarning(r, diag.WarnDeprecatedDirectiveSyntax, span,
				fmt.Sprintf("[deprecated] '!%s': use '@%s' instead", name, name))
		default:
			continue
		}
		kind, ok := kindNames[name]
		if !ok {
			diag.ReportWarning(r, diag.WarnUnknownDirective, span,
				fmt.Sprintf("unknown directive '%s'", name))
			continue
		}
		d := Directive{Kind: kind}
		if rest != "" {
			d.Args = strings.Fields(rest)
		}
		out = append(out, d)
	}
	return out
}

func splitTag(s string) (name, rest string) {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// Has reports whether list contains a directive of kind.
func Has(list []Directive, kind Kind) bool {
	for _, d := range list {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Get returns the first directive of kind in list.
func Get(list []Directive, kind Kind) (Directive, bool) {
	for _, d := range list {
		if d.Kind == kind {
			return d, true
		}
	}
	return Directive{}, false
}

// ForNode parses the directives attached to a single node's doc comment.
func ForNode(n tsast.Node, r diag.Reporter) []Directive {
	if n == nil {
		return nil
	}
	base := n.Base()
	return FromDoc(base.Doc, base.Span, r)
}

// ForFile reads file-level directives from the doc comment of the first
// top-level statement, matching where headers like @noSelfInFile live.
func ForFile(f *tsast.SourceFile, r diag.Reporter) []Directive {
	if f == nil || len(f.Stmts) == 0 {
		return nil
	}
	return ForNode(f.Stmts[0], r)
}
