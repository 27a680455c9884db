package statictypes

import (
	"strings"

	"tstl/internal/typeoracle"
)

// parseAnnotation resolves a written type annotation to a Type. The grammar
// is intentionally small: primitive names, `T[]`, `Array<T>`, tuples
// `[A, B]`, unions `A | B` and bare nominal names. Any other text resolves
// to a nominal object type of that name; an empty annotation yields nil,
// which the transformer treats as any.
func (c *Checker) parseAnnotation(s string) *typeoracle.Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// unions split at the top nesting level
	if parts := splitTop(s, '|'); len(parts) > 1 {
		members := make([]*typeoracle.Type, 0, len(parts))
		for _, p := range parts {
			m := c.parseAnnotation(p)
			if m == nil {
				m = typeoracle.Any
			}
			members = append(members, m)
		}
		return typeoracle.UnionOf(members...)
	}

	if strings.HasSuffix(s, "[]") {
		elem := c.parseAnnotation(s[:len(s)-2])
		if elem == nil {
			elem = typeoracle.Any
		}
		return typeoracle.ArrayOf(elem)
	}

	if strings.HasPrefix(s, "Array<") && strings.HasSuffix(s, ">") {
		elem := c.parseAnnotation(s[len("Array<") : len(s)-1])
		if elem == nil {
			elem = typeoracle.Any
		}
		return typeoracle.ArrayOf(elem)
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := splitTop(s[1:len(s)-1], ',')
		members := make([]*typeoracle.Type, 0, len(parts))
		for _, p := range parts {
			m := c.parseAnnotation(p)
			if m == nil {
				m = typeoracle.Any
			}
			members = append(members, m)
		}
		return typeoracle.TupleOf(members...)
	}

	switch s {
	case "number":
		return typeoracle.Number
	case "string":
		return typeoracle.String
	case "boolean":
		return typeoracle.Boolean
	case "void":
		return typeoracle.Void
	case "undefined":
		return typeoracle.Undefined
	case "null":
		return typeoracle.Null
	case "never":
		return typeoracle.Never
	case "any":
		return typeoracle.Any
	case "unknown":
		return typeoracle.Unknown
	}

	if strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") && len(s) >= 2 {
		return typeoracle.StringLiteralOf(s[1 : len(s)-1])
	}

	if ci, ok := c.classes[s]; ok {
		return ci.typ
	}
	return typeoracle.ObjectNamed(s)
}

// splitTop splits s at sep occurrences outside brackets and angle brackets.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '<', '(':
			depth++
		case ']', '>', ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}
