package host

import (
	"encoding/json"
	"fmt"
	"sort"

	"tstl/internal/source"
	"tstl/internal/tsast"
)

// ParseJSONModule builds the TSL tree for a file flagged as JSON: a
// SourceFile whose JSONValue lowers to `return <expr>`. Object keys are
// sorted so emission is deterministic.
func ParseJSONModule(file *source.File) (*tsast.SourceFile, error) {
	var value any
	if err := json.Unmarshal(file.Content, &value); err != nil {
		return nil, fmt.Errorf("%s: invalid JSON file content: %w", file.Path, err)
	}
	root := &tsast.SourceFile{
		Path:      file.Path,
		Flags:     file.Flags | source.FileJSON,
		JSONValue: jsonExpr(value, file.ID),
	}
	root.Span = source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}
	tsast.Index(root)
	return root, nil
}

func jsonExpr(v any, fileID source.FileID) tsast.Expr {
	switch value := v.(type) {
	case nil:
		return &tsast.NullLit{}
	case bool:
		return &tsast.BoolLit{Value: value}
	case float64:
		return &tsast.NumberLit{Value: value}
	case string:
		return &tsast.StringLit{Value: value}
	case []any:
		lit := &tsast.ArrayLit{}
		for _, el := range value {
			lit.Elements = append(lit.Elements, jsonExpr(el, fileID))
		}
		return lit
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lit := &tsast.ObjectLit{}
		for _, k := range keys {
			lit.Props = append(lit.Props, &tsast.ObjectProp{
				Name:  &tsast.Ident{Text: k},
				Value: jsonExpr(value[k], fileID),
			})
		}
		return lit
	default:
		return &tsast.NullLit{}
	}
}
