package diag

import (
	"fmt"
	"sort"
	"strings"

	"tstl/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable
// one-line-per-entry representation suitable for golden files and CLI short
// output. Entries are sorted deterministically; the result is "" when the
// input is empty.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = appendGolden(rendered, d, fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for _, r := range rendered {
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n", r.Path, r.Line, r.Column, r.Severity, r.Code, r.Message)
	}
	return sb.String()
}

func appendGolden(out []goldenDiagnostic, d Diagnostic, fs *source.FileSet, includeNotes bool) []goldenDiagnostic {
	file := fs.Get(d.Primary.File)
	if file == nil {
		return out
	}
	start, _ := fs.Resolve(d.Primary)
	out = append(out, goldenDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.String(),
		Path:     file.Path,
		Line:     start.Line,
		Column:   start.Col,
		Message:  d.Message,
	})
	if !includeNotes {
		return out
	}
	for _, n := range d.Notes {
		nfile := fs.Get(n.Span.File)
		if nfile == nil {
			continue
		}
		nstart, _ := fs.Resolve(n.Span)
		out = append(out, goldenDiagnostic{
			Severity: "NOTE",
			Code:     d.Code.String(),
			Path:     nfile.Path,
			Line:     nstart.Line,
			Column:   nstart.Col,
			Message:  n.Msg,
		})
	}
	return out
}
