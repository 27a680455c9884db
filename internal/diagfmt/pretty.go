// Package diagfmt renders diagnostics for terminals: a location header,
// the offending source line and a caret run underneath it. Layering
// mirrors the rest of the pipeline: diag carries data, diagfmt formats it.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tstl/internal/diag"
	"tstl/internal/source"
)

// PrettyOpts controls rendering.
type PrettyOpts struct {
	Color    bool
	PathMode string // "absolute", "relative", "basename", "auto"
	BaseDir  string
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// Pretty formats diagnostics one frame per entry:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  <caret run>
//
// Call bag.Sort() first for deterministic output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	if opts.BaseDir == "" {
		opts.BaseDir = fs.BaseDir()
	}
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... and %d more diagnostics (raise --max-diagnostics)\n", n)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(d.Primary)

	pathText := file.FormatPath(opts.PathMode, opts.BaseDir)
	sev := severityLabel(d.Severity, opts.Color)
	header := fmt.Sprintf("%s:%d:%d", pathText, start.Line, start.Col)
	if opts.Color {
		header = posColor.Sprint(header)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", header, sev, d.Code, d.Message)

	writeSnippet(w, file, start, end)

	for _, note := range d.Notes {
		nfile := fs.Get(note.Span.File)
		if nfile == nil {
			continue
		}
		nstart, _ := fs.Resolve(note.Span)
		fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
			nfile.FormatPath(opts.PathMode, opts.BaseDir), nstart.Line, nstart.Col, note.Msg)
	}
}

func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol) {
	lineText := file.GetLine(start.Line)
	if lineText == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", lineText)

	// caret column math is rune-width aware so multi-byte identifiers
	// line up
	prefix := lineText
	if int(start.Col-1) <= len(lineText) {
		prefix = lineText[:start.Col-1]
	}
	pad := runewidth.StringWidth(prefix)

	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		caretLen = int(end.Col - start.Col)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), strings.Repeat("^", caretLen))
}

func severityLabel(s diag.Severity, colorize bool) string {
	if !colorize {
		return s.String()
	}
	switch s {
	case diag.SevError:
		return errColor.Sprint(s.String())
	case diag.SevWarning:
		return warnColor.Sprint(s.String())
	default:
		return infoColor.Sprint(s.String())
	}
}
