package diagfmt

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"metalint/internal/diag"
	"metalint/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errors, warnings := 0, 0
	for _, d := range bag.Items() {
		if opts.NoWarnings && d.Severity == diag.SevWarning {
			continue
		}
		switch d.Severity {
		case diag.SevError:
			errors++
		case diag.SevWarning:
			warnings++
		}
		printDiagnostic(w, d, fs, opts)
	}

	if errors+warnings > 0 {
		fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errors, warnings)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	start, _ := fs.Resolve(d.Primary)
	loc := formatPath(fs, d.Primary.File, opts.PathMode)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", loc, start.Line, start.Col, sev, code, d.Message)

	printContext(w, fs, d.Primary, start, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nStart, _ := fs.Resolve(n.Span)
			nLoc := formatPath(fs, n.Span.File, opts.PathMode)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", nLoc, nStart.Line, nStart.Col, n.Msg)
		}
	}
}

// printContext печатает строку исходника и подчёркивание. Ширина каретки
// считается в экранных колонках, чтобы табы и широкие руны не ломали выравнивание.
func printContext(w io.Writer, fs *source.FileSet, sp source.Span, start source.LineCol, opts PrettyOpts) {
	file := fs.Get(sp.File)
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	prefixBytes := int(start.Col) - 1
	if prefixBytes > len(line) {
		prefixBytes = len(line)
	}
	spanBytes := int(sp.Len())
	if prefixBytes+spanBytes > len(line) {
		spanBytes = len(line) - prefixBytes
	}
	if spanBytes < 0 {
		spanBytes = 0
	}

	pad := runewidth.StringWidth(expandTabs(line[:prefixBytes]))
	width := runewidth.StringWidth(line[prefixBytes : prefixBytes+spanBytes])
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = severityColorForMarker().Sprint(marker)
	}
	fmt.Fprintf(w, "  %s\n", expandTabs(line))
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

func severityColorForMarker() *color.Color {
	return color.New(color.FgGreen, color.Bold)
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	p := fs.Get(id).Path
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.Join(fs.Root(), filepath.FromSlash(p))); err == nil {
			return abs
		}
		return p
	case PathModeBasename:
		return path.Base(p)
	default:
		return p
	}
}
