package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <RULE>: <Message>
//
// затем строки контекста с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			bw.WriteByte('\n')
		}
		prettyOne(bw, d, fs, opts, p)
	}
	return bw.Flush()
}

func prettyOne(w *bufio.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	p.path.Fprintf(w, "%s:%d:%d:", opts.PathMode.format(file, fs), start.Line, start.Col)
	w.WriteByte(' ')
	p.severity(d.Severity).Fprint(w, d.Severity.String())
	w.WriteByte(' ')
	p.rule.Fprint(w, d.Rule())
	fmt.Fprintf(w, ": %s\n", diag.SanitizeMessage(d.Message))

	writeSnippet(w, file, d.Primary, start.Line, int(opts.Context), p, p.caret)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			p.note.Fprint(w, "  note")
			fmt.Fprintf(w, ": %s:%d:%d: %s\n", opts.PathMode.format(fs.Get(n.Span.File), fs), ns.Line, ns.Col, n.Msg)
			if n.Span.File == d.Primary.File && ns.Line != start.Line {
				writeSnippet(w, fs.Get(n.Span.File), n.Span, ns.Line, 0, p, p.note)
			}
		}
	}

	if opts.ShowFixes {
		for _, f := range d.Fixes {
			p.fix.Fprint(w, "  fix")
			fmt.Fprintf(w, ": %s (%s)\n", f.Title, f.Applicability)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range f.Edits {
				before, after, ok := previewEdit(fs, e)
				if !ok {
					continue
				}
				for _, line := range before {
					p.removed.Fprintf(w, "    - %s\n", line)
				}
				for _, line := range after {
					p.added.Fprintf(w, "    + %s\n", line)
				}
			}
		}
	}
}

// writeSnippet prints the lines around line with a gutter and underlines
// the part of sp that lies on line.
func writeSnippet(w *bufio.Writer, file *source.File, sp source.Span, line uint32, context int, p palette, mark *color.Color) {
	// диагностика в конце файла стоит на строке после последнего '\n'
	count := max(file.LineCount(), line)
	first := int(line) - context
	if first < 1 {
		first = 1
	}
	last := int(line) + context
	if last > int(count) {
		last = int(count)
	}
	width := len(strconv.Itoa(last))

	for n := first; n <= last; n++ {
		text := file.GetLine(uint32(n))
		p.gutter.Fprintf(w, "%*d | ", width, n)
		w.WriteString(text)
		w.WriteByte('\n')
		if n != int(line) {
			continue
		}
		lineSpan := file.LineSpan(uint32(n))
		from := clampOffset(sp.Start, lineSpan) - lineSpan.Start
		to := clampOffset(sp.End, lineSpan) - lineSpan.Start
		p.gutter.Fprintf(w, "%*s | ", width, "")
		w.WriteString(padTo(text[:from]))
		mark.Fprint(w, underline(text[from:to]))
		w.WriteByte('\n')
	}
}

func clampOffset(off uint32, line source.Span) uint32 {
	if off < line.Start {
		return line.Start
	}
	if off > line.End {
		return line.End
	}
	return off
}

// padTo returns blanks as wide as prefix on a terminal; tabs are kept so the
// caret lines up under tab-indented code.
func padTo(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text string) string {
	n := runewidth.StringWidth(text)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}
