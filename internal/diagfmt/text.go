package diagfmt

import (
	"bufio"
	"io"

	"github.com/fatih/color"

	"krllint/internal/diag"
	"krllint/internal/source"
)

// palette holds the colors of one render; disabled colors print plain text.
type palette struct {
	path    *color.Color
	rule    *color.Color
	note    *color.Color
	gutter  *color.Color
	caret   *color.Color
	fix     *color.Color
	removed *color.Color
	added   *color.Color
	sev     map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		rule:    color.New(color.FgMagenta),
		note:    color.New(color.FgBlue, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		fix:     color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
	}
	all := []*color.Color{p.path, p.rule, p.note, p.gutter, p.caret, p.fix, p.removed, p.added}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.sev[diag.SevInfo]
}

// Text prints one line per diagnostic:
//
//	path:line:col: severity RULE message
func Text(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts TextOpts) error {
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)
	for _, d := range diags {
		start, _ := fs.Resolve(d.Primary)
		path := opts.PathMode.format(fs.Get(d.Primary.File), fs)
		p.path.Fprintf(bw, "%s:%d:%d:", path, start.Line, start.Col)
		bw.WriteByte(' ')
		p.severity(d.Severity).Fprint(bw, d.Severity.Label())
		bw.WriteByte(' ')
		p.rule.Fprint(bw, d.Rule())
		bw.WriteByte(' ')
		bw.WriteString(diag.SanitizeMessage(d.Message))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
