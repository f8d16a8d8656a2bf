package lint_test

import (
	"context"
	"fmt"
	"testing"

	"krllint/internal/ast"
	"krllint/internal/diag"
	"krllint/internal/lexer"
	"krllint/internal/lint"
	"krllint/internal/parser"
	"krllint/internal/source"
)

type unit struct {
	fs   *source.FileSet
	unit *lint.Unit
}

func parse(t *testing.T, name, src string) unit {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	id := fs.AddVirtual(name, []byte(src))
	f := fs.Get(id)
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}

	lx := lexer.New(f, lexer.Options{Reporter: rep, KeepTokens: true})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(context.Background(), fs, lx, b, parser.Options{Reporter: rep})
	if bag.Len() != 0 {
		t.Fatalf("test source does not parse cleanly: %s", diag.FormatShortDiagnostics(bag.Items(), fs, false))
	}
	return unit{fs: fs, unit: &lint.Unit{Builder: b, File: res.File, Source: f, Tokens: lx.Tokens()}}
}

// defaults configures rules with their declared severity and options,
// enabled or not.
func defaults(rules ...lint.Rule) []lint.Configured {
	out := make([]lint.Configured, len(rules))
	for i, r := range rules {
		out[i] = lint.Configured{Rule: r, Severity: r.Meta().DefaultSeverity}
	}
	return out
}

func run(t *testing.T, u unit, rules []lint.Configured) []diag.Diagnostic {
	t.Helper()
	bag, err := lint.Analyze(context.Background(), u.unit, rules)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return bag.Finalize()
}

// findings renders "RULE line:col message" per diagnostic.
func (u unit) findings(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		pos, _ := u.fs.Resolve(d.Primary)
		out = append(out, fmt.Sprintf("%s %d:%d %s", d.Rule(), pos.Line, pos.Col, d.Message))
	}
	return out
}

// check parses src as name, runs rule alone and returns the findings.
func check(t *testing.T, name, src string, rule lint.Rule) []string {
	t.Helper()
	u := parse(t, name, src)
	return u.findings(run(t, u, defaults(rule)))
}
