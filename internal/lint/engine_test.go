package lint_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"krllint/internal/ast"
	"krllint/internal/config"
	"krllint/internal/diag"
	"krllint/internal/lint"
)

const messy = `&ACCESS RVP
def main()
DECL INT unused
x = x  
LOOP
ENDLOOP
RETURN
y = 1
END
`

func everything(t *testing.T) []lint.Configured {
	t.Helper()
	cfg := config.Default()
	cfg.Lint.Enable = []string{"KRL006", "param-direction"}
	rules, err := lint.Configure(lint.DefaultRules(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return rules
}

func TestRuleOrderDoesNotMatter(t *testing.T) {
	u := parse(t, "main.src", messy)
	rules := everything(t)
	want := run(t, u, rules)
	if len(want) == 0 {
		t.Fatal("expected findings")
	}

	reversed := slices.Clone(rules)
	slices.Reverse(reversed)
	rotated := append(slices.Clone(rules[5:]), rules[:5]...)
	for _, order := range [][]lint.Configured{reversed, rotated} {
		if diff := cmp.Diff(want, run(t, u, order)); diff != "" {
			t.Fatalf("findings depend on rule order (-want +got):\n%s", diff)
		}
	}
}

func TestDisabledRuleIsSilent(t *testing.T) {
	u := parse(t, "main.src", messy)
	cfg := config.Default()
	cfg.Lint.Disable = []string{"trailing-whitespace"}
	rules, err := lint.Configure(lint.DefaultRules(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]int{}
	for _, d := range run(t, u, rules) {
		seen[d.Rule()]++
	}
	if seen["KRL008"] != 0 {
		t.Fatalf("disabled rule reported %d findings", seen["KRL008"])
	}
	for _, id := range []string{"KRL004", "KRL007", "KRL010", "KRL011", "KRL013", "KRL018"} {
		if seen[id] == 0 {
			t.Fatalf("%s should still run, got %v", id, seen)
		}
	}
}

func TestConfigureDefaults(t *testing.T) {
	rules, err := lint.Configure(lint.DefaultRules(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, c := range rules {
		ids = append(ids, c.Rule.Meta().ID())
	}
	if slices.Contains(ids, "KRL006") || slices.Contains(ids, "KRL015") {
		t.Fatalf("off-by-default rules enabled: %v", ids)
	}
	if len(ids) != len(lint.DefaultRules())-2 {
		t.Fatalf("got %d rules: %v", len(ids), ids)
	}
}

func TestConfigureTables(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = map[string]map[string]any{
		"krl009":              {"max-length": json.Number("80"), "severity": "warning"},
		"trailing-whitespace": {"enabled": false},
		"goto-usage":          {"enabled": true},
	}
	cfg.Lint.Disable = []string{"KRL006"}
	rules, err := lint.Configure(lint.DefaultRules(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]lint.Configured{}
	for _, c := range rules {
		byID[c.Rule.Meta().ID()] = c
	}
	if _, ok := byID["KRL008"]; ok {
		t.Fatal("KRL008 should be disabled by its table")
	}
	if _, ok := byID["KRL006"]; ok {
		t.Fatal("disable list must win over enabled = true")
	}
	c := byID["KRL009"]
	if c.Severity != diag.SevWarning || c.Options["max-length"] != 80 {
		t.Fatalf("KRL009 = %v %v", c.Severity, c.Options)
	}
}

func TestConfigureErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Config)
		want error
		key  string
	}{
		{"unknown rule in enable", func(c *config.Config) { c.Lint.Enable = []string{"KRL999"} }, lint.ErrUnknownRule, "lint.enable"},
		{"unknown rule table", func(c *config.Config) {
			c.Rules = map[string]map[string]any{"no-such-rule": {}}
		}, lint.ErrUnknownRule, "rules.no-such-rule"},
		{"unknown option", func(c *config.Config) {
			c.Rules = map[string]map[string]any{"KRL009": {"max-len": int64(3)}}
		}, lint.ErrUnknownOption, "rules.KRL009.max-len"},
		{"syntax errors cannot be disabled", func(c *config.Config) { c.Lint.Disable = []string{"SYN2001"} }, lint.ErrNotConfigurable, "lint.disable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.edit(cfg)
			_, err := lint.Configure(lint.DefaultRules(), cfg)
			var cerr *config.Error
			if !errors.As(err, &cerr) || !errors.Is(err, tt.want) {
				t.Fatalf("want %v as *config.Error, got %v", tt.want, err)
			}
			if cerr.Key != tt.key {
				t.Fatalf("key = %q, want %q", cerr.Key, tt.key)
			}
		})
	}
}

func TestConfigureBadOptionType(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = map[string]map[string]any{"KRL009": {"max-length": "wide"}}
	_, err := lint.Configure(lint.DefaultRules(), cfg)
	var cerr *config.Error
	if !errors.As(err, &cerr) || cerr.Key != "rules.KRL009.max-length" {
		t.Fatalf("got %v", err)
	}
}

func TestSeverityOverride(t *testing.T) {
	u := parse(t, "main.src", "DEF main() \nEND\n")
	cfg := config.Default()
	cfg.Rules = map[string]map[string]any{"KRL008": {"severity": "error"}}
	rules, err := lint.Configure([]lint.Rule{lint.TrailingWhitespace{}}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	diags := run(t, u, rules)
	if len(diags) != 1 || diags[0].Severity != diag.SevError {
		t.Fatalf("got %v", u.findings(diags))
	}
}

type panicky struct{}

func (panicky) Meta() lint.Meta {
	return lint.Meta{Code: diag.KrlSelfAssignment + 1, Name: "panicky", DefaultEnabled: true}
}

func (panicky) NewVisitor(*lint.Pass) lint.Visitor { return panicVisitor{} }

type panicVisitor struct{ lint.BaseVisitor }

func (panicVisitor) Enter(n ast.Node) {
	if n.Kind == ast.NodeStmt {
		panic("boom")
	}
}

func TestRulePanicIsContained(t *testing.T) {
	u := parse(t, "main.src", "DEF main() \nx = 1\nEND\n")
	bag, err := lint.Analyze(context.Background(), u.unit, defaults(panicky{}, lint.TrailingWhitespace{}))
	var perr *lint.PanicError
	if !errors.As(err, &perr) || perr.Rule != "KRL019" || perr.Value != "boom" {
		t.Fatalf("want PanicError from KRL019, got %v", err)
	}
	got := u.findings(bag.Finalize())
	if diff := cmp.Diff([]string{"KRL008 1:11 trailing whitespace"}, got); diff != "" {
		t.Fatalf("other rules must still report (-want +got):\n%s", diff)
	}
}

func TestAnalyzeHonoursCancellation(t *testing.T) {
	u := parse(t, "main.src", "DEF main()\nEND\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lint.Analyze(ctx, u.unit, everything(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestCatalogueLookup(t *testing.T) {
	cat := lint.NewCatalogue(lint.DefaultRules())
	for _, key := range []string{"KRL004", "krl004", "unused-variable", "Unused-Variable"} {
		r, err := cat.Lookup(key)
		if err != nil || r.Meta().ID() != "KRL004" {
			t.Fatalf("Lookup(%q) = %v, %v", key, r, err)
		}
	}
	if _, err := cat.Lookup("LEX1001"); !errors.Is(err, lint.ErrNotConfigurable) {
		t.Fatalf("LEX1001: %v", err)
	}
}
