package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"krllint/internal/config"
	"krllint/internal/diag"
)

func TestParseTOML(t *testing.T) {
	src := `
[output]
format = "json"

[files]
exclude = ["**/backup/**"]

[lint]
disable = ["KRL008"]
fail-on = "error"
jobs = 4

[rules.line-too-long]
severity = "warning"
max-length = 100
`
	cfg, err := config.ParseTOML("k.toml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Format != "json" || cfg.Lint.Jobs != 4 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if diff := cmp.Diff(config.DefaultInclude, cfg.Files.Include); diff != "" {
		t.Fatalf("include should default (-want +got):\n%s", diff)
	}
	sev, err := cfg.FailOnSeverity()
	if err != nil || sev != diag.SevError {
		t.Fatalf("fail-on = %v, %v", sev, err)
	}
	want := map[string]any{"severity": "warning", "max-length": int64(100)}
	if diff := cmp.Diff(want, cfg.Rules["line-too-long"]); diff != "" {
		t.Fatalf("rule table (-want +got):\n%s", diff)
	}
}

func TestParseTOMLUnknownKey(t *testing.T) {
	_, err := config.ParseTOML("k.toml", []byte("[lint]\nfail-fst = true\n"))
	var cerr *config.Error
	if !errors.As(err, &cerr) || !errors.Is(err, config.ErrUnknownKey) {
		t.Fatalf("want unknown key error, got %v", err)
	}
	if cerr.Key != "lint.fail-fst" {
		t.Fatalf("key %q", cerr.Key)
	}
}

func TestParseJSONC(t *testing.T) {
	src := `{
  // комментарии разрешены
  "lint": {"enable": ["goto-usage"], "fail-fast": true},
  /* per-rule options */
  "rules": {"KRL009": {"max-length": 90}}
}`
	cfg, err := config.ParseJSONC("k.jsonc", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Lint.FailFast || len(cfg.Lint.Enable) != 1 {
		t.Fatalf("lint: %+v", cfg.Lint)
	}
	if _, ok := cfg.Rules["KRL009"]["max-length"]; !ok {
		t.Fatalf("rules: %+v", cfg.Rules)
	}
}

func TestParseJSONCRejectsTrailingComma(t *testing.T) {
	_, err := config.ParseJSONC("k.jsonc", []byte(`{"lint": {"fail-fast": true,},}`))
	var cerr *config.Error
	if !errors.As(err, &cerr) {
		t.Fatalf("want config error, got %v", err)
	}
	if cerr.Path != "k.jsonc" {
		t.Fatalf("path %q", cerr.Path)
	}
}

func TestParseJSONCUnknownField(t *testing.T) {
	if _, err := config.ParseJSONC("k.jsonc", []byte(`{"outptu": {}}`)); err == nil {
		t.Fatalf("want error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
	}{
		{"bad fail-on", "[lint]\nfail-on = \"fatal\"\n", "lint.fail-on"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"negative jobs", "[lint]\njobs = -1\n", "lint.jobs"},
		{"empty glob", "[files]\nexclude = [\"\"]\n", "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseTOML("k.toml", []byte(tt.src))
			var cerr *config.Error
			if !errors.As(err, &cerr) || cerr.Key != tt.key {
				t.Fatalf("want error on %s, got %v", tt.key, err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, config.JSONCName)
	if err := os.WriteFile(cfgPath, []byte(`{"lint": {"jobs": 2}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	path, ok, err := config.Find(nested)
	if err != nil || !ok || path != cfgPath {
		t.Fatalf("Find = %q, %v, %v", path, ok, err)
	}
	cfg, err := config.Discover(nested)
	if err != nil || cfg.Lint.Jobs != 2 || cfg.Path != cfgPath {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestTOMLPreferredOverJSONC(t *testing.T) {
	root := t.TempDir()
	for name, body := range map[string]string{
		config.TOMLName:  "[lint]\njobs = 3\n",
		config.JSONCName: `{"lint": {"jobs": 5}}`,
	} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.Discover(root)
	if err != nil || cfg.Lint.Jobs != 3 {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	var cerr *config.Error
	if !errors.As(err, &cerr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want wrapped not-exist error, got %v", err)
	}
}
