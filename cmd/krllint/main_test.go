package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command once. Flag values persist between calls,
// so every test passes the flags it depends on.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	closeTracing()
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return exitClean
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func TestLintJSONReport(t *testing.T) {
	dir := t.TempDir()
	src := "DEF bad()\n  DECL INT unused\nEND\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.src"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--no-config", "--color", "off", "--output-format", "json", "--fail-on", "warning", dir)
	if code := exitCode(err); code != exitFindings {
		t.Fatalf("exit = %d (%v), want %d", code, err, exitFindings)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0]["rule"] != "KRL004" || got[0]["name"] != "unused-variable" {
		t.Fatalf("report = %v", got)
	}
}

func TestLintConfigErrorIsFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.src"), []byte("DEF a()\nEND\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, _, err := execute(t, "--no-config", "--color", "off", "--output-format", "json", "--fail-on", "loud", dir)
	if code := exitCode(err); code != exitFailure {
		t.Fatalf("exit = %d (%v), want %d", code, err, exitFailure)
	}
}

func TestRulesJSON(t *testing.T) {
	stdout, _, err := execute(t, "rules", "--no-config", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var rows []ruleRow
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("rules output is not JSON: %v", err)
	}
	if len(rows) == 0 || rows[0].ID != "KRL001" {
		t.Fatalf("rows = %+v", rows)
	}
	for _, r := range rows {
		if r.Name == "" || r.Severity == "" {
			t.Errorf("incomplete row %+v", r)
		}
	}
}

func TestRenderRulesTable(t *testing.T) {
	out := renderRules([]ruleRow{{ID: "KRL004", Name: "unused-variable", Severity: "warning", Enabled: true,
		Description: "variable is never used"}}, false)
	for _, want := range []string{"KRL004", "unused-variable", "warning", "on", "DESCRIPTION"} {
		if !strings.Contains(out, want) {
			t.Errorf("table lacks %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "SEVERITY") > strings.Index(out, "KRL004") {
		t.Errorf("header is not the first row:\n%s", out)
	}
	if colored := renderRules([]ruleRow{{ID: "KRL001", Name: "name-mismatch"}}, true); !strings.Contains(colored, "NAME") {
		t.Errorf("colored table lacks header:\n%s", colored)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "krllint" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeOff, "off": uiModeOff, "AUTO": uiModeAuto, " on ": uiModeOn} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
	if uiModeOff.tui() || !uiModeOn.tui() {
		t.Error("explicit modes must not depend on the terminal")
	}
}
