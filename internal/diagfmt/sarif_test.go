package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"krllint/internal/diag"
)

func TestSarif(t *testing.T) {
	fs, diags := sampleDiags(t)
	meta := SarifRunMeta{
		ToolName:       "krllint",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"krllint", "src"},
		Rules: []SarifRule{
			{ID: "KRL005", Name: "undefined-label", Description: "Undefined label", Level: diag.SevError, Enabled: true},
			{ID: "KRL008", Name: "trailing-whitespace", Description: "Trailing whitespace", Level: diag.SevInfo, Enabled: true},
		},
	}
	var buf bytes.Buffer
	if err := Sarif(&buf, diags, fs, meta); err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: version %q, %d runs", log.Version, len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "krllint" || len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("unexpected driver %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}

	first := run.Results[0]
	if first.RuleID != "KRL005" || first.Level != "error" || first.RuleIndex == nil || *first.RuleIndex != 0 {
		t.Errorf("unexpected first result %+v", first)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 2 || region.StartColumn != 8 || region.EndColumn != 15 {
		t.Errorf("unexpected region %+v", region)
	}
	if len(first.RelatedLocations) != 1 || first.RelatedLocations[0].Message.Text != "routine starts here" {
		t.Errorf("note not exported as related location: %+v", first.RelatedLocations)
	}

	second := run.Results[1]
	if second.Level != "note" {
		t.Errorf("info should map to note, got %q", second.Level)
	}
	if len(second.Fixes) != 1 || len(second.Fixes[0].ArtifactChanges) != 1 {
		t.Fatalf("fix not exported: %+v", second.Fixes)
	}
	repl := second.Fixes[0].ArtifactChanges[0].Replacements[0]
	if repl.InsertedContent != nil || repl.DeletedRegion.StartColumn != 8 {
		t.Errorf("unexpected replacement %+v", repl)
	}
	if inv := run.Invocations; len(inv) != 1 || !inv[0].ExecutionSuccessful {
		t.Errorf("unexpected invocations %+v", inv)
	}
}
