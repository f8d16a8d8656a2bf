package diagfmt

import (
	"encoding/json"
	"io"

	"krllint/internal/diag"
	"krllint/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name,omitempty"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level   string `json:"level"`
	Enabled bool   `json:"enabled"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// sarifLevel maps severities onto SARIF result levels.
func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifPhysical(fs *source.FileSet, sp source.Span, mode PathMode) sarifPhysicalLocation {
	start, end := fs.Resolve(sp)
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: mode.format(fs.Get(sp.File), fs)},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
		},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: make([]sarifResult, 0, len(diags)),
	}

	index := make(map[string]int, len(meta.Rules))
	for i, r := range meta.Rules {
		index[r.ID] = i
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:               r.ID,
			Name:             r.Name,
			ShortDescription: sarifMessage{Text: r.Description},
			DefaultConfiguration: sarifConfiguration{
				Level:   sarifLevel(r.Level),
				Enabled: r.Enabled,
			},
		})
	}

	toolFailed := false
	for _, d := range diags {
		if d.Code.IsToolFailure() {
			toolFailed = true
		}
		res := sarifResult{
			RuleID:    d.Rule(),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysical(fs, d.Primary, meta.PathMode)}},
		}
		if i, ok := index[d.Rule()]; ok {
			res.RuleIndex = &i
		}
		for i, n := range d.Notes {
			id := i + 1
			res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
				ID:               &id,
				PhysicalLocation: sarifPhysical(fs, n.Span, meta.PathMode),
				Message:          &sarifMessage{Text: n.Msg},
			})
		}
		for _, f := range d.Fixes {
			res.Fixes = append(res.Fixes, sarifFixFrom(fs, f, meta.PathMode))
		}
		run.Results = append(run.Results, res)
	}

	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !toolFailed,
		}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

// sarifFixFrom groups the edits of f by file; a diag.Fix never spans files
// but SARIF models artifactChanges as a list anyway.
func sarifFixFrom(fs *source.FileSet, f diag.Fix, mode PathMode) sarifFix {
	fix := sarifFix{Description: sarifMessage{Text: f.Title}}
	if len(f.Edits) == 0 {
		return fix
	}
	change := sarifArtifactChange{
		ArtifactLocation: sarifArtifactLocation{URI: mode.format(fs.Get(f.Edits[0].Span.File), fs)},
	}
	for _, e := range f.Edits {
		r := sarifReplacement{DeletedRegion: sarifPhysical(fs, e.Span, mode).Region}
		if e.NewText != "" {
			r.InsertedContent = &sarifMessage{Text: e.NewText}
		}
		change.Replacements = append(change.Replacements, r)
	}
	fix.ArtifactChanges = []sarifArtifactChange{change}
	return fix
}
