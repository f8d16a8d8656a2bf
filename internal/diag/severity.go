package diag

import (
	"fmt"
	"strings"
)

// Severity orders findings; --fail-on compares against it.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{SevInfo: "info", SevWarning: "warning", SevError: "error"}

// String is the upper-case form printed in report headers.
func (s Severity) String() string {
	if int(s) >= len(severityLabels) {
		return "UNKNOWN"
	}
	return strings.ToUpper(severityLabels[s])
}

// Label is the lower-case form used in report lines and config files.
// Unknown values read as info.
func (s Severity) Label() string {
	if int(s) >= len(severityLabels) {
		return severityLabels[SevInfo]
	}
	return severityLabels[s]
}

// ParseSeverity accepts error, warning (warn) or info, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "warn" {
		return SevWarning, nil
	}
	for sev, label := range severityLabels {
		if v == label {
			return Severity(sev), nil
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (want error, warning or info)", s)
}
