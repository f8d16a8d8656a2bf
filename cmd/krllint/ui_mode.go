package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

// readUIMode parses --ui; an empty value is off.
func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch m {
	case "":
		return uiModeOff, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// tui reports whether the progress view runs. It draws on stderr, so auto
// needs stderr to be a terminal.
func (m uiMode) tui() bool {
	if m == uiModeAuto {
		return isTerminal(os.Stderr)
	}
	return m == uiModeOn
}
