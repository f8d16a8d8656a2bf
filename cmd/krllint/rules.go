package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"krllint/internal/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalogue",
	Long: `Rules prints every built-in rule with its default severity and whether the
current configuration enables it. Rules can be named by id or name in
--enable, --disable and [rules.<id or name>] tables.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description"`
	Options     []string `json:"options,omitempty"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rules := lint.DefaultRules()
	configured, err := lint.Configure(rules, cfg)
	if err != nil {
		return err
	}
	effective := make(map[string]lint.Configured, len(configured))
	for _, c := range configured {
		effective[c.Rule.Meta().ID()] = c
	}

	rows := make([]ruleRow, 0, len(rules))
	for _, r := range rules {
		m := r.Meta()
		row := ruleRow{ID: m.ID(), Name: m.Name, Severity: m.DefaultSeverity.Label(), Description: m.Description}
		if c, ok := effective[m.ID()]; ok {
			row.Enabled = true
			row.Severity = c.Severity.Label()
		}
		for _, o := range m.Options {
			row.Options = append(row.Options, fmt.Sprintf("%s=%v", o.Key, o.Default))
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderRules(rows, color))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderRules(rows []ruleRow, color bool) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		enabled := "off"
		if r.Enabled {
			enabled = "on"
		}
		desc := r.Description
		if len(r.Options) > 0 {
			desc += " [" + strings.Join(r.Options, ", ") + "]"
		}
		data = append(data, []string{r.ID, r.Name, r.Severity, enabled, desc})
	}

	header := lipgloss.NewStyle().Bold(color)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "SEVERITY", "ENABLED", "DESCRIPTION").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return header.Inherit(cell)
			}
			return cell
		})
	return t.String()
}
