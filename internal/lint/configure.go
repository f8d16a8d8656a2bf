package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"krllint/internal/config"
	"krllint/internal/diag"
)

var (
	ErrUnknownRule   = errors.New("unknown rule")
	ErrUnknownOption = errors.New("unknown rule option")
	// ErrNotConfigurable rejects lexical, syntax and I/O ids: those
	// findings come from the pipeline itself and cannot be turned off.
	ErrNotConfigurable = errors.New("phase diagnostics cannot be configured")
)

// Configured is a rule with its effective severity and options.
type Configured struct {
	Rule     Rule
	Severity diag.Severity
	Options  Options
}

// Catalogue resolves rule ids and names case-insensitively.
type Catalogue struct {
	rules []Rule
	index map[string]int
	fold  cases.Caser
}

// NewCatalogue indexes rules by id and name. Two rules sharing an id or a
// name is a programming error and panics.
func NewCatalogue(rules []Rule) *Catalogue {
	c := &Catalogue{rules: rules, index: make(map[string]int, 2*len(rules)), fold: cases.Fold()}
	for i, r := range rules {
		m := r.Meta()
		for _, key := range []string{m.ID(), m.Name} {
			k := c.fold.String(key)
			if prev, dup := c.index[k]; dup && prev != i {
				panic(fmt.Sprintf("lint: %q names two rules", key))
			}
			c.index[k] = i
		}
	}
	return c
}

// Rules returns the catalogue in its original order.
func (c *Catalogue) Rules() []Rule { return c.rules }

// Lookup finds a rule by id (KRL004) or name (unused-variable).
func (c *Catalogue) Lookup(key string) (Rule, error) {
	i, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return c.rules[i], nil
}

func (c *Catalogue) lookup(key string) (int, error) {
	k := strings.TrimSpace(key)
	if i, ok := c.index[c.fold.String(k)]; ok {
		return i, nil
	}
	upper := strings.ToUpper(k)
	for _, prefix := range []string{"LEX", "SYN", "IO"} {
		if strings.HasPrefix(upper, prefix) && len(upper) > len(prefix) && upper[len(prefix)] >= '0' && upper[len(prefix)] <= '9' {
			return -1, fmt.Errorf("%s: %w", key, ErrNotConfigurable)
		}
	}
	return -1, fmt.Errorf("%w %q", ErrUnknownRule, key)
}

// Configure resolves the effective rule set. Per-rule tables apply first,
// then [lint].enable, then [lint].disable; disable wins over enable.
// Every problem is returned as *config.Error.
func Configure(rules []Rule, cfg *config.Config) ([]Configured, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cat := NewCatalogue(rules)

	all := make([]Configured, len(rules))
	enabled := make([]bool, len(rules))
	for i, r := range rules {
		m := r.Meta()
		opts := make(Options, len(m.Options))
		for _, o := range m.Options {
			opts[o.Key] = o.Default
		}
		all[i] = Configured{Rule: r, Severity: m.DefaultSeverity, Options: opts}
		enabled[i] = m.DefaultEnabled
	}

	keys := make([]string, 0, len(cfg.Rules))
	for k := range cfg.Rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		i, err := cat.lookup(key)
		if err != nil {
			return nil, &config.Error{Path: cfg.Path, Key: "rules." + key, Err: err}
		}
		if err := applyTable(&all[i], &enabled[i], cfg.Rules[key]); err != nil {
			var cerr *config.Error
			if errors.As(err, &cerr) {
				cerr.Path = cfg.Path
				cerr.Key = "rules." + key + "." + cerr.Key
			}
			return nil, err
		}
	}

	for _, step := range []struct {
		key   string
		ids   []string
		value bool
	}{
		{"lint.enable", cfg.Lint.Enable, true},
		{"lint.disable", cfg.Lint.Disable, false},
	} {
		for _, id := range step.ids {
			i, err := cat.lookup(id)
			if err != nil {
				return nil, &config.Error{Path: cfg.Path, Key: step.key, Err: err}
			}
			enabled[i] = step.value
		}
	}

	out := make([]Configured, 0, len(all))
	for i, c := range all {
		if enabled[i] {
			out = append(out, c)
		}
	}
	return out, nil
}

// applyTable applies one [rules.X] table. Returned errors carry the option
// key only; Configure completes the path.
func applyTable(c *Configured, enabled *bool, table map[string]any) error {
	m := c.Rule.Meta()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := table[k]
		switch k {
		case config.KeyEnabled:
			b, ok := v.(bool)
			if !ok {
				return &config.Error{Key: k, Err: fmt.Errorf("want bool, got %T", v)}
			}
			*enabled = b
		case config.KeySeverity:
			s, ok := v.(string)
			if !ok {
				return &config.Error{Key: k, Err: fmt.Errorf("want string, got %T", v)}
			}
			sev, err := diag.ParseSeverity(s)
			if err != nil {
				return &config.Error{Key: k, Err: err}
			}
			c.Severity = sev
		default:
			spec, ok := m.option(k)
			if !ok {
				return &config.Error{Key: k, Err: fmt.Errorf("%w for %s", ErrUnknownOption, m.ID())}
			}
			nv, err := spec.normalize(v)
			if err != nil {
				return &config.Error{Key: k, Err: err}
			}
			c.Options[k] = nv
		}
	}
	return nil
}
