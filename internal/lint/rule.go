package lint

import (
	"encoding/json"
	"fmt"
	"math"

	"krllint/internal/ast"
	"krllint/internal/diag"
)

// OptionKind is the value type of a rule option.
type OptionKind uint8

const (
	OptionInt OptionKind = iota
	OptionString
	OptionBool
)

func (k OptionKind) String() string {
	switch k {
	case OptionInt:
		return "int"
	case OptionString:
		return "string"
	case OptionBool:
		return "bool"
	default:
		return "OptionKind(?)"
	}
}

// OptionSpec declares one configurable option of a rule.
type OptionSpec struct {
	Key         string
	Kind        OptionKind
	Default     any
	Description string
}

// normalize converts a decoded config value to the Go type of the option:
// int, string or bool. TOML yields int64, JSONC yields json.Number.
func (s OptionSpec) normalize(v any) (any, error) {
	switch s.Kind {
	case OptionInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, fmt.Errorf("value %d out of range", n)
			}
			return int(n), nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("want integer, got %s", n)
			}
			return s.normalize(i)
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("want integer, got %v", n)
			}
			return s.normalize(int64(n))
		}
	case OptionString:
		if str, ok := v.(string); ok {
			return str, nil
		}
	case OptionBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("want %s, got %T", s.Kind, v)
}

// Options holds resolved option values keyed by OptionSpec.Key.
type Options map[string]any

// Meta describes a rule. Code fixes the rule id (KRL001...).
type Meta struct {
	Code            diag.Code
	Name            string
	Description     string
	DefaultSeverity diag.Severity
	DefaultEnabled  bool
	Options         []OptionSpec
}

// ID returns the stable rule identifier, e.g. KRL004.
func (m Meta) ID() string {
	return m.Code.ID()
}

func (m Meta) option(key string) (OptionSpec, bool) {
	for _, o := range m.Options {
		if o.Key == key {
			return o, true
		}
	}
	return OptionSpec{}, false
}

// Rule is one check. NewVisitor is called once per file and must not keep
// state between files.
type Rule interface {
	Meta() Meta
	NewVisitor(p *Pass) Visitor
}

// Visitor receives every node of a file in source order.
// Finish runs once after the walk.
type Visitor interface {
	Enter(n ast.Node)
	Leave(n ast.Node)
	Finish()
}

// BaseVisitor implements Visitor with no-ops; rules embed it and override
// what they need.
type BaseVisitor struct{}

func (BaseVisitor) Enter(ast.Node) {}
func (BaseVisitor) Leave(ast.Node) {}
func (BaseVisitor) Finish()        {}
