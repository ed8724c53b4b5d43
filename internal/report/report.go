// Package report renders audit outcomes for people (text) and for tools
// (YAML).
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a3tai/mcp-mbft-auditor/internal/audit"
)

// Options control rendering.
type Options struct {
	NoColor bool
	// Verbose adds the rulebook excerpt and passages to text output.
	Verbose bool
}

// Formatter renders an outcome.
type Formatter interface {
	Name() string
	Format(out audit.Outcome, opts Options) (string, error)
}

var formatters = map[string]Formatter{
	"text": NewTextFormatter(),
	"yaml": NewYAMLFormatter(),
}

// Get returns the formatter registered under name.
func Get(name string) (Formatter, error) {
	f, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the registered formats in sorted order.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
