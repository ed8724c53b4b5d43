package report

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-mbft-auditor/internal/audit"
)

// YAMLFormatter renders the outcome structure as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// yamlOutcome adds the human-readable messages that the outcome only
// carries as codes.
type yamlOutcome struct {
	audit.Outcome `yaml:",inline"`
	Messages      *yamlMessages `yaml:"messages,omitempty"`
}

type yamlMessages struct {
	Verdict     string `yaml:"verdict"`
	Consequence string `yaml:"consequence"`
}

func (f *YAMLFormatter) Format(out audit.Outcome, _ Options) (string, error) {
	doc := yamlOutcome{Outcome: out}
	if d := out.Diagnostic; d != nil {
		doc.Messages = &yamlMessages{
			Verdict:     d.Verdict.Label.Message(),
			Consequence: d.Consequence.Message(),
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal outcome: %w", err)
	}
	return string(data), nil
}
