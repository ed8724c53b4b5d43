package citation

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultStopLabels are the section headings of the NA/SENATRAN citation
// layout that mark the start of the block following a free-text field.
var DefaultStopLabels = []string{
	"EMBARCADOR/TRANSPORTADOR",
	"IDENTIFICAÇÃO DO PROPRIETÁRIO",
	"IDENTIFICAÇÃO DO PROPRIETARIO",
	"IDENTIFICAÇÃO DO AGENTE",
	"IDENTIFICAÇÃO DO LOCAL",
	"MENSAGEM SENATRAN",
	"REGISTRO FOTOGRÁFICO",
	"IDENTIFICAÇÃO DO CONDUTOR",
	"IDENTIFICAÇÃO DO VEÍCULO",
	"IDENTIFICAÇÃO DA AUTUAÇÃO",
	"NOTIFICAÇÃO DE AUTUAÇÃO",
	"CÓDIGO DO ÓRGÃO",
	"CÓDIGO DO ÓRGÃO AUTUADOR",
	"CÓDIGO DO MUNICÍPIO",
	"IDENTIFICAÇÃO DA INFRAÇÃO",
}

// SectionBoundary decides where a located field ends. A boundary is any
// stop label appearing at the start of a line, compared case-insensitively.
// A SectionBoundary is immutable and safe for concurrent use.
type SectionBoundary struct {
	labels []string
	re     *regexp.Regexp
}

var defaultBoundary = NewSectionBoundary(DefaultStopLabels...)

// DefaultSectionBoundary returns the boundary built from DefaultStopLabels.
func DefaultSectionBoundary() *SectionBoundary {
	return defaultBoundary
}

// NewSectionBoundary builds a boundary from the given stop labels. Blank and
// duplicate labels are ignored.
func NewSectionBoundary(labels ...string) *SectionBoundary {
	seen := make(map[string]bool, len(labels))
	clean := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		key := strings.ToUpper(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		clean = append(clean, l)
	}

	b := &SectionBoundary{labels: clean}
	if len(clean) == 0 {
		return b
	}

	// Longest first so a label never shadows a longer label it prefixes.
	ordered := append([]string(nil), clean...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	quoted := make([]string, len(ordered))
	for i, l := range ordered {
		quoted[i] = labelPattern(l)
	}
	b.re = regexp.MustCompile(`(?i)(?:\r\n|\n|\r)[ \t]*(?:` + strings.Join(quoted, "|") + `)(?:[^\p{L}\p{N}_]|$)`)
	return b
}

// labelPattern quotes a label and lets any whitespace run inside it match
// one or more whitespace characters.
func labelPattern(label string) string {
	parts := strings.Fields(label)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `\s+`)
}

// With returns a new boundary holding the receiver's labels plus extra.
func (b *SectionBoundary) With(extra ...string) *SectionBoundary {
	return NewSectionBoundary(append(b.Labels(), extra...)...)
}

// Labels returns a copy of the stop labels in configuration order.
func (b *SectionBoundary) Labels() []string {
	return append([]string(nil), b.labels...)
}

// Index returns the byte offset in tail of the line break that starts the
// first stop label, or -1 when no stop label begins a line.
func (b *SectionBoundary) Index(tail string) int {
	if b == nil || b.re == nil {
		return -1
	}
	loc := b.re.FindStringIndex(tail)
	if loc == nil {
		return -1
	}
	return loc[0]
}
