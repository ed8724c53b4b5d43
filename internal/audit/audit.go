// Package audit runs one citation through the whole pipeline: field
// extraction, rulebook lookup, context extraction, scoring and diagnosis.
//
// An Analyzer holds only read-only collaborators, so a single instance may
// serve concurrent requests.
package audit

import (
	"log"
	"path/filepath"

	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/diagnostic"
	"github.com/a3tai/mcp-mbft-auditor/internal/rulebook"
	"github.com/a3tai/mcp-mbft-auditor/internal/similarity"
)

// TextExtractor turns a PDF on disk into text, returning an empty string
// when the file cannot be read.
type TextExtractor interface {
	ExtractText(path string) string
}

// Status tells whether an analysis reached a diagnostic.
type Status string

const (
	StatusOK         Status = "ok"
	StatusNoRulebook Status = "no_rulebook"
)

// Reasons for StatusNoRulebook.
const (
	ReasonNoCode         = "código da infração não localizado no auto"
	ReasonRulebookAbsent = "ficha MBFT não encontrada"
)

// RulebookRef names the rulebook file used for an analysis.
type RulebookRef struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Outcome is the result of auditing one citation.
type Outcome struct {
	Status     Status                 `json:"status" yaml:"status"`
	Reason     string                 `json:"reason,omitempty" yaml:"reason,omitempty"`
	Source     string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Fields     citation.Fields        `json:"fields" yaml:"fields"`
	Rulebook   *RulebookRef           `json:"rulebook,omitempty" yaml:"rulebook,omitempty"`
	Context    *rulebook.Context      `json:"context,omitempty" yaml:"context,omitempty"`
	Diagnostic *diagnostic.Diagnostic `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Analyzer audits citations against a rulebook corpus.
type Analyzer struct {
	corpus    *rulebook.Corpus
	extractor TextExtractor
	boundary  *citation.SectionBoundary
}

// NewAnalyzer creates an analyzer. A nil boundary uses the default stop
// labels.
func NewAnalyzer(corpus *rulebook.Corpus, extractor TextExtractor, boundary *citation.SectionBoundary) *Analyzer {
	if boundary == nil {
		boundary = citation.DefaultSectionBoundary()
	}
	return &Analyzer{
		corpus:    corpus,
		extractor: extractor,
		boundary:  boundary,
	}
}

// Corpus returns the rulebook corpus the analyzer reads from.
func (a *Analyzer) Corpus() *rulebook.Corpus {
	return a.corpus
}

// Boundary returns the stop-label policy used for field extraction.
func (a *Analyzer) Boundary() *citation.SectionBoundary {
	return a.boundary
}

// AnalyzeFile extracts the text of the citation PDF at path and audits it.
// An unreadable PDF is audited as empty text.
func (a *Analyzer) AnalyzeFile(path string) Outcome {
	out := a.AnalyzeText(a.extractor.ExtractText(path))
	out.Source = path
	return out
}

// AnalyzeText audits already-extracted citation text.
func (a *Analyzer) AnalyzeText(text string) Outcome {
	fields := citation.ExtractFields(text, a.boundary)
	out := Outcome{Fields: fields}

	if !fields.CodeFound {
		out.Status = StatusNoRulebook
		out.Reason = ReasonNoCode
		return out
	}

	path, ok := a.corpus.Find(fields.Code)
	if !ok {
		log.Printf("no rulebook for code %s in %s", fields.Code, a.corpus.Dir())
		out.Status = StatusNoRulebook
		out.Reason = ReasonRulebookAbsent
		return out
	}
	out.Rulebook = &RulebookRef{Name: filepath.Base(path), Path: path}

	ctx := rulebook.ExtractContext(a.extractor.ExtractText(path))
	out.Context = &ctx

	verdict := similarity.Score(fields.Observation, ctx)
	diag := diagnostic.Compose(diagnostic.Input{
		CitationText: text,
		Code:         fields.Code,
		Observation:  fields.Observation,
		Verdict:      verdict,
		Mandatory:    ctx.Mandatory,
	})
	out.Diagnostic = &diag
	out.Status = StatusOK
	return out
}

// Lookup describes a rulebook located for a code.
type Lookup struct {
	Code     string           `json:"code" yaml:"code"`
	Found    bool             `json:"found" yaml:"found"`
	Rulebook *RulebookRef     `json:"rulebook,omitempty" yaml:"rulebook,omitempty"`
	Context  rulebook.Context `json:"context" yaml:"context"`
}

// RulebookContext normalizes code, locates its rulebook and extracts the
// observation context. Found is false when the code is malformed or no
// rulebook matches.
func (a *Analyzer) RulebookContext(code string) Lookup {
	normalized, ok := citation.NormalizeCode(code)
	if !ok {
		return Lookup{Code: code}
	}
	res := Lookup{Code: normalized}

	path, ok := a.corpus.Find(normalized)
	if !ok {
		return res
	}
	res.Found = true
	res.Rulebook = &RulebookRef{Name: filepath.Base(path), Path: path}
	res.Context = rulebook.ExtractContext(a.extractor.ExtractText(path))
	return res
}
