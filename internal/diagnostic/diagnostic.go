// Package diagnostic assembles the formal-requirement checks and the
// observation verdict of one citation into a single record.
package diagnostic

import (
	"regexp"

	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/similarity"
)

// Consequence is the legal reading of a verdict.
type Consequence string

const (
	ConsequenceNullityLikely     Consequence = "NULLITY_LIKELY"
	ConsequenceIncompleteWarning Consequence = "INCOMPLETE_WARNING"
	ConsequenceCompliant         Consequence = "COMPLIANT"
)

// Message returns the user-facing description of the consequence.
func (c Consequence) Message() string {
	switch c {
	case ConsequenceNullityLikely:
		return "Provável nulidade por descumprimento do requisito descritivo (MBFT)."
	case ConsequenceIncompleteWarning:
		return "Aparente omissão descritiva; recomendada impugnação por insuficiência de relato."
	default:
		return "Requisito descritivo atendido quanto ao MBFT (verificar demais vícios formais/materiais)."
	}
}

// Severity returns "ok", "warn" or "err" for rendering.
func (c Consequence) Severity() string {
	switch c {
	case ConsequenceNullityLikely:
		return "err"
	case ConsequenceIncompleteWarning:
		return "warn"
	default:
		return "ok"
	}
}

// RequirementKind separates missing fields from caveats about present ones.
type RequirementKind string

const (
	KindAbsent RequirementKind = "absent"
	KindCaveat RequirementKind = "caveat"
)

// Requirement is one formal finding about the citation.
type Requirement struct {
	Kind    RequirementKind `json:"kind" yaml:"kind"`
	Message string          `json:"message" yaml:"message"`
}

// Diagnostic is the structured result of auditing one citation.
type Diagnostic struct {
	Authority           string             `json:"authority" yaml:"authority"`
	ConductSummary      string             `json:"conduct_summary" yaml:"conduct_summary"`
	Code                string             `json:"code" yaml:"code"`
	Observation         string             `json:"observation" yaml:"observation"`
	MissingRequirements []Requirement      `json:"missing_requirements" yaml:"missing_requirements"`
	Verdict             similarity.Verdict `json:"verdict" yaml:"verdict"`
	Mandatory           bool               `json:"mandatory" yaml:"mandatory"`
	Consequence         Consequence        `json:"consequence" yaml:"consequence"`
}

// Input carries everything Compose needs.
type Input struct {
	CitationText string
	Code         string
	Observation  string
	Verdict      similarity.Verdict
	Mandatory    bool
}

var presenceChecks = []struct {
	re      *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`(?i)\bLOCAL\s+DA\s+INFRA[ÇC][ÃA]O\b`), "Local da infração ausente"},
	{regexp.MustCompile(`(?i)\bDATA\b`), "Data ausente"},
	{regexp.MustCompile(`(?i)\bHORA\b`), "Hora ausente"},
	{regexp.MustCompile(`(?i)\bPLACA\b`), "Placa ausente"},
}

var (
	instrumentRe   = regexp.MustCompile(`(?i)INSTRUMENTO\s+DE\s+AFERI[ÇC][ÃA]O`)
	unavailableRe  = regexp.MustCompile(`(?i)n[aã]o\s+dispon[íi]vel`)
	instrumentNote = "Instrumento de aferição 'Não disponível'"
)

// Compose builds the diagnostic for one citation.
func Compose(in Input) Diagnostic {
	return Diagnostic{
		Authority:           citation.ExtractAuthority(in.CitationText),
		ConductSummary:      citation.ExtractConductSummary(in.CitationText, in.Code),
		Code:                in.Code,
		Observation:         in.Observation,
		MissingRequirements: CheckRequirements(in.CitationText),
		Verdict:             in.Verdict,
		Mandatory:           in.Mandatory,
		Consequence:         ConsequenceFor(in.Verdict.Label, in.Mandatory),
	}
}

// CheckRequirements reports the formal fields absent from the citation and
// an unavailable measuring instrument. The order of findings is fixed.
func CheckRequirements(text string) []Requirement {
	var out []Requirement
	for _, c := range presenceChecks {
		if !c.re.MatchString(text) {
			out = append(out, Requirement{Kind: KindAbsent, Message: c.message})
		}
	}
	if instrumentRe.MatchString(text) && unavailableRe.MatchString(text) {
		out = append(out, Requirement{Kind: KindCaveat, Message: instrumentNote})
	}
	return out
}

// ConsequenceFor derives the consequence from the verdict label and whether
// the rulebook makes the observation content mandatory. A rulebook that
// does not make it mandatory always yields ConsequenceCompliant.
func ConsequenceFor(label similarity.Label, mandatory bool) Consequence {
	if !mandatory {
		return ConsequenceCompliant
	}
	switch label {
	case similarity.LabelDivergent, similarity.LabelNotFound:
		return ConsequenceNullityLikely
	case similarity.LabelPartial:
		return ConsequenceIncompleteWarning
	default:
		return ConsequenceCompliant
	}
}
