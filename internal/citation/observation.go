package citation

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

// ObservationNotFound is returned by ExtractObservation when the citation
// carries no observation text. Callers compare against it by value.
const ObservationNotFound = "(Campo de Observações não encontrado)"

// ObservationLabels matches "OBS", "OBS.", "OBSERVAÇÃO" and "OBSERVAÇÕES",
// accented or not, with an optional trailing colon.
var ObservationLabels = MustLabels(
	`\bOBS(?:ERVA[ÇC](?:[ÃA]O|[ÕO]ES))?\b\.?[ \t]*:?`,
)

// shortFormObservations are boilerplate phrases agents write when the
// observation block has no label of its own.
var shortFormObservations = []*regexp.Regexp{
	regexp.MustCompile(`(?i)CONDUTOR\s+N[ÃA]O\s+HABILITADO`),
	regexp.MustCompile(`(?i)RECUS(?:OU|A)\s+(?:O\s+)?(?:TESTE\s+D[OE]\s+)?BAF[ÔO]METRO`),
	regexp.MustCompile(`(?i)N[ÃA]O\s+APRESENTOU\s+(?:O\s+)?DOCUMENTO`),
	regexp.MustCompile(`(?i)N[ÃA]O\s+DISP[ÓO]NIVEL|N[ÃA]O\s+DISPON[IÍ]VEL`),
}

// ExtractObservation returns the observation block of a citation.
//
// When an observation label is present the located, normalized span is
// returned, or ObservationNotFound if the span is empty. Only when no label
// occurs at all are the short-form phrases searched.
func ExtractObservation(text string, boundary *SectionBoundary) string {
	if boundary == nil {
		boundary = DefaultSectionBoundary()
	}

	if span, ok := Locate(text, ObservationLabels, boundary); ok {
		if span.Clean != "" {
			return span.Clean
		}
		return ObservationNotFound
	}

	for _, re := range shortFormObservations {
		if loc := re.FindStringIndex(text); loc != nil {
			return textnorm.Normalize(text[loc[0]:loc[1]])
		}
	}
	return ObservationNotFound
}

// IsObservationFound reports whether obs holds real observation text.
func IsObservationFound(obs string) bool {
	obs = strings.TrimSpace(obs)
	return obs != "" && !strings.Contains(obs, ObservationNotFound)
}
