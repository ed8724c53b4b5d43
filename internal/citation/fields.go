package citation

import (
	"fmt"
	"regexp"

	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

const (
	// AuthorityNotFound is the authority value when no issuing agency is found.
	AuthorityNotFound = "(Órgão/Autoridade não identificado)"
	// DescriptionNotFound is the conduct description when none is found.
	DescriptionNotFound = "(Descrição não localizada)"
)

var (
	authorityRe   = regexp.MustCompile(`(?i)[ÓO]RG[ÃA]O\s+AUTUADOR[ \t]*(?::|\r?\n)[ \t\r\n]*(.+)`)
	agencyCodeRe  = regexp.MustCompile(`(?i)C[ÓO]DIGO\s+DO\s+$`)
	descriptionRe = regexp.MustCompile(`(?i)DESCRI[ÇC][ÃA]O\s+DA\s+INFRA[ÇC][ÃA]O[ \t]*(?::|\r?\n)[ \t\r\n]*(.+)`)
)

// ExtractAuthority returns the issuing agency named after "ÓRGÃO AUTUADOR".
// Occurrences inside "CÓDIGO DO ÓRGÃO AUTUADOR" are skipped since they hold
// a numeric agency code.
func ExtractAuthority(text string) string {
	for _, m := range authorityRe.FindAllStringSubmatchIndex(text, -1) {
		from := m[0] - 16
		if from < 0 {
			from = 0
		}
		if agencyCodeRe.MatchString(text[from:m[0]]) {
			continue
		}
		if v := textnorm.Normalize(text[m[2]:m[3]]); v != "" {
			return v
		}
	}
	return AuthorityNotFound
}

// ExtractConductSummary describes the conduct being charged: the infraction
// code followed by the description printed on the citation.
func ExtractConductSummary(text, code string) string {
	desc := DescriptionNotFound
	if m := descriptionRe.FindStringSubmatch(text); m != nil {
		if v := textnorm.Normalize(m[1]); v != "" {
			desc = v
		}
	}
	if code == "" {
		code = "—"
	}
	return fmt.Sprintf("Código: %s • %s", code, desc)
}

// Fields groups everything extracted from one citation.
type Fields struct {
	Code        string `json:"code,omitempty" yaml:"code,omitempty"`
	CodeFound   bool   `json:"code_found" yaml:"code_found"`
	Observation string `json:"observation" yaml:"observation"`
	Authority   string `json:"authority" yaml:"authority"`
	Conduct     string `json:"conduct" yaml:"conduct"`
}

// ExtractFields runs every extractor over text.
func ExtractFields(text string, boundary *SectionBoundary) Fields {
	code, ok := ExtractCode(text)
	return Fields{
		Code:        code,
		CodeFound:   ok,
		Observation: ExtractObservation(text, boundary),
		Authority:   ExtractAuthority(text),
		Conduct:     ExtractConductSummary(text, code),
	}
}
