package citation

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

var (
	codeBaseRe = regexp.MustCompile(
		`(?i)C[ÓO]DIGO\s+DA\s+INFRA[ÇC][ÃA]O\s*[:\-]?\s*([0-9]{3,4})`)
	desdobramentoRe = regexp.MustCompile(
		`(?i)DESDOBRAMENTO\s*[:\-]?\s*([0-9]{1,2})`)
	codeCombinedRe = regexp.MustCompile(
		`(?i)C[ÓO]DIGO\s+DA\s+INFRA[ÇC][ÃA]O\s*[:\-]?\s*([0-9]{3,4}[-\s]?[0-9]{1,2})`)
	codeWindowRe = regexp.MustCompile(
		`(?i)INFRA[ÇC][ÃA]O[^0-9]{0,40}([0-9]{3,4}[- ]?[0-9]{1,2})(?:[^0-9/:]|$)`)
	canonicalCodeRe = regexp.MustCompile(`^([0-9]{3,4})-([0-9]{1,2})$`)
)

// ExtractCode finds the infraction code of a citation and returns it in
// canonical "NNN-NN" or "NNNN-NN" form. The bool is false when no stage
// could resolve a code, which is a valid outcome rather than an error.
//
// Stages, in order:
//  1. "CÓDIGO DA INFRAÇÃO" with a 3-4 digit base plus a separately labeled
//     "DESDOBRAMENTO"; the code is base[:3] + "-" + base[3:] + desdobramento.
//  2. The same label followed by base and sub-code in one token.
//  3. The word "INFRAÇÃO" followed within 40 characters by a code.
func ExtractCode(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	txt := textnorm.CanonicalDashes(text)

	// A hyphen right after the base means the sub-code is inline (stage 2),
	// and a separate DESDOBRAMENTO never completes it.
	if m := codeBaseRe.FindStringSubmatchIndex(txt); m != nil && !strings.HasPrefix(txt[m[1]:], "-") {
		if d := desdobramentoRe.FindStringSubmatch(txt); d != nil {
			base := txt[m[2]:m[3]]
			if code, ok := NormalizeCode(base[:3] + "-" + base[3:] + d[1]); ok {
				return code, true
			}
		}
	}

	if m := codeCombinedRe.FindStringSubmatch(txt); m != nil {
		if code, ok := NormalizeCode(m[1]); ok {
			return code, true
		}
	}

	for _, m := range codeWindowRe.FindAllStringSubmatch(txt, -1) {
		if code, ok := NormalizeCode(m[1]); ok {
			return code, true
		}
	}

	return "", false
}

// NormalizeCode rewrites a raw code into canonical hyphenated form.
//
// A hyphen or whitespace separator becomes a single hyphen. A bare digit
// run of 5 digits is split after the third digit and one of 6 digits after
// the fourth. A 4-digit base with a 1-digit sub-code ("5274-1") is the
// base-plus-desdobramento layout and becomes "527-41".
func NormalizeCode(raw string) (string, bool) {
	s := textnorm.CanonicalDashes(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "-")
	s = strings.ReplaceAll(s, "--", "-")

	if !strings.Contains(s, "-") {
		switch len(s) {
		case 5:
			s = s[:3] + "-" + s[3:]
		case 6:
			s = s[:4] + "-" + s[4:]
		}
	}

	m := canonicalCodeRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	base, sub := m[1], m[2]
	if len(base) == 4 && len(sub) == 1 {
		return base[:3] + "-" + base[3:] + sub, true
	}
	return base + "-" + sub, true
}

// StripHyphen returns code without its separator, the form some rulebook
// file names use.
func StripHyphen(code string) string {
	return strings.ReplaceAll(code, "-", "")
}
