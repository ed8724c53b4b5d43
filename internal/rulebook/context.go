package rulebook

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

// MaxPassages caps how many "observa" passages are kept from a rulebook.
const MaxPassages = 12

// Context is what a rulebook says about the observation field.
type Context struct {
	// PrincipalExcerpt is the lower-cased "examples of the AIT observation
	// field" section, or empty when the rulebook has none.
	PrincipalExcerpt string `json:"principal_excerpt" yaml:"principal_excerpt"`
	// Passages are text windows around each mention of the "observa" stem.
	Passages []string `json:"passages" yaml:"passages"`
	// Mandatory is set when the rulebook text, anywhere, says something must
	// be recorded or is required.
	Mandatory bool `json:"mandatory" yaml:"mandatory"`
	// MentionsObservation is set when the stem "observa" occurs at all.
	MentionsObservation bool `json:"mentions_observation" yaml:"mentions_observation"`
}

// Candidates returns the principal excerpt, when present, followed by the
// passages.
func (c Context) Candidates() []string {
	out := make([]string, 0, len(c.Passages)+1)
	if c.PrincipalExcerpt != "" {
		out = append(out, c.PrincipalExcerpt)
	}
	return append(out, c.Passages...)
}

var (
	examplesHeadingRe = regexp.MustCompile(
		`(?i)exemplos\s+d[oe]\s+campo\s+(?:de\s+)?observa[çc](?:[ãa]o|[õo]es)\s+do\s+(?:ait|auto)`)
	excerptStopRe = regexp.MustCompile(`(?i)quando\s+autuar|defini[çc](?:[õo]es|[ãa]o)`)
	passageRe     = regexp.MustCompile(`.{0,120}observa.{0,220}`)
)

// mandatoryPhrases mark a rulebook as requiring the observation content.
var mandatoryPhrases = []string{
	"deve constar",
	"obrigat",
	"necessári",
	"necessari",
	"registrar no campo",
}

// ExtractContext reads the observation requirements out of a rulebook's
// full text. Empty text yields an empty Context.
func ExtractContext(text string) Context {
	low := strings.ToLower(text)

	ctx := Context{
		PrincipalExcerpt:    principalExcerpt(text),
		MentionsObservation: strings.Contains(low, "observa"),
	}

	for _, p := range passageRe.FindAllString(low, MaxPassages) {
		ctx.Passages = append(ctx.Passages, textnorm.Normalize(p))
	}

	for _, phrase := range mandatoryPhrases {
		if strings.Contains(low, phrase) {
			ctx.Mandatory = true
			break
		}
	}
	return ctx
}

// principalExcerpt captures from the examples heading up to the next
// all-caps heading line, "quando autuar", "definições" or the end of text,
// whichever comes first.
func principalExcerpt(text string) string {
	loc := examplesHeadingRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	end := len(text)
	if stop := excerptStopRe.FindStringIndex(text[loc[1]:]); stop != nil {
		end = loc[1] + stop[0]
	}
	if h := nextHeading(text, loc[1]); h >= 0 && h < end {
		end = h
	}
	return strings.ToLower(textnorm.Normalize(text[loc[0]:end]))
}

// nextHeading returns the offset of the first all-caps heading line that
// starts after from, or -1.
func nextHeading(text string, from int) int {
	nl := strings.IndexByte(text[from:], '\n')
	if nl < 0 {
		return -1
	}
	start := from + nl + 1
	for start < len(text) {
		end := strings.IndexByte(text[start:], '\n')
		line := text[start:]
		if end >= 0 {
			line = text[start : start+end]
		}
		if isHeading(line) {
			return start
		}
		if end < 0 {
			break
		}
		start += end + 1
	}
	return -1
}

// isHeading reports whether line reads like a section title: at least six
// characters, no lower-case letters, and only letters, digits, blanks and
// "/()ºª.-".
func isHeading(line string) bool {
	line = strings.TrimSpace(line)
	if len([]rune(line)) < 6 {
		return false
	}
	letters := 0
	for _, r := range line {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), r == ' ', r == '\t':
		case strings.ContainsRune("/()ºª.-", r):
		default:
			return false
		}
	}
	return letters >= 2
}
