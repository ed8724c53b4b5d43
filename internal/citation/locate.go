// Package citation locates and extracts fields from the text of a Brazilian
// traffic citation ("Auto de Infração") as produced by PDF text extraction.
package citation

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

// MaxFieldRunes bounds a located field when no sentence end is found.
const MaxFieldRunes = 600

// FieldSpan is one located field instance.
type FieldSpan struct {
	Label string // label text as it appears in the document
	Start int    // byte offset of the label in the document
	Raw   string // text between the label and the section boundary
	Clean string // Raw normalized and cut at a sentence boundary
}

// LabelSet is a set of alternative, case-insensitive label patterns.
type LabelSet []*regexp.Regexp

// MustLabels compiles each pattern case-insensitively. It panics on an
// invalid pattern and is meant for package-level label tables.
func MustLabels(patterns ...string) LabelSet {
	set := make(LabelSet, 0, len(patterns))
	for _, p := range patterns {
		set = append(set, regexp.MustCompile(`(?i)`+p))
	}
	return set
}

// find returns the earliest match of any pattern; ties go to the longer match.
func (ls LabelSet) find(text string) []int {
	var best []int
	for _, re := range ls {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] || (loc[0] == best[0] && loc[1] > best[1]) {
			best = loc
		}
	}
	return best
}

// Locate finds the first occurrence of any label and returns the text that
// follows it up to the next section boundary. The bool is false when no
// label occurs in text; a found label with nothing after it yields a span
// with an empty Clean value.
func Locate(text string, labels LabelSet, boundary *SectionBoundary) (FieldSpan, bool) {
	loc := labels.find(text)
	if loc == nil {
		return FieldSpan{}, false
	}

	tail := text[loc[1]:]
	if cut := boundary.Index(tail); cut >= 0 {
		tail = tail[:cut]
	}

	span := FieldSpan{
		Label: text[loc[0]:loc[1]],
		Start: loc[0],
		Raw:   tail,
	}
	body := strings.TrimLeft(tail, " \t\r\n:.-–—")
	span.Clean = cutAtSentence(textnorm.Normalize(body), MaxFieldRunes)
	return span, true
}

// cutAtSentence keeps the longest prefix of at most limit+1 runes that ends
// with '.', '!' or '?'. Without such a prefix it keeps the first limit runes.
func cutAtSentence(s string, limit int) string {
	runes := []rune(s)
	end := -1
	for i, r := range runes {
		if i > limit {
			break
		}
		if r == '.' || r == '!' || r == '?' {
			end = i
		}
	}
	if end >= 0 {
		return strings.TrimSpace(string(runes[:end+1]))
	}
	return strings.TrimSpace(textnorm.Truncate(s, limit))
}
