package similarity

import (
	"math"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/rulebook"
)

const (
	// MaxKeywordBonus caps the keyword-coverage credit.
	MaxKeywordBonus = 0.15
	// minKeywordDivisor dampens the bonus when the excerpt has few keywords.
	minKeywordDivisor = 10
)

var keywordRe = regexp.MustCompile(`[a-zà-ú\-]{5,}`)

// keywordStopWords are heading words of the examples section itself.
var keywordStopWords = map[string]bool{
	"observações":   true,
	"observacoes":   true,
	"observação":    true,
	"observacao":    true,
	"quando":        true,
	"autuar":        true,
	"definições":    true,
	"definicoes":    true,
	"procedimentos": true,
}

// Score compares an observation with every candidate passage of a rulebook
// context. The result is the best sequence ratio plus a keyword bonus,
// capped at 1. A missing observation yields LabelNotFound with score 0.
func Score(observation string, ctx rulebook.Context) Verdict {
	if !citation.IsObservationFound(observation) {
		return Verdict{Label: LabelNotFound, Score: 0}
	}

	best := 0.0
	for _, candidate := range ctx.Candidates() {
		best = math.Max(best, Ratio(observation, candidate))
	}

	score := math.Min(1.0, best+KeywordBonus(observation, ctx.PrincipalExcerpt))
	return Verdict{Label: Classify(score), Score: score}
}

// Ratio is the case-insensitive character similarity of a and b: twice the
// number of characters in matching blocks over the total length, as computed
// by a longest-matching-block sequence matcher. Two empty strings are equal.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
	return m.Ratio()
}

// KeywordBonus credits an observation for mentioning the words (five or more
// letters) of the principal excerpt: MaxKeywordBonus * hits / max(10, n).
func KeywordBonus(observation, principal string) float64 {
	if principal == "" {
		return 0
	}
	keys := Keywords(principal)
	if len(keys) == 0 {
		return 0
	}

	obs := strings.ToLower(observation)
	hits := 0
	for _, k := range keys {
		if strings.Contains(obs, k) {
			hits++
		}
	}
	divisor := len(keys)
	if divisor < minKeywordDivisor {
		divisor = minKeywordDivisor
	}
	return math.Min(MaxKeywordBonus, float64(hits)/float64(divisor)*MaxKeywordBonus)
}

// Keywords lists, in order and with repetitions, the words of text that
// count towards the keyword bonus.
func Keywords(text string) []string {
	var keys []string
	for _, w := range keywordRe.FindAllString(strings.ToLower(text), -1) {
		if !keywordStopWords[w] {
			keys = append(keys, w)
		}
	}
	return keys
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
