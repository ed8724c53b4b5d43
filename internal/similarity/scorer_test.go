package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/rulebook"
)

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{score: 1.0, want: LabelConsistent},
		{score: 0.72, want: LabelConsistent},
		{score: 0.7199999, want: LabelPartial},
		{score: 0.45, want: LabelPartial},
		{score: 0.4499999, want: LabelDivergent},
		{score: 0, want: LabelDivergent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 0.75, Ratio("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 1.0, Ratio("Condutor SEM cinto", "condutor sem cinto"), 1e-9)
	assert.InDelta(t, 1.0, Ratio("", ""), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", ""), 1e-9)
	assert.InDelta(t, 0.0, Ratio("abc", "xyz"), 1e-9)
	assert.InDelta(t, Ratio("ação", "açao"), Ratio("açao", "ação"), 1e-9)
}

func TestScore_NotFound(t *testing.T) {
	ctx := rulebook.Context{PrincipalExcerpt: "condutor sem cinto", Passages: []string{"x"}}

	for _, obs := range []string{citation.ObservationNotFound, "", "  "} {
		assert.Equal(t, Verdict{Label: LabelNotFound, Score: 0}, Score(obs, ctx))
	}
	assert.Equal(t, Verdict{Label: LabelNotFound, Score: 0}, Score(citation.ObservationNotFound, rulebook.Context{}))
}

func TestScore_IdenticalIsConsistent(t *testing.T) {
	ctx := rulebook.Context{PrincipalExcerpt: "condutor transitava sem cinto de segurança"}
	v := Score("Condutor transitava sem cinto de segurança", ctx)
	assert.Equal(t, LabelConsistent, v.Label)
	assert.InDelta(t, 1.0, v.Score, 1e-9)
}

func TestScore_EmptyContextIsDivergent(t *testing.T) {
	v := Score("condutor sem cinto", rulebook.Context{})
	assert.Equal(t, LabelDivergent, v.Label)
	assert.InDelta(t, 0.0, v.Score, 1e-9)
}

func TestScore_BestCandidateWins(t *testing.T) {
	ctx := rulebook.Context{
		Passages: []string{"zzzzzzzzzzzz", "estacionar em fila dupla"},
	}
	v := Score("estacionar em fila dupla", ctx)
	assert.Equal(t, LabelConsistent, v.Label)
	assert.InDelta(t, 1.0, v.Score, 1e-9)
}

func TestScore_MonotonicInWordOverlap(t *testing.T) {
	ctx := rulebook.Context{PrincipalExcerpt: "condutor transitava sem cinto de segurança no banco dianteiro"}
	observations := []string{
		"condutor",
		"condutor transitava",
		"condutor transitava sem cinto",
		"condutor transitava sem cinto de segurança",
		"condutor transitava sem cinto de segurança no banco",
		"condutor transitava sem cinto de segurança no banco dianteiro",
	}

	prev := -1.0
	for _, obs := range observations {
		v := Score(obs, ctx)
		assert.GreaterOrEqual(t, v.Score, prev, "observation %q", obs)
		prev = v.Score
	}
	assert.InDelta(t, 1.0, prev, 1e-9)
}

func TestScore_NeverExceedsOne(t *testing.T) {
	ctx := rulebook.Context{PrincipalExcerpt: "veículo estacionado sobre a calçada"}
	v := Score("veículo estacionado sobre a calçada", ctx)
	assert.LessOrEqual(t, v.Score, 1.0)
}

func TestKeywordBonus(t *testing.T) {
	principal := "exemplos do campo de observações do ait: veículo estacionado na calçada"
	keys := Keywords(principal)
	require.Equal(t, []string{"exemplos", "campo", "veículo", "estacionado", "calçada"}, keys)

	// 2 hits over max(10, 5) keywords.
	assert.InDelta(t, 0.03, KeywordBonus("Veículo parado sobre a calçada", principal), 1e-9)
	assert.InDelta(t, 0.0, KeywordBonus("nada a ver", principal), 1e-9)
	assert.InDelta(t, 0.0, KeywordBonus("veículo", ""), 1e-9)
}

func TestKeywordBonus_Capped(t *testing.T) {
	principal := "alpha bravo charlie delta echoo foxtrot golfo hotel india julieta kilos limao"
	obs := principal
	require.Len(t, Keywords(principal), 12)
	assert.InDelta(t, MaxKeywordBonus, KeywordBonus(obs, principal), 1e-9)
}

func TestLabel_MessageAndSeverity(t *testing.T) {
	assert.Equal(t, "ok", LabelConsistent.Severity())
	assert.Equal(t, "warn", LabelPartial.Severity())
	assert.Equal(t, "err", LabelDivergent.Severity())
	assert.Equal(t, "err", LabelNotFound.Severity())
	assert.Equal(t, "Condizente com a ficha MBFT", LabelConsistent.Message())
	assert.Equal(t, "OTHER", Label("OTHER").Message())
}
