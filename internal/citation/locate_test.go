package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_StopsAtSectionBoundary(t *testing.T) {
	text := "OBSERVAÇÕES: condutor sem cinto.\nIDENTIFICAÇÃO DO CONDUTOR: João"

	span, ok := Locate(text, ObservationLabels, DefaultSectionBoundary())
	require.True(t, ok)
	assert.Equal(t, "OBSERVAÇÕES:", span.Label)
	assert.Equal(t, 0, span.Start)
	assert.Equal(t, " condutor sem cinto.", span.Raw)
	assert.Equal(t, "condutor sem cinto.", span.Clean)
}

func TestLocate_NotFound(t *testing.T) {
	_, ok := Locate("nenhum rótulo aqui", ObservationLabels, DefaultSectionBoundary())
	assert.False(t, ok)
}

func TestLocate_StopLabelOnlyAtLineStart(t *testing.T) {
	text := "OBS: veículo estava na identificação do local indicado.\nMENSAGEM SENATRAN\nxyz"

	span, ok := Locate(text, ObservationLabels, DefaultSectionBoundary())
	require.True(t, ok)
	assert.Equal(t, "veículo estava na identificação do local indicado.", span.Clean)
}

func TestLocate_CaseInsensitiveLabelsAndBoundaries(t *testing.T) {
	text := "Observação:\n  transitava   na contramão\n identificação do veículo\nPLACA ABC1D23"

	span, ok := Locate(text, ObservationLabels, DefaultSectionBoundary())
	require.True(t, ok)
	assert.Equal(t, "transitava na contramão", span.Clean)
}

func TestLocate_SentenceCutoff(t *testing.T) {
	first := strings.Repeat("a", 299) + "."
	block := first + strings.Repeat("b", 600)
	require.Len(t, []rune(block), 900)

	span, ok := Locate("OBS: "+block, ObservationLabels, DefaultSectionBoundary())
	require.True(t, ok)
	assert.Equal(t, first, span.Clean)
}

func TestLocate_HardTruncateWithoutSentenceEnd(t *testing.T) {
	block := strings.Repeat("ç", 900)

	span, ok := Locate("OBS: "+block, ObservationLabels, DefaultSectionBoundary())
	require.True(t, ok)
	assert.Len(t, []rune(span.Clean), MaxFieldRunes)
}

func TestLocate_EarliestLabelWins(t *testing.T) {
	labels := MustLabels(`PLACA`, `DATA`)
	span, ok := Locate("DATA: 01/02/2024 PLACA: ABC1234", labels, nil)
	require.True(t, ok)
	assert.Equal(t, "DATA", span.Label)
	assert.Equal(t, "01/02/2024 PLACA: ABC1234", span.Clean)
}

func TestCutAtSentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "no terminal", in: "sem ponto final", want: "sem ponto final"},
		{name: "keeps last terminal in window", in: "Um. Dois! Três? quatro", want: "Um. Dois! Três?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cutAtSentence(tt.in, MaxFieldRunes))
		})
	}
}

func TestSectionBoundary(t *testing.T) {
	b := DefaultSectionBoundary()
	assert.Equal(t, DefaultStopLabels, b.Labels())
	assert.Equal(t, -1, b.Index("texto sem seção"))
	assert.Equal(t, 5, b.Index("texto\nREGISTRO FOTOGRÁFICO\n"))
	assert.Equal(t, 5, b.Index("texto\r\n  código do município: 123"))
	assert.Equal(t, -1, b.Index("texto\nREGISTRO FOTOGRÁFICOS"), "label must end at a word boundary")

	extended := b.With("AUTO DE INFRAÇÃO Nº", "  ", "mensagem senatran")
	assert.Len(t, extended.Labels(), len(DefaultStopLabels)+1)
	assert.Equal(t, 3, extended.Index("abc\nAuto de Infração Nº 1"))
	assert.Equal(t, -1, b.Index("abc\nAuto de Infração Nº 1"), "With must not mutate the receiver")

	var empty *SectionBoundary
	assert.Equal(t, -1, empty.Index("x\nMENSAGEM SENATRAN"))
	assert.Equal(t, -1, NewSectionBoundary().Index("x\nMENSAGEM SENATRAN"))
}
