package rulebook

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRulebook = `FICHA DE FISCALIZAÇÃO
Tipificação resumida: Deixar o condutor de usar o cinto de segurança
QUANDO AUTUAR
Condutor ou passageiro sem o cinto.
DEFINIÇÕES E PROCEDIMENTOS
O agente deve constar no campo de observações a posição do ocupante.
EXEMPLOS DO CAMPO DE OBSERVAÇÕES DO AIT
Condutor sem cinto de segurança.
Passageiro do banco traseiro sem cinto de segurança.
INFORMAÇÕES COMPLEMENTARES
texto final`

func TestExtractContext(t *testing.T) {
	ctx := ExtractContext(sampleRulebook)

	assert.Equal(t,
		"exemplos do campo de observações do ait condutor sem cinto de segurança. passageiro do banco traseiro sem cinto de segurança.",
		ctx.PrincipalExcerpt)
	assert.True(t, ctx.Mandatory)
	assert.True(t, ctx.MentionsObservation)
	require.Len(t, ctx.Passages, 2)
	assert.Equal(t, "o agente deve constar no campo de observações a posição do ocupante.", ctx.Passages[0])
	assert.Equal(t, "exemplos do campo de observações do ait", ctx.Passages[1])
}

func TestExtractContext_ExcerptStopsAtKeywords(t *testing.T) {
	text := "Exemplos do campo de observação do AIT: veículo parado em fila dupla. Quando autuar: sempre."
	ctx := ExtractContext(text)
	assert.Equal(t, "exemplos do campo de observação do ait: veículo parado em fila dupla.", ctx.PrincipalExcerpt)

	text = "exemplos do campo de observacoes do ait\nsem placa dianteira\nver definições"
	ctx = ExtractContext(text)
	assert.Equal(t, "exemplos do campo de observacoes do ait sem placa dianteira ver", ctx.PrincipalExcerpt)
}

func TestExtractContext_MixedCaseLineIsNotAHeading(t *testing.T) {
	text := "EXEMPLOS DO CAMPO DE OBSERVAÇÕES DO AIT\nCondutor sem cinto.\nAmparo legal\nArt. 167 do CTB\nAMPARO LEGAL\nfim"
	ctx := ExtractContext(text)
	assert.Equal(t,
		"exemplos do campo de observações do ait condutor sem cinto. amparo legal art. 167 do ctb",
		ctx.PrincipalExcerpt)

	assert.False(t, isHeading("Amparo legal"))
	assert.True(t, isHeading("AMPARO LEGAL"))
}

func TestExtractContext_NoExamplesSection(t *testing.T) {
	ctx := ExtractContext("Infração de trânsito sem requisitos especiais.")
	assert.Empty(t, ctx.PrincipalExcerpt)
	assert.Empty(t, ctx.Passages)
	assert.False(t, ctx.Mandatory)
	assert.False(t, ctx.MentionsObservation)
	assert.Empty(t, ctx.Candidates())
}

func TestExtractContext_EmptyText(t *testing.T) {
	assert.Equal(t, Context{}, ExtractContext(""))
}

func TestExtractContext_PassagesCapped(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "linha %d com observação\n", i)
	}
	ctx := ExtractContext(b.String())
	require.Len(t, ctx.Passages, MaxPassages)
	assert.Equal(t, "linha 0 com observação", ctx.Passages[0])
	assert.Equal(t, "linha 11 com observação", ctx.Passages[MaxPassages-1])
}

func TestExtractContext_PassageWindow(t *testing.T) {
	before := strings.Repeat("x", 200)
	after := strings.Repeat("y", 300)
	ctx := ExtractContext(before + "observa" + after)
	require.Len(t, ctx.Passages, 1)
	assert.Equal(t, strings.Repeat("x", 120)+"observa"+strings.Repeat("y", 220), ctx.Passages[0])
}

func TestExtractContext_MandatoryIsDocumentWide(t *testing.T) {
	ctx := ExtractContext("O registro fotográfico é obrigatório.")
	assert.True(t, ctx.Mandatory)
	assert.False(t, ctx.MentionsObservation)
}

func TestContext_Candidates(t *testing.T) {
	ctx := Context{PrincipalExcerpt: "p", Passages: []string{"a", "b"}}
	assert.Equal(t, []string{"p", "a", "b"}, ctx.Candidates())

	ctx.PrincipalExcerpt = ""
	assert.Equal(t, []string{"a", "b"}, ctx.Candidates())
}

func TestIsHeading(t *testing.T) {
	assert.True(t, isHeading("INFORMAÇÕES COMPLEMENTARES"))
	assert.True(t, isHeading("  ART. 167 - CTB  "))
	assert.False(t, isHeading("Condutor sem cinto"))
	assert.False(t, isHeading("ABC"))
	assert.False(t, isHeading("123456"))
	assert.False(t, isHeading("NOTA: VER ITEM"))
}
