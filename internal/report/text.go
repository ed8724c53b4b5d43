package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/a3tai/mcp-mbft-auditor/internal/audit"
	"github.com/a3tai/mcp-mbft-auditor/internal/diagnostic"
	"github.com/a3tai/mcp-mbft-auditor/internal/textnorm"
)

// maxObservationDisplay is how much of the observation is echoed back.
const maxObservationDisplay = 1200

// TextFormatter renders an outcome as labelled lines, colouring verdicts
// and consequences by severity.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) Name() string {
	return "text"
}

// palette is built per call so that disabling colour for one caller does
// not touch the process-wide color.NoColor switch.
func palette(noColor bool) map[string]*color.Color {
	p := map[string]*color.Color{
		"ok":     color.New(color.FgGreen),
		"warn":   color.New(color.FgYellow),
		"err":    color.New(color.FgRed),
		"header": color.New(color.FgBlue, color.Bold),
		"label":  color.New(color.FgWhite, color.Bold),
		"code":   color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range p {
			c.DisableColor()
		}
	}
	return p
}

func (f *TextFormatter) Format(out audit.Outcome, opts Options) (string, error) {
	c := palette(opts.NoColor)
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", c["label"].Sprint(label+":"), value)
	}

	if out.Source != "" {
		line("Arquivo", out.Source)
	}

	code := "não localizado"
	if out.Fields.CodeFound {
		code = c["code"].Sprint(out.Fields.Code)
	}
	line("CÓDIGO DA INFRAÇÃO", code)
	line("Campo de Observações (Auto)", displayObservation(out.Fields.Observation))

	if out.Status == audit.StatusNoRulebook {
		line("Ficha MBFT", c["err"].Sprint("não encontrada")+" ("+out.Reason+")")
		if out.Fields.CodeFound {
			fmt.Fprintf(&b, "Coloque o PDF correspondente no diretório de fichas (ex.: %s.pdf).\n", out.Fields.Code)
		}
		return b.String(), nil
	}

	if out.Rulebook != nil {
		line("Ficha MBFT", c["code"].Sprint(out.Rulebook.Name))
	}

	d := out.Diagnostic
	if d == nil {
		return b.String(), nil
	}

	line("Resultado (Observações × MBFT)", fmt.Sprintf("%s (similaridade %.0f%%)",
		c[d.Verdict.Label.Severity()].Sprint(d.Verdict.Label.Message()), d.Verdict.Score*100))

	if opts.Verbose && out.Context != nil {
		b.WriteString("\n")
		b.WriteString(c["header"].Sprint("Trecho principal (MBFT)"))
		b.WriteString("\n")
		if out.Context.PrincipalExcerpt != "" {
			b.WriteString(out.Context.PrincipalExcerpt)
		} else {
			b.WriteString("(Nada localizado)")
		}
		b.WriteString("\n")
		b.WriteString(c["header"].Sprint("Outros contextos com 'observa' na ficha"))
		b.WriteString("\n")
		if len(out.Context.Passages) == 0 {
			b.WriteString("(Nenhum contexto adicional)\n")
		}
		for i, p := range out.Context.Passages {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
	}

	b.WriteString("\n")
	b.WriteString(c["header"].Sprint("QQROC - Diagnóstico"))
	b.WriteString("\n")
	line("QUEM autuou", d.Authority)
	line("QUE conduta", d.ConductSummary)
	line("REQUISITOS formais", requirements(d.MissingRequirements, c))
	line("OBSERVAÇÕES (comparativo MBFT)", c[d.Verdict.Label.Severity()].Sprint(d.Verdict.Label.Message()))
	mandatory := "Não identificado"
	if d.Mandatory {
		mandatory = "Sim"
	}
	line("Obrigatoriedade na ficha", mandatory)
	line("CONSEQUÊNCIA", c[d.Consequence.Severity()].Sprint(d.Consequence.Message()))

	return b.String(), nil
}

func displayObservation(obs string) string {
	if short := textnorm.Truncate(obs, maxObservationDisplay); short != obs {
		return short + " …"
	}
	return obs
}

func requirements(reqs []diagnostic.Requirement, c map[string]*color.Color) string {
	if len(reqs) == 0 {
		return c["ok"].Sprint("Todos identificados")
	}
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		parts = append(parts, c["err"].Sprint(r.Message))
	}
	return strings.Join(parts, "; ")
}
