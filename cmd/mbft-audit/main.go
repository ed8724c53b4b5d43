// Command mbft-audit audits one traffic citation PDF against the MBFT
// rulebook sheets and prints the diagnostic.
//
// A path of "-" reads the citation PDF from standard input.
//
// Exit status is 0 when a diagnostic was produced, 2 when no rulebook was
// available for the citation and 1 on usage or I/O errors.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-mbft-auditor/internal/audit"
	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
	"github.com/a3tai/mcp-mbft-auditor/internal/config"
	"github.com/a3tai/mcp-mbft-auditor/internal/pdf"
	"github.com/a3tai/mcp-mbft-auditor/internal/report"
	"github.com/a3tai/mcp-mbft-auditor/internal/rulebook"
)

var version = "dev" // This will be set by build flags

const (
	exitOK         = 0
	exitError      = 1
	exitNoRulebook = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	loader := config.NewLoader("mbft-audit")
	fs := loader.FlagSet()
	format := fs.String("format", "text", "Output format: text or yaml")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.Bool("verbose", false, "Show the rulebook excerpt and passages")
	fs.SetOutput(stderr)
	fs.Usage = func() {
		loader.Usage("MBFT Audit - checks the observation field of a traffic citation against its MBFT rulebook sheet",
			"ait.pdf",
			"--rulebooks=/fichas --format=yaml ait.pdf",
			"--no-color - < ait.pdf",
			"--stop-label=\"ASSINATURA DO AGENTE\" ait.pdf")
	}

	cfg, err := loader.Load(args)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		fmt.Fprintf(stdout, "mbft-audit %s (%s)\n", version, runtime.Version())
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: exactly one citation PDF is required\n")
		fs.Usage()
		return exitError
	}

	log.SetOutput(stderr)
	if !cfg.IsDebug() {
		log.SetOutput(io.Discard)
	}

	formatter, err := report.Get(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	path := fs.Arg(0)
	if path != "-" {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(stderr, "Error: cannot access citation: %v\n", err)
			return exitError
		}
	}

	reader := pdf.NewReader(cfg.MaxFileSize)
	boundary := citation.DefaultSectionBoundary().With(cfg.StopLabels...)
	analyzer := audit.NewAnalyzer(rulebook.NewCorpus(cfg.RulebookDirectory), reader, boundary)

	var out audit.Outcome
	if path == "-" {
		out = analyzer.AnalyzeText(reader.ExtractTextFrom(stdin))
		out.Source = "stdin"
	} else {
		out = analyzer.AnalyzeFile(path)
	}
	text, err := formatter.Format(out, report.Options{NoColor: *noColor, Verbose: *verbose})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprint(stdout, text)

	if out.Status == audit.StatusNoRulebook {
		return exitNoRulebook
	}
	return exitOK
}
