// Package rulebook finds the MBFT rulebook sheet ("ficha") for an infraction
// code and pulls the observation-related context out of its text.
package rulebook

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/a3tai/mcp-mbft-auditor/internal/citation"
)

// DefaultDirectory is where rulebook sheets live unless configured otherwise.
const DefaultDirectory = "fichas_mbft"

var fileCodeRe = regexp.MustCompile(`[0-9]{3,4}[-_ ]?[0-9]{1,2}`)

// Entry describes one rulebook file of the corpus.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
}

// Corpus is a read-only directory of rulebook PDFs. It holds no mutable
// state and may be shared between concurrent analyses.
type Corpus struct {
	dir string
}

// NewCorpus returns a corpus rooted at dir.
func NewCorpus(dir string) *Corpus {
	if dir == "" {
		dir = DefaultDirectory
	}
	return &Corpus{dir: dir}
}

// Dir returns the corpus directory.
func (c *Corpus) Dir() string {
	return c.dir
}

// Find returns the rulebook for code within the corpus.
func (c *Corpus) Find(code string) (string, bool) {
	return Find(code, c.dir)
}

// List returns every PDF in the corpus in file name order.
func (c *Corpus) List() ([]Entry, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read rulebook directory %s: %w", c.dir, err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() || !isPDF(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entry := Entry{
			Name: e.Name(),
			Path: filepath.Join(c.dir, e.Name()),
			Size: info.Size(),
		}
		if raw := fileCodeRe.FindString(e.Name()); raw != "" {
			raw = strings.NewReplacer("_", "-", " ", "-").Replace(raw)
			if code, ok := citation.NormalizeCode(raw); ok {
				entry.Code = code
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// Find returns the path of the first PDF in dir whose file name contains
// code, either hyphenated ("527-41") or without the hyphen ("52741").
// Comparison is case-insensitive.
//
// Files are visited in lexical name order. A file whose name without
// extension equals the code is preferred over one that merely contains it.
// The bool is false when code is empty, dir cannot be read, or no file
// matches.
func Find(code, dir string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	plain := citation.StripHyphen(code)
	first := ""
	for _, e := range entries {
		if e.IsDir() || !isPDF(e.Name()) {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.Contains(name, code) && !strings.Contains(name, plain) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if stem == code || stem == plain {
			return filepath.Join(dir, e.Name()), true
		}
		if first == "" {
			first = filepath.Join(dir, e.Name())
		}
	}
	return first, first != ""
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
