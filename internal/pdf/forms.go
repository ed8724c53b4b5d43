package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxFieldDepth bounds recursion into the AcroForm field tree.
const maxFieldDepth = 8

// FormField is a filled AcroForm text field.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormReader reads AcroForm values with pdfcpu. Some issuing agencies
// deliver the citation as a filled form whose values never reach the page
// content stream.
type FormReader struct{}

// NewFormReader creates a form reader.
func NewFormReader() *FormReader {
	return &FormReader{}
}

// ReadFields returns every form field carrying a text value, in document
// order. A PDF without an AcroForm yields no fields and no error.
func (fr *FormReader) ReadFields(rs io.ReadSeeker) (fields []FormField, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			fields, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil || acroFormDict == nil {
		return nil, err
	}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	var out []FormField
	for _, ref := range fieldsArray {
		out = fr.collect(ctx, ref, "", 0, out)
	}
	return out, nil
}

// collect appends obj and its descendants that carry a string value.
func (fr *FormReader) collect(ctx *model.Context, obj types.Object, parent string, depth int, out []FormField) []FormField {
	if depth > maxFieldDepth {
		return out
	}
	fieldDict, err := ctx.DereferenceDict(obj)
	if err != nil || fieldDict == nil {
		return out
	}

	name := parent
	if nameObj, found := fieldDict.Find("T"); found {
		if n, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && n != "" {
			if parent != "" {
				name = parent + "." + n
			} else {
				name = n
			}
		}
	}

	if valueObj, found := fieldDict.Find("V"); found && name != "" {
		if v, err := ctx.DereferenceStringOrHexLiteral(valueObj, model.V10, nil); err == nil {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, FormField{Name: name, Value: v})
			}
		}
	}

	if kidsObj, found := fieldDict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				out = fr.collect(ctx, kid, name, depth+1, out)
			}
		}
	}
	return out
}
