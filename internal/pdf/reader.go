package pdf

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const defaultMaxTextSize = 10 * 1024 * 1024 // 10MB text limit

// rowTolerance is the vertical distance, in points, within which glyphs
// belong to the same row.
const rowTolerance = 2.0

// Reader turns citation and rulebook PDFs into plain text. Each page is
// rebuilt row by row so that section headings stay at the start of a line,
// and AcroForm values are appended as "NAME: value" lines.
type Reader struct {
	maxFileSize int64
	maxTextSize int
	validator   *Validator
	forms       *FormReader
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: defaultMaxTextSize,
		validator:   NewValidator(maxFileSize),
		forms:       NewFormReader(),
	}
}

// ReadFile extracts the text of a PDF file.
func (r *Reader) ReadFile(path string) (*Document, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(path, fileInfo); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	doc, err := r.ReadBytes(data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ReadBytes extracts the text of an in-memory PDF.
func (r *Reader) ReadBytes(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("PDF data is empty")
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize)
	}

	pdfReader, err := openReader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	text := r.extractTextContent(pdfReader)

	fields, err := r.forms.ReadFields(bytes.NewReader(data))
	if err != nil {
		// Form values only supplement page text
		fields = nil
	}
	if len(fields) > 0 {
		text = appendFormFields(text, fields)
	}

	return &Document{
		Text:       text,
		Pages:      pdfReader.NumPage(),
		Size:       int64(len(data)),
		FormFields: len(fields),
	}, nil
}

// ExtractText returns the text of a PDF, or an empty string when the PDF
// cannot be read. Failures are logged, never returned.
func (r *Reader) ExtractText(path string) string {
	doc, err := r.ReadFile(path)
	if err != nil {
		log.Printf("text extraction failed for %s: %v", path, err)
		return ""
	}
	return doc.Text
}

// ExtractTextFrom is ExtractText for a PDF read from src.
func (r *Reader) ExtractTextFrom(src io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(src, r.maxFileSize+1))
	if err != nil {
		log.Printf("text extraction failed: %v", err)
		return ""
	}
	doc, err := r.ReadBytes(data)
	if err != nil {
		log.Printf("text extraction failed: %v", err)
		return ""
	}
	return doc.Text
}

func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// extractTextContent extracts text content from a PDF reader
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) string {
	var builder strings.Builder

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := pageText(page)
		if err != nil {
			// Continue with other pages even if one fails
			continue
		}

		if builder.Len() > 0 {
			content = "\n\n" + content
		}

		if builder.Len()+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - builder.Len()
			if remaining > 0 {
				builder.WriteString(cutAtRune(content, remaining))
			}
			break
		}
		builder.WriteString(content)
	}

	return builder.String()
}

// pageText rebuilds a page line by line from the positioned glyphs, falling
// back to plain text when the page yields none.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		// Malformed content streams panic inside the parser
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page parse failed: %v", rec)
		}
	}()

	runs := page.Content().Text
	if len(runs) == 0 {
		return page.GetPlainText(nil)
	}

	var buf strings.Builder
	for _, row := range groupRows(runs) {
		line := rowText(row)
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// groupRows orders glyphs from the top of the page down and splits them into
// rows of glyphs sharing a baseline.
func groupRows(runs []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, 0, len(runs))
	for _, run := range runs {
		// TJ arrays end with a synthetic newline glyph
		if run.S == "\n" || run.S == "" {
			continue
		}
		sorted = append(sorted, run)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdf.Text
	var rowY float64
	for _, run := range sorted {
		if len(rows) == 0 || rowY-run.Y > rowTolerance {
			rows = append(rows, nil)
			rowY = run.Y
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], run)
	}
	return rows
}

// rowText joins the text runs of one row left to right, inserting a space
// where the gap between runs exceeds a fifth of the font size.
func rowText(runs []pdf.Text) string {
	sorted := make([]pdf.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var buf strings.Builder
	for i, run := range sorted {
		buf.WriteString(run.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := run.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if sorted[i+1].X-(run.X+run.W) > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

// appendFormFields adds one "NAME: value" line per filled form field.
func appendFormFields(text string, fields []FormField) string {
	var buf strings.Builder
	buf.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		buf.WriteString("\n")
	}
	for _, f := range fields {
		buf.WriteString(f.Name)
		buf.WriteString(": ")
		buf.WriteString(f.Value)
		buf.WriteString("\n")
	}
	return buf.String()
}

// cutAtRune returns the longest prefix of s no longer than n bytes that does
// not split a UTF-8 sequence.
func cutAtRune(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
