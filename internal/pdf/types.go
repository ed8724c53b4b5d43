package pdf

// Document is the extracted text of one PDF.
type Document struct {
	Path       string `json:"path,omitempty"`
	Text       string `json:"text"`
	Pages      int    `json:"pages"`
	Size       int64  `json:"size"`
	FormFields int    `json:"form_fields"`
}

// Validation is the outcome of checking a PDF before extraction.
type Validation struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}
