package analysis

import (
	"github.com/a3tai/mcp-form-analyzer/internal/forms"
	"github.com/a3tai/mcp-form-analyzer/internal/pdfpages"
)

// AnalyzeRequest asks for one raw detection result to be analyzed. Exactly
// one of Path and Content must be set. Zero-valued overrides keep the
// service defaults.
type AnalyzeRequest struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`

	// PDFPath names the scanned form; its page sizes fill in extents the
	// raw result does not declare
	PDFPath string `json:"pdf_path,omitempty"`

	Unit       string  `json:"unit,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
}

// AnalyzeResult pairs an analysis with where its input came from
type AnalyzeResult struct {
	Source string                `json:"source"`
	Result *forms.AnalysisResult `json:"result"`
}

// PageDimensionsRequest names a PDF to measure
type PageDimensionsRequest struct {
	Path string `json:"path"`
}

// PageDimensionsResult lists page sizes in PDF points
type PageDimensionsResult struct {
	Path  string              `json:"path"`
	Pages []pdfpages.PageSize `json:"pages"`
}
