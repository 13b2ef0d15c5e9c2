// Package analysis wires the pure forms pipeline to files, source PDFs and
// logging. Everything that touches the outside world lives here.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-form-analyzer/internal/forms"
	"github.com/a3tai/mcp-form-analyzer/internal/pdfpages"
	"github.com/a3tai/mcp-form-analyzer/internal/security"
)

// Service analyzes raw detection results read from the documents directory
type Service struct {
	maxInputSize int64
	sandbox      *security.Sandbox
	defaults     forms.Options
	logger       *logrus.Logger
}

// NewService creates an analysis service. defaults are the options applied
// when a request does not override them.
func NewService(maxInputSize int64, directory string, defaults forms.Options, logger *logrus.Logger) (*Service, error) {
	if maxInputSize <= 0 {
		return nil, fmt.Errorf("maximum input size must be positive")
	}
	sandbox, err := security.NewSandbox(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox: %w", err)
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default options: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		maxInputSize: maxInputSize,
		sandbox:      sandbox,
		defaults:     defaults,
		logger:       logger,
	}, nil
}

// Directory returns the documents directory
func (s *Service) Directory() string {
	return s.sandbox.Root()
}

// Defaults returns a copy of the default options
func (s *Service) Defaults() forms.Options {
	return s.defaults
}

// Analyze runs one analysis request
func (s *Service) Analyze(req AnalyzeRequest) (*AnalyzeResult, error) {
	start := time.Now()

	data, source, err := s.loadInput(req)
	if err != nil {
		return nil, err
	}

	raw, err := forms.ParseRawAnalysis(data)
	if err != nil {
		return nil, err
	}

	opts, err := s.options(req, raw)
	if err != nil {
		return nil, err
	}

	result, err := forms.Analyze(raw, opts)
	if err != nil {
		return nil, err
	}

	counts := forms.WarningCounts(result)
	entry := s.logger.WithFields(logrus.Fields{
		"source":       source,
		"fields":       len(result.Fields),
		"conflicts":    len(result.Conflicts),
		"warnings":     len(result.Warnings),
		"confidence":   result.DocumentConfidence,
		"completeness": result.Completeness,
		"duration":     time.Since(start),
	})
	entry.Info("form analysis complete")
	for _, code := range forms.SortedWarningCodes(counts) {
		entry.WithFields(logrus.Fields{"code": code, "count": counts[code]}).Debug("analysis warning")
	}

	return &AnalyzeResult{Source: source, Result: result}, nil
}

// PageDimensions reads page sizes from a sandboxed PDF
func (s *Service) PageDimensions(req PageDimensionsRequest) (*PageDimensionsResult, error) {
	data, err := s.sandbox.ReadFile(req.Path, s.maxInputSize)
	if err != nil {
		return nil, err
	}
	sizes, err := pdfpages.ReadPageSizesBytes(data)
	if err != nil {
		return nil, err
	}
	return &PageDimensionsResult{Path: req.Path, Pages: sizes}, nil
}

func (s *Service) loadInput(req AnalyzeRequest) ([]byte, string, error) {
	hasPath := strings.TrimSpace(req.Path) != ""
	hasContent := strings.TrimSpace(req.Content) != ""

	switch {
	case hasPath && hasContent:
		return nil, "", fmt.Errorf("provide either a path or inline content, not both")
	case hasContent:
		if int64(len(req.Content)) > s.maxInputSize {
			return nil, "", fmt.Errorf("inline content too large: %d bytes (max: %d bytes)", len(req.Content), s.maxInputSize)
		}
		return []byte(req.Content), "inline", nil
	case hasPath:
		data, err := s.sandbox.ReadFile(req.Path, s.maxInputSize)
		if err != nil {
			return nil, "", err
		}
		return data, req.Path, nil
	default:
		return nil, "", fmt.Errorf("a raw analysis path or inline content is required")
	}
}

// options applies request overrides to the defaults and fills page extents
// from the source PDF when one is given
func (s *Service) options(req AnalyzeRequest, raw *forms.RawAnalysis) (forms.Options, error) {
	opts := s.defaults
	if req.Unit != "" {
		opts.Unit = forms.Unit(req.Unit)
	}
	if req.Scale > 0 {
		opts.Scale = req.Scale
	}
	if req.FontFamily != "" {
		opts.FontFamily = req.FontFamily
	}
	if req.FontSize > 0 {
		opts.FontSize = req.FontSize
	}

	if strings.TrimSpace(req.PDFPath) != "" {
		dims, err := s.PageDimensions(PageDimensionsRequest{Path: req.PDFPath})
		if err != nil {
			return forms.Options{}, fmt.Errorf("failed to read source PDF: %w", err)
		}
		extents, err := pdfpages.Extents(dims.Pages, raw.Unit)
		if err != nil {
			s.logger.WithError(err).WithField("pdf", req.PDFPath).Warn("ignoring source PDF page sizes")
		} else {
			merged := make(map[int]forms.PageExtent, len(extents)+len(opts.PageExtents))
			for p, e := range opts.PageExtents {
				merged[p] = e
			}
			for p, e := range extents {
				merged[p] = e
			}
			opts.PageExtents = merged
		}
	}

	return opts, nil
}
