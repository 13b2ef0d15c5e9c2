// Package pdfpages reads page geometry from source PDFs so that raw
// detection output without declared page sizes can still be clamped and
// expressed as page fractions.
package pdfpages

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-form-analyzer/internal/forms"
)

// PageSize is the media box size of one page in PDF points
type PageSize struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// ReadPageSizes returns the size of every page in the PDF
func ReadPageSizes(rs io.ReadSeeker) ([]PageSize, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	sizes := make([]PageSize, 0, len(dims))
	for i, d := range dims {
		sizes = append(sizes, PageSize{PageNumber: i + 1, Width: d.Width, Height: d.Height})
	}
	return sizes, nil
}

// ReadPageSizesBytes is ReadPageSizes over an in-memory PDF
func ReadPageSizesBytes(data []byte) ([]PageSize, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("PDF data is empty")
	}
	return ReadPageSizes(bytes.NewReader(data))
}

// Extents converts page sizes in points into page extents in the given
// source unit. It fails when the unit has no known point conversion.
func Extents(sizes []PageSize, sourceUnit string) (map[int]forms.PageExtent, error) {
	pointsPerUnit, ok := forms.ScaleForUnit(sourceUnit)
	if !ok {
		return nil, fmt.Errorf("cannot convert PDF points to source unit %q", sourceUnit)
	}
	extents := make(map[int]forms.PageExtent, len(sizes))
	for _, s := range sizes {
		if s.Width <= 0 || s.Height <= 0 {
			continue
		}
		extents[s.PageNumber] = forms.PageExtent{
			Width:  s.Width / pointsPerUnit,
			Height: s.Height / pointsPerUnit,
		}
	}
	return extents, nil
}
