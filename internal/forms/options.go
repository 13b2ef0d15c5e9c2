package forms

import (
	"math"
	"strings"
)

// Default option values
const (
	DefaultFontFamily      = "Helvetica"
	DefaultFontSize        = 10.0
	DefaultConfidence      = 0.5
	PointsPerInch          = 72.0
	millimetersPerInch     = 25.4
	centimetersPerInch     = 2.54
	defaultSourceUnitScale = 1.0
)

// Options configures one analysis. The zero Scale means "derive from the
// raw result's declared unit".
type Options struct {
	Unit              Unit
	Scale             float64
	FontFamily        string
	FontSize          float64
	DefaultConfidence float64
	Tables            Tables

	// PageExtents supplies page sizes in source units for pages the raw
	// result does not declare. Declared extents take precedence.
	PageExtents map[int]PageExtent
}

// DefaultOptions returns options producing PDF point coordinates from
// inch-based detection output
func DefaultOptions() Options {
	return Options{
		Unit:              UnitPixel,
		FontFamily:        DefaultFontFamily,
		FontSize:          DefaultFontSize,
		DefaultConfidence: DefaultConfidence,
		Tables:            DefaultTables(),
	}
}

// Validate checks that the options can drive an analysis
func (o Options) Validate() error {
	if o.Unit != UnitPixel && o.Unit != UnitPageFraction {
		return newInputError(ErrorKindInvalidOptions, nil, "unit must be %q or %q, got %q", UnitPixel, UnitPageFraction, o.Unit)
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return newInputError(ErrorKindInvalidOptions, nil, "scale must be a non-negative finite number, got %v", o.Scale)
	}
	if o.FontSize <= 0 || math.IsNaN(o.FontSize) || math.IsInf(o.FontSize, 0) {
		return newInputError(ErrorKindInvalidOptions, nil, "font size must be positive, got %v", o.FontSize)
	}
	if o.DefaultConfidence < 0 || o.DefaultConfidence > 1 {
		return newInputError(ErrorKindInvalidOptions, nil, "default confidence must be in [0, 1], got %v", o.DefaultConfidence)
	}
	for page, ext := range o.PageExtents {
		if ext.Width <= 0 || ext.Height <= 0 {
			return newInputError(ErrorKindInvalidOptions, nil, "page %d extent must be positive", page)
		}
	}
	return o.Tables.Validate()
}

// ScaleForUnit returns the factor converting a source unit to PDF points
func ScaleForUnit(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "inch", "inches", "in":
		return PointsPerInch, true
	case "point", "points", "pt":
		return 1, true
	case "mm", "millimeter", "millimeters":
		return PointsPerInch / millimetersPerInch, true
	case "cm", "centimeter", "centimeters":
		return PointsPerInch / centimetersPerInch, true
	case "pixel", "pixels", "px":
		return 1, true
	default:
		return defaultSourceUnitScale, false
	}
}
