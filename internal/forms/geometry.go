package forms

import "math"

// normalizedGeometry is the outcome of normalizing one field's regions.
// PixelWidth is the box width in pixel-at-scale units regardless of the
// output unit; capacity is always computed from it.
type normalizedGeometry struct {
	Box        *BoundingBox
	PixelWidth float64
}

// rect is an axis-aligned rectangle in source units
type rect struct {
	minX, minY, maxX, maxY float64
}

func (r rect) width() float64  { return r.maxX - r.minX }
func (r rect) height() float64 { return r.maxY - r.minY }

func (r rect) union(o rect) rect {
	return rect{
		minX: math.Min(r.minX, o.minX),
		minY: math.Min(r.minY, o.minY),
		maxX: math.Max(r.maxX, o.maxX),
		maxY: math.Max(r.maxY, o.maxY),
	}
}

// polygonBounds returns the enclosing rectangle of a flat x,y polygon.
// Polygons need at least four points.
func polygonBounds(polygon []float64) (rect, bool) {
	if len(polygon) < 8 || len(polygon)%2 != 0 {
		return rect{}, false
	}
	r := rect{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for i := 0; i < len(polygon); i += 2 {
		x, y := polygon[i], polygon[i+1]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return rect{}, false
		}
		r.minX = math.Min(r.minX, x)
		r.minY = math.Min(r.minY, y)
		r.maxX = math.Max(r.maxX, x)
		r.maxY = math.Max(r.maxY, y)
	}
	return r, true
}

// normalizeGeometry merges all usable regions of a field into one box on
// the field's page. Rotation is discarded: each region contributes its
// enclosing axis-aligned rectangle.
func normalizeGeometry(fieldID string, page int, regions []RawRegion, extent *PageExtent,
	unit Unit, scale float64, ws *warnings,
) normalizedGeometry {
	var (
		merged rect
		usable int
	)

	for i, region := range regions {
		regionPage := region.PageNumber
		if regionPage == 0 {
			regionPage = page
		}
		if regionPage != page {
			ws.add(WarnCrossPageRegion, fieldID, "region %d is on page %d, field is on page %d", i, regionPage, page)
			continue
		}

		r, ok := polygonBounds(region.Polygon)
		if !ok {
			ws.add(WarnMalformedRegion, fieldID, "region %d polygon has %d coordinates, need 4 finite x,y points", i, len(region.Polygon))
			continue
		}
		if r.width() <= 0 || r.height() <= 0 {
			ws.add(WarnDegenerateRegion, fieldID, "region %d has zero area (%gx%g)", i, r.width(), r.height())
			continue
		}

		if usable == 0 {
			merged = r
		} else {
			merged = merged.union(r)
		}
		usable++
	}

	if usable == 0 {
		if len(regions) == 0 {
			ws.add(WarnUnpositionedField, fieldID, "no bounding regions supplied")
		} else {
			ws.add(WarnUnpositionedField, fieldID, "all %d bounding regions were dropped", len(regions))
		}
		return normalizedGeometry{}
	}

	if extent != nil {
		clamped := rect{
			minX: clamp(merged.minX, 0, extent.Width),
			minY: clamp(merged.minY, 0, extent.Height),
			maxX: clamp(merged.maxX, 0, extent.Width),
			maxY: clamp(merged.maxY, 0, extent.Height),
		}
		if clamped != merged {
			ws.add(WarnRegionClamped, fieldID, "box exceeds page %d extent %gx%g", page, extent.Width, extent.Height)
			merged = clamped
		}
		if merged.width() <= 0 || merged.height() <= 0 {
			ws.add(WarnDegenerateRegion, fieldID, "box lies outside page %d", page)
			ws.add(WarnUnpositionedField, fieldID, "no area left on page %d", page)
			return normalizedGeometry{}
		}
	}

	pixelWidth := merged.width() * scale

	switch unit {
	case UnitPageFraction:
		if extent == nil {
			ws.add(WarnUndeclaredPage, fieldID, "page %d has no declared extent, cannot express page fractions", page)
			ws.add(WarnUnpositionedField, fieldID, "page %d extent unknown", page)
			return normalizedGeometry{}
		}
		return normalizedGeometry{
			Box: &BoundingBox{
				X:          merged.minX / extent.Width,
				Y:          merged.minY / extent.Height,
				Width:      merged.width() / extent.Width,
				Height:     merged.height() / extent.Height,
				PageNumber: page,
				Unit:       UnitPageFraction,
			},
			PixelWidth: pixelWidth,
		}
	default:
		return normalizedGeometry{
			Box: &BoundingBox{
				X:          merged.minX * scale,
				Y:          merged.minY * scale,
				Width:      pixelWidth,
				Height:     merged.height() * scale,
				PageNumber: page,
				Unit:       UnitPixel,
			},
			PixelWidth: pixelWidth,
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
