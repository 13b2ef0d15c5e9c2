package forms

import (
	"math"
	"sort"
)

// Severity thresholds on the overlap ratio
const (
	ModerateOverlapThreshold = 0.25
	SevereOverlapThreshold   = 0.6
)

// OverlapRatio returns the intersection area of a and b divided by the
// smaller of the two areas, in [0,1]. Boxes on different pages or in
// different units never overlap.
func OverlapRatio(a, b BoundingBox) float64 {
	if a.PageNumber != b.PageNumber || a.Unit != b.Unit {
		return 0
	}
	w := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	h := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	smaller := math.Min(a.Area(), b.Area())
	if smaller <= 0 {
		return 0
	}
	return clamp(w*h/smaller, 0, 1)
}

// SeverityFor maps an overlap ratio to a severity tier
func SeverityFor(ratio float64) Severity {
	switch {
	case ratio >= SevereOverlapThreshold:
		return SeveritySevere
	case ratio >= ModerateOverlapThreshold:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// DetectConflicts reports every overlapping pair of positioned fields on the
// same page, once per unordered pair. FieldIDA is always the field that
// comes first in fields; output is ordered by page, then by field order.
func DetectConflicts(fields []DetectedField) []Conflict {
	byPage := make(map[int][]int)
	var pages []int
	for i, f := range fields {
		if f.BoundingBox == nil {
			continue
		}
		p := f.BoundingBox.PageNumber
		if _, ok := byPage[p]; !ok {
			pages = append(pages, p)
		}
		byPage[p] = append(byPage[p], i)
	}
	sort.Ints(pages)

	conflicts := []Conflict{}
	for _, p := range pages {
		idx := byPage[p]
		for i := 0; i < len(idx); i++ {
			a := fields[idx[i]]
			for j := i + 1; j < len(idx); j++ {
				b := fields[idx[j]]
				ratio := OverlapRatio(*a.BoundingBox, *b.BoundingBox)
				if ratio <= 0 {
					continue
				}
				conflicts = append(conflicts, Conflict{
					FieldIDA:         a.FieldID,
					FieldIDB:         b.FieldID,
					PageNumber:       p,
					OverlapAreaRatio: ratio,
					Severity:         SeverityFor(ratio),
				})
			}
		}
	}
	return conflicts
}
