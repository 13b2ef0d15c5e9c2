package forms

import "strings"

// Scores are the document-level aggregates
type Scores struct {
	DocumentConfidence float64
	Completeness       float64
}

// ScoreDocument averages field confidences and measures the share of fields
// with a non-blank value. An empty field set scores zero on both.
func ScoreDocument(fields []DetectedField) Scores {
	if len(fields) == 0 {
		return Scores{}
	}
	var total float64
	filled := 0
	for _, f := range fields {
		total += f.Confidence
		if strings.TrimSpace(f.Value) != "" {
			filled++
		}
	}
	n := float64(len(fields))
	return Scores{
		DocumentConfidence: clamp(total/n, 0, 1),
		Completeness:       float64(filled) / n,
	}
}

// summarize builds the roll-up counts for a result
func summarize(fields []DetectedField, conflicts []Conflict) Summary {
	s := Summary{
		TotalFields: len(fields),
		ConflictCounts: map[Severity]int{
			SeverityMinor:    0,
			SeverityModerate: 0,
			SeveritySevere:   0,
		},
		MedicalTypeCounts: make(map[MedicalType]int),
	}
	for _, f := range fields {
		if f.BoundingBox != nil {
			s.PositionedFields++
		}
		if f.Capacity != nil && !f.Capacity.Fits {
			s.OverflowingFields++
		}
		s.MedicalTypeCounts[f.MedicalType]++
	}
	for _, c := range conflicts {
		s.ConflictCounts[c.Severity]++
	}
	return s
}
