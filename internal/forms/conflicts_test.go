package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, w, h float64, page int) BoundingBox {
	return BoundingBox{X: x, Y: y, Width: w, Height: h, PageNumber: page, Unit: UnitPixel}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float64
	}{
		{"identical", box(0, 0, 10, 10, 1), box(0, 0, 10, 10, 1), 1},
		{"disjoint", box(0, 0, 10, 10, 1), box(20, 20, 10, 10, 1), 0},
		{"touching edges", box(0, 0, 10, 10, 1), box(10, 0, 10, 10, 1), 0},
		{"half overlap", box(0, 0, 10, 10, 1), box(5, 0, 10, 10, 1), 0.5},
		{"small inside large", box(0, 0, 100, 100, 1), box(10, 10, 5, 5, 1), 1},
		{"corner overlap", box(0, 0, 10, 10, 1), box(8, 8, 10, 10, 1), 0.04},
		{"different pages", box(0, 0, 10, 10, 1), box(0, 0, 10, 10, 2), 0},
		{
			"different units",
			box(0, 0, 10, 10, 1),
			BoundingBox{X: 0, Y: 0, Width: 10, Height: 10, PageNumber: 1, Unit: UnitPageFraction},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := OverlapRatio(tt.a, tt.b)
			ba := OverlapRatio(tt.b, tt.a)

			assert.InDelta(t, tt.want, ab, 1e-12)
			assert.Equal(t, ab, ba)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		})
	}
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  Severity
	}{
		{0.01, SeverityMinor},
		{0.2499, SeverityMinor},
		{0.25, SeverityModerate},
		{0.5999, SeverityModerate},
		{0.6, SeveritySevere},
		{1, SeveritySevere},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFor(tt.ratio), "ratio %g", tt.ratio)
	}
}

func TestDetectConflicts(t *testing.T) {
	positioned := func(id string, b BoundingBox) DetectedField {
		return DetectedField{FieldID: id, PageNumber: b.PageNumber, BoundingBox: &b}
	}

	fields := []DetectedField{
		positioned("p2-a", box(0, 0, 10, 10, 2)),
		positioned("p1-a", box(0, 0, 10, 10, 1)),
		{FieldID: "floating", PageNumber: 1},
		positioned("p1-b", box(5, 0, 10, 10, 1)),
		positioned("p2-b", box(9, 9, 10, 10, 2)),
		positioned("p1-c", box(0, 0, 10, 10, 1)),
		positioned("p1-far", box(500, 500, 10, 10, 1)),
	}

	conflicts := DetectConflicts(fields)
	require.Len(t, conflicts, 4)

	want := []struct {
		a, b     string
		page     int
		severity Severity
	}{
		{"p1-a", "p1-b", 1, SeverityModerate},
		{"p1-a", "p1-c", 1, SeveritySevere},
		{"p1-b", "p1-c", 1, SeverityModerate},
		{"p2-a", "p2-b", 2, SeverityMinor},
	}
	for i, w := range want {
		assert.Equal(t, w.a, conflicts[i].FieldIDA)
		assert.Equal(t, w.b, conflicts[i].FieldIDB)
		assert.Equal(t, w.page, conflicts[i].PageNumber)
		assert.Equal(t, w.severity, conflicts[i].Severity)
	}
}

func TestDetectConflicts_None(t *testing.T) {
	assert.NotNil(t, DetectConflicts(nil))
	assert.Empty(t, DetectConflicts([]DetectedField{{FieldID: "a"}, {FieldID: "b"}}))
}

func TestScoreDocument(t *testing.T) {
	tests := []struct {
		name             string
		fields           []DetectedField
		wantConfidence   float64
		wantCompleteness float64
	}{
		{"no fields", nil, 0, 0},
		{
			"mixed",
			[]DetectedField{{Confidence: 0.5, Value: "x"}, {Confidence: 1, Value: "  "}},
			0.75, 0.5,
		},
		{
			"all filled",
			[]DetectedField{{Confidence: 0.2, Value: "a"}, {Confidence: 0.4, Value: "b"}},
			0.3, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreDocument(tt.fields)
			assert.InDelta(t, tt.wantConfidence, s.DocumentConfidence, 1e-12)
			assert.InDelta(t, tt.wantCompleteness, s.Completeness, 1e-12)
		})
	}
}
