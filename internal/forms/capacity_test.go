package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxCharactersPerLine(t *testing.T) {
	tests := []struct {
		name      string
		width     float64
		charWidth float64
		fontSize  float64
		want      int
	}{
		{"two characters", 200, 6, 12, 2},
		{"exact multiple", 72, 6, 12, 1},
		{"exact multiple with float error", 52, 0.52, 10, 10},
		{"narrower than one character", 5, 0.6, 10, 0},
		{"zero width", 0, 0.6, 10, 0},
		{"negative width", -10, 0.6, 10, 0},
		{"zero font size", 100, 0.6, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxCharactersPerLine(tt.width, tt.charWidth, tt.fontSize))
		})
	}
}

func TestValueLength(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"e\u0301", 1},
		{"\u00e9", 1},
		{"日本語", 3},
		{"José", 4},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueLength(tt.value))
		})
	}
}

func TestCalculateCapacity(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		name      string
		width     float64
		family    string
		value     string
		wantMax   int
		wantFits  bool
		wantRatio float64
		wantKnown bool
	}{
		{"fits", 100, "Courier", "hello", 16, true, 5.0 / 16.0, true},
		{"exactly full", 18, "Courier", "abc", 3, true, 1, true},
		{"overflows", 18, "Courier", "abcd", 3, false, 4.0 / 3.0, true},
		{"empty value", 18, "Courier", "", 3, true, 0, true},
		{"no room, no value", 1, "Courier", "", 0, true, 0, true},
		{"no room with value", 1, "Courier", "a", 0, false, OverflowUnbounded, true},
		{"unknown family uses fallback", 18, "Papyrus", "abc", 3, true, 1, false},
		{"family name is normalized", 100, "times new-roman", "hi", 22, true, 2.0 / 22.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, known := CalculateCapacity(tt.width, tt.family, 10, tt.value, tables)

			assert.Equal(t, tt.wantMax, info.MaxCharactersPerLine)
			assert.Equal(t, tt.wantFits, info.Fits)
			assert.InDelta(t, tt.wantRatio, info.OverflowRatio, 1e-12)
			assert.Equal(t, tt.wantKnown, known)
			assert.Equal(t, tt.wantFits, info.ValueLength <= info.MaxCharactersPerLine)
		})
	}
}

func TestCapacity_NonDecreasingInWidth(t *testing.T) {
	tables := DefaultTables()

	for _, family := range []string{"Helvetica", "Courier", "Papyrus"} {
		t.Run(family, func(t *testing.T) {
			charWidth, _ := tables.FontWidth(family)

			previousMax, previousCapacity := -1, -1
			for width := -5.0; width <= 400; width += 0.25 {
				got := MaxCharactersPerLine(width, charWidth, 11)
				assert.GreaterOrEqual(t, got, previousMax, "width %g", width)
				previousMax = got

				info, _ := CalculateCapacity(width, family, 11, "221B Baker Street", tables)
				assert.GreaterOrEqual(t, info.MaxCharactersPerLine, previousCapacity, "width %g", width)
				assert.Equal(t, got, info.MaxCharactersPerLine)
				previousCapacity = info.MaxCharactersPerLine
			}
		})
	}
}
