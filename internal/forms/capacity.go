package forms

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// capacityEpsilon absorbs float error when the width is an exact multiple
// of the character advance
const capacityEpsilon = 1e-9

// OverflowUnbounded is the overflow ratio reported when a field cannot hold
// a single character but has a value
const OverflowUnbounded = math.MaxFloat64

// MaxCharactersPerLine returns how many average-width characters of the
// given advance (in font-size units) fit across width at fontSize
func MaxCharactersPerLine(width, averageCharWidth, fontSize float64) int {
	advance := averageCharWidth * fontSize
	if width <= 0 || advance <= 0 {
		return 0
	}
	return int(math.Floor(width/advance + capacityEpsilon))
}

// ValueLength counts the characters of a value as rendered
func ValueLength(value string) int {
	return utf8.RuneCountInString(norm.NFC.String(value))
}

// CalculateCapacity computes the single-line capacity of a field. The
// second return value is false when family is not in the font table and the
// fallback width was used.
func CalculateCapacity(width float64, family string, fontSize float64, value string, tables Tables) (CapacityInfo, bool) {
	charWidth, known := tables.FontWidth(family)
	maxChars := MaxCharactersPerLine(width, charWidth, fontSize)
	length := ValueLength(value)

	info := CapacityInfo{
		MaxCharactersPerLine: maxChars,
		ValueLength:          length,
		Fits:                 length <= maxChars,
	}
	switch {
	case maxChars > 0:
		info.OverflowRatio = float64(length) / float64(maxChars)
	case length > 0:
		info.OverflowRatio = OverflowUnbounded
	}
	return info, known
}
