package forms

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Classification is the outcome of classifying one field
type Classification struct {
	FieldType   FieldType
	MedicalType MedicalType
	// Confidence is a multiplier in [0,1] applied to the source confidence
	Confidence float64
	// Validator names the value pattern that matched, empty for plain text
	Validator string
	// Keyword is the label keyword that selected MedicalType
	Keyword string
}

// Classify assigns a field type from the value and a medical category from
// the label. It never fails: unrecognized input yields FieldTypeText and
// MedicalTypeOther with a penalized confidence.
func Classify(label, value string, tables Tables) Classification {
	c := Classification{
		FieldType:   FieldTypeText,
		MedicalType: MedicalTypeOther,
		Confidence:  1 - tables.UnclassifiedPenalty,
	}

	if v := strings.TrimSpace(norm.NFC.String(value)); v != "" {
		for _, validator := range tables.Validators {
			if validator.Pattern.MatchString(v) {
				c.FieldType = validator.FieldType
				c.Validator = validator.Name
				break
			}
		}
	}

	normalized := normalizeLabel(label)
	if normalized == "" {
		return c
	}
	for _, category := range tables.Categories {
		for _, keyword := range category.Keywords {
			k := normalizeLabel(keyword)
			if k != "" && strings.Contains(normalized, k) {
				c.MedicalType = category.MedicalType
				c.Keyword = keyword
				c.Confidence = 1
				return c
			}
		}
	}
	return c
}

// normalizeLabel folds case, replaces punctuation with spaces and pads the
// result with single spaces so that keywords match on word boundaries.
func normalizeLabel(label string) string {
	folded := cases.Fold().String(norm.NFKC.String(label))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}
