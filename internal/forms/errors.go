package forms

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies fatal analysis failures
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindMalformedInput
	ErrorKindInvalidOptions
	ErrorKindInvalidTables
)

// String returns the code for the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindMalformedInput:
		return "MALFORMED_INPUT"
	case ErrorKindInvalidOptions:
		return "INVALID_OPTIONS"
	case ErrorKindInvalidTables:
		return "INVALID_TABLES"
	default:
		return "UNKNOWN"
	}
}

// InputError is returned when no partial result is meaningful: the raw
// analysis cannot be parsed, or the configuration is unusable.
type InputError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *InputError) Unwrap() error {
	return e.Err
}

func newInputError(kind ErrorKind, err error, format string, args ...interface{}) *InputError {
	return &InputError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WarningCode names a recoverable anomaly
type WarningCode string

const (
	WarnEmptyInput           WarningCode = "EMPTY_INPUT"
	WarnDegenerateRegion     WarningCode = "DEGENERATE_REGION"
	WarnUnpositionedField    WarningCode = "UNPOSITIONED_FIELD"
	WarnUnknownFontFamily    WarningCode = "UNKNOWN_FONT_FAMILY"
	WarnMalformedRegion      WarningCode = "MALFORMED_REGION"
	WarnCrossPageRegion      WarningCode = "CROSS_PAGE_REGION"
	WarnRegionClamped        WarningCode = "REGION_CLAMPED"
	WarnMissingConfidence    WarningCode = "MISSING_CONFIDENCE"
	WarnConfidenceOutOfRange WarningCode = "CONFIDENCE_OUT_OF_RANGE"
	WarnDuplicateFieldID     WarningCode = "DUPLICATE_FIELD_ID"
	WarnUndeclaredPage       WarningCode = "UNDECLARED_PAGE"
	WarnUnknownSourceUnit    WarningCode = "UNKNOWN_SOURCE_UNIT"
)

// Warning is a single recoverable anomaly tied to a field when one applies
type Warning struct {
	Code    WarningCode
	FieldID string
	Message string
}

// String renders the warning the way it appears in AnalysisResult.Warnings
func (w Warning) String() string {
	if w.FieldID == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s: field %s: %s", w.Code, w.FieldID, w.Message)
}

// warnings collects anomalies in the order they were found
type warnings []Warning

func (ws *warnings) add(code WarningCode, fieldID, format string, args ...interface{}) {
	*ws = append(*ws, Warning{Code: code, FieldID: fieldID, Message: fmt.Sprintf(format, args...)})
}

func (ws warnings) strings() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.String())
	}
	return out
}

// HasWarning reports whether any rendered warning carries the code
func HasWarning(result *AnalysisResult, code WarningCode) bool {
	prefix := string(code) + ":"
	for _, w := range result.Warnings {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

// WarningCounts tallies rendered warnings by code
func WarningCounts(result *AnalysisResult) map[WarningCode]int {
	counts := make(map[WarningCode]int)
	for _, w := range result.Warnings {
		if i := strings.Index(w, ":"); i > 0 {
			counts[WarningCode(w[:i])]++
		}
	}
	return counts
}

// SortedWarningCodes returns the codes of counts in lexical order
func SortedWarningCodes(counts map[WarningCode]int) []WarningCode {
	codes := make([]WarningCode, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
