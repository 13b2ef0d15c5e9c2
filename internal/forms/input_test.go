package forms

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRaw = `{
  "unit": " inch ",
  "pages": [
    {
      "pageNumber": 1,
      "width": 8.5,
      "height": 11,
      "primitives": [
        {
          "id": "name",
          "label": "Patient Name",
          "value": "Ada Lovelace",
          "confidence": 0.97,
          "font": {"family": "Times", "size": 11},
          "regions": [{"pageNumber": 1, "polygon": [1, 1, 4, 1, 4, 1.3, 1, 1.3]}]
        },
        {"label": "Signature", "value": ""}
      ]
    },
    {"pageNumber": 2, "primitives": null}
  ]
}`

func TestParseRawAnalysis(t *testing.T) {
	raw, err := ParseRawAnalysis([]byte(sampleRaw))
	require.NoError(t, err)

	assert.Equal(t, "inch", raw.Unit)
	require.Len(t, raw.Pages, 2)
	assert.Equal(t, 2, raw.PrimitiveCount())

	prim := raw.Pages[0].Primitives[0]
	assert.Equal(t, "name", prim.ID)
	require.NotNil(t, prim.Confidence)
	assert.Equal(t, 0.97, *prim.Confidence)
	require.NotNil(t, prim.Font)
	assert.Equal(t, "Times", prim.Font.Family)
	require.Len(t, prim.Regions, 1)
	assert.Len(t, prim.Regions[0].Polygon, 8)

	assert.Nil(t, raw.Pages[0].Primitives[1].Confidence)

	extents := raw.Extents()
	assert.Equal(t, map[int]PageExtent{1: {Width: 8.5, Height: 11}}, extents)
}

func TestParseRawAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"not json", "pages: 1"},
		{"truncated", `{"pages": [`},
		{"missing pages", `{"unit": "inch"}`},
		{"pages not a list", `{"pages": "one"}`},
		{"page number missing", `{"pages": [{"primitives": []}]}`},
		{"page number zero", `{"pages": [{"pageNumber": 0}]}`},
		{"negative width", `{"pages": [{"pageNumber": 1, "width": -2, "height": 3}]}`},
		{"label not a string", `{"pages": [{"pageNumber": 1, "primitives": [{"label": 7}]}]}`},
		{"polygon not numbers", `{"pages": [{"pageNumber": 1, "primitives": [{"regions": [{"polygon": ["a"]}]}]}]}`},
		{"region without polygon", `{"pages": [{"pageNumber": 1, "primitives": [{"regions": [{}]}]}]}`},
		{"top level array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseRawAnalysis([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, raw)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, ErrorKindMalformedInput, inputErr.Kind)
			assert.True(t, strings.HasPrefix(err.Error(), "[MALFORMED_INPUT]"))
		})
	}
}

func TestParseRawAnalysis_ShortPolygonIsNotFatal(t *testing.T) {
	data := `{"pages": [{"pageNumber": 1, "primitives": [{"label": "Name", "value": "Ada", "confidence": 0.9, "regions": [{"polygon": [1, 2]}]}]}]}`

	raw, err := ParseRawAnalysis([]byte(data))
	require.NoError(t, err)

	result, err := Analyze(raw, testOptions())
	require.NoError(t, err)
	require.Len(t, result.Fields, 1)
	assert.True(t, HasWarning(result, WarnMalformedRegion))
}

func TestEncodeResult(t *testing.T) {
	raw, err := ParseRawAnalysis([]byte(sampleRaw))
	require.NoError(t, err)

	result, err := Analyze(raw, DefaultOptions())
	require.NoError(t, err)

	data, err := EncodeResult(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "analyzed", decoded["status"])
	assert.Equal(t, "pixel", decoded["unit"])

	fields, ok := decoded["fields"].([]interface{})
	require.True(t, ok)
	require.Len(t, fields, 2)

	first := fields[0].(map[string]interface{})
	assert.Equal(t, "name", first["field_id"])
	assert.Contains(t, first, "bounding_box")
	assert.Contains(t, first, "capacity")

	second := fields[1].(map[string]interface{})
	assert.NotContains(t, second, "bounding_box")
	assert.NotContains(t, second, "capacity")
}

func TestWarningString(t *testing.T) {
	assert.Equal(t, "EMPTY_INPUT: nothing", Warning{Code: WarnEmptyInput, Message: "nothing"}.String())
	assert.Equal(t, "REGION_CLAMPED: field f1: off page",
		Warning{Code: WarnRegionClamped, FieldID: "f1", Message: "off page"}.String())
}

func TestWarningCounts(t *testing.T) {
	result := &AnalysisResult{Warnings: []string{
		"UNPOSITIONED_FIELD: field a: no regions",
		"UNPOSITIONED_FIELD: field b: no regions",
		"EMPTY_INPUT: nothing",
	}}

	counts := WarningCounts(result)
	assert.Equal(t, 2, counts[WarnUnpositionedField])
	assert.Equal(t, 1, counts[WarnEmptyInput])
	assert.Equal(t, []WarningCode{WarnEmptyInput, WarnUnpositionedField}, SortedWarningCodes(counts))
	assert.True(t, HasWarning(result, WarnEmptyInput))
	assert.False(t, HasWarning(result, WarnRegionClamped))
}
