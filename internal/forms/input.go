package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RawRegion is a quadrilateral reported by the document-analysis service.
// Polygon holds x,y pairs in the source unit: x1,y1,x2,y2,x3,y3,x4,y4.
type RawRegion struct {
	PageNumber int       `json:"pageNumber,omitempty"`
	Polygon    []float64 `json:"polygon"`
}

// RawFont overrides the analysis font for a single primitive
type RawFont struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

// RawPrimitive is one detected key/value pair
type RawPrimitive struct {
	ID         string      `json:"id,omitempty"`
	Label      string      `json:"label"`
	Value      string      `json:"value"`
	Confidence *float64    `json:"confidence,omitempty"`
	Font       *RawFont    `json:"font,omitempty"`
	Regions    []RawRegion `json:"regions,omitempty"`
}

// RawPage is one page of detection output. Width and Height are the page
// extent in the source unit when the service declared it.
type RawPage struct {
	PageNumber int            `json:"pageNumber"`
	Width      *float64       `json:"width,omitempty"`
	Height     *float64       `json:"height,omitempty"`
	Primitives []RawPrimitive `json:"primitives"`
}

// RawAnalysis is the complete raw result for a document
type RawAnalysis struct {
	Unit  string    `json:"unit,omitempty"`
	Pages []RawPage `json:"pages"`
}

// PrimitiveCount returns the number of primitives across all pages
func (r *RawAnalysis) PrimitiveCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Primitives)
	}
	return n
}

// PageExtent is the size of a page in source units
type PageExtent struct {
	Width  float64
	Height float64
}

// Extents returns declared page extents keyed by page number. The first
// declaration of a page wins.
func (r *RawAnalysis) Extents() map[int]PageExtent {
	extents := make(map[int]PageExtent)
	for _, p := range r.Pages {
		if p.Width == nil || p.Height == nil {
			continue
		}
		if _, seen := extents[p.PageNumber]; seen {
			continue
		}
		extents[p.PageNumber] = PageExtent{Width: *p.Width, Height: *p.Height}
	}
	return extents
}

const rawAnalysisSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["pages"],
  "properties": {
    "unit": {"type": "string"},
    "pages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["pageNumber"],
        "properties": {
          "pageNumber": {"type": "integer", "minimum": 1},
          "width": {"type": ["number", "null"], "exclusiveMinimum": 0},
          "height": {"type": ["number", "null"], "exclusiveMinimum": 0},
          "primitives": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "properties": {
                "id": {"type": ["string", "null"]},
                "label": {"type": ["string", "null"]},
                "value": {"type": ["string", "null"]},
                "confidence": {"type": ["number", "null"]},
                "font": {
                  "type": ["object", "null"],
                  "properties": {
                    "family": {"type": "string"},
                    "size": {"type": "number", "exclusiveMinimum": 0}
                  }
                },
                "regions": {
                  "type": ["array", "null"],
                  "items": {
                    "type": "object",
                    "required": ["polygon"],
                    "properties": {
                      "pageNumber": {"type": "integer", "minimum": 1},
                      "polygon": {"type": "array", "items": {"type": "number"}}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var rawSchema = jsonschema.MustCompileString("raw_analysis.json", rawAnalysisSchema)

// ParseRawAnalysis decodes and structurally validates raw detection output.
// Anything that is not a recognizable page/primitive list fails here with an
// *InputError; per-field anomalies are left for the pipeline to degrade.
func ParseRawAnalysis(data []byte) (*RawAnalysis, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, newInputError(ErrorKindMalformedInput, nil, "raw analysis is empty")
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newInputError(ErrorKindMalformedInput, err, "raw analysis is not valid JSON")
	}
	if err := rawSchema.Validate(doc); err != nil {
		return nil, newInputError(ErrorKindMalformedInput, err, "raw analysis does not match the primitive list schema")
	}

	var raw RawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newInputError(ErrorKindMalformedInput, err, "failed to decode raw analysis")
	}
	raw.Unit = strings.TrimSpace(raw.Unit)

	return &raw, nil
}

// EncodeResult renders a result as indented JSON
func EncodeResult(result *AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}
	return data, nil
}
