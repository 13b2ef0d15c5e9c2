package forms

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
)

var fieldIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:form-analyzer:field"))

// pendingField is a primitive after identity, confidence and geometry have
// been resolved, waiting for classification and capacity
type pendingField struct {
	id         string
	label      string
	value      string
	page       int
	confidence float64
	family     string
	fontSize   float64
	geometry   normalizedGeometry
}

type classifiedField struct {
	field     DetectedField
	fontKnown bool
}

// Analyze runs the full pipeline over a raw detection result: geometry
// normalization, classification, capacity, conflict detection and scoring.
// Per-field anomalies become warnings; only unusable input or options
// produce an error. The result shares no memory with raw or opts.
func Analyze(raw *RawAnalysis, opts Options) (*AnalysisResult, error) {
	if raw == nil {
		return nil, newInputError(ErrorKindMalformedInput, nil, "raw analysis is nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var ws warnings

	scale := opts.Scale
	if scale == 0 {
		var known bool
		scale, known = ScaleForUnit(raw.Unit)
		if !known {
			ws.add(WarnUnknownSourceUnit, "", "source unit %q is not recognized, using scale %g", raw.Unit, scale)
		}
	}

	extents := raw.Extents()
	for page, ext := range opts.PageExtents {
		if _, declared := extents[page]; !declared {
			extents[page] = ext
		}
	}

	pending := resolvePrimitives(raw, extents, opts, scale, &ws)

	classified := iter.Map(pending, func(p *pendingField) classifiedField {
		return classifyField(p, opts.Tables)
	})

	fields := make([]DetectedField, len(classified))
	reportedFonts := make(map[string]bool)
	for i, c := range classified {
		fields[i] = c.field
		if c.field.Capacity != nil && !c.fontKnown {
			key := normalizeFamily(c.field.FontFamily)
			if !reportedFonts[key] {
				reportedFonts[key] = true
				ws.add(WarnUnknownFontFamily, c.field.FieldID, "font family %q is not in the width table, using fallback width %g",
					c.field.FontFamily, opts.Tables.FallbackCharWidth)
			}
		}
	}

	conflicts := DetectConflicts(fields)
	scores := ScoreDocument(fields)

	if raw.PrimitiveCount() == 0 {
		ws.add(WarnEmptyInput, "", "raw analysis contains no detected primitives")
	}

	return &AnalysisResult{
		Status:             StatusAnalyzed,
		Unit:               opts.Unit,
		Fields:             fields,
		Conflicts:          conflicts,
		DocumentConfidence: scores.DocumentConfidence,
		Completeness:       scores.Completeness,
		Summary:            summarize(fields, conflicts),
		Warnings:           ws.strings(),
	}, nil
}

// resolvePrimitives flattens pages into fields in input order, assigning
// unique ids, resolving confidence and normalizing geometry
func resolvePrimitives(raw *RawAnalysis, extents map[int]PageExtent, opts Options, scale float64, ws *warnings) []pendingField {
	pending := make([]pendingField, 0, raw.PrimitiveCount())
	seen := make(map[string]bool)

	for _, page := range raw.Pages {
		var extent *PageExtent
		if ext, ok := extents[page.PageNumber]; ok {
			extent = &ext
		}

		for idx, prim := range page.Primitives {
			id := assignFieldID(prim, page.PageNumber, idx, seen, ws)

			p := pendingField{
				id:         id,
				label:      strings.TrimSpace(prim.Label),
				value:      prim.Value,
				page:       page.PageNumber,
				confidence: resolveConfidence(id, prim.Confidence, opts.DefaultConfidence, ws),
				family:     opts.FontFamily,
				fontSize:   opts.FontSize,
			}
			if prim.Font != nil {
				if f := strings.TrimSpace(prim.Font.Family); f != "" {
					p.family = f
				}
				if prim.Font.Size > 0 {
					p.fontSize = prim.Font.Size
				}
			}
			p.geometry = normalizeGeometry(id, page.PageNumber, prim.Regions, extent, opts.Unit, scale, ws)

			pending = append(pending, p)
		}
	}
	return pending
}

// assignFieldID keeps the source id when it is present and unused, and
// otherwise derives a name-based UUID so reruns produce the same id
func assignFieldID(prim RawPrimitive, page, idx int, seen map[string]bool, ws *warnings) string {
	source := strings.TrimSpace(prim.ID)
	id := source
	if id == "" || seen[id] {
		name := fmt.Sprintf("%d/%d/%s/%s", page, idx, source, strings.TrimSpace(prim.Label))
		id = uuid.NewSHA1(fieldIDNamespace, []byte(name)).String()
		for n := 1; seen[id]; n++ {
			id = uuid.NewSHA1(fieldIDNamespace, []byte(fmt.Sprintf("%s#%d", name, n))).String()
		}
		if source != "" {
			ws.add(WarnDuplicateFieldID, id, "source id %q already used, reassigned", source)
		}
	}
	seen[id] = true
	return id
}

func resolveConfidence(fieldID string, c *float64, fallback float64, ws *warnings) float64 {
	if c == nil {
		ws.add(WarnMissingConfidence, fieldID, "no confidence reported, using %g", fallback)
		return fallback
	}
	v := *c
	if math.IsNaN(v) {
		ws.add(WarnConfidenceOutOfRange, fieldID, "confidence is NaN, using %g", fallback)
		return fallback
	}
	if v < 0 || v > 1 {
		clamped := clamp(v, 0, 1)
		ws.add(WarnConfidenceOutOfRange, fieldID, "confidence %g clamped to %g", v, clamped)
		return clamped
	}
	return v
}

// classifyField runs classification and capacity for one field. It touches
// nothing but its own input and may run concurrently with other fields.
func classifyField(p *pendingField, tables Tables) classifiedField {
	class := Classify(p.label, p.value, tables)

	displayName := p.label
	if displayName == "" {
		displayName = p.id
	}

	field := DetectedField{
		FieldID:                  p.id,
		DisplayName:              displayName,
		FieldType:                class.FieldType,
		MedicalType:              class.MedicalType,
		Value:                    p.value,
		Confidence:               clamp(p.confidence*class.Confidence, 0, 1),
		ClassificationConfidence: class.Confidence,
		BoundingBox:              p.geometry.Box,
		PageNumber:               p.page,
		FontFamily:               p.family,
		FontSize:                 p.fontSize,
	}

	fontKnown := true
	if p.geometry.Box != nil {
		info, known := CalculateCapacity(p.geometry.PixelWidth, p.family, p.fontSize, p.value, tables)
		field.Capacity = &info
		fontKnown = known
	}
	return classifiedField{field: field, fontKnown: fontKnown}
}
